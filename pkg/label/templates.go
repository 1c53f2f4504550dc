package label

import (
	"github.com/labmed/barcoder/pkg/canvas"
	"github.com/labmed/barcoder/pkg/fonts"
	"github.com/labmed/barcoder/pkg/symbol"
)

const in = 72.0

var templates = map[string]Template{
	"pool": {
		Name:        "pool",
		Description: "Code 128 with the code printed underneath",
		Width:       1.75 * in,
		Height:      0.5 * in,
		Symbols: []Symbol{
			{Kind: symbol.KindCode128, Content: "{code}", X: 9, Y: 10, W: 108, H: 24},
		},
		Texts: []Text{
			{Content: "{code}", X: 63, Y: 2.5, Font: font(fonts.Regular, 7, canvas.AnchorMiddle)},
		},
	},
	"specimen": {
		Name:        "specimen",
		Description: "Code 128 sized from the code with up to four text fields",
		Width:       (2 + 5.0/8) * in,
		Height:      0.8 * in,
		Symbols: []Symbol{
			{Kind: symbol.KindCode128, Content: "{code}", X: 3, Y: 9, H: 19.8, Mils: symbol.DefaultMils},
		},
		Texts: []Text{
			{Content: "{code}", X: 3, Y: 1.5, Font: font(fonts.Regular, 7, canvas.AnchorStart)},
			{Content: "{label1}", X: 5, Y: 43.8, Font: font(fonts.Regular, 8, canvas.AnchorStart)},
			{Content: "{label2}", X: 5, Y: 32.8, Font: font(fonts.Regular, 8, canvas.AnchorStart)},
			{Content: "{label3}", X: 99.5, Y: 43.8, Font: font(fonts.Regular, 8, canvas.AnchorStart)},
			{Content: "{label4}", X: 99.5, Y: 32.8, Font: font(fonts.Regular, 8, canvas.AnchorStart)},
		},
	},
	"lab": {
		Name:        "lab",
		Description: "Lab requisition label; the ';' prefix marks a retrieval code for the scanner",
		Width:       4.25 * in,
		Height:      (1 + 5.0/16) * in,
		Symbols: []Symbol{
			{Kind: symbol.KindCode128, Content: ";{code}", X: 20, Y: 14, W: 180, H: 36},
		},
		Texts: []Text{
			{Content: "{chunked}", X: 110, Y: 4, Font: font(fonts.Regular, 9, canvas.AnchorMiddle)},
			{Content: "{tag}", X: 286, Y: 84, Font: font(fonts.Regular, 10, canvas.AnchorEnd)},
			{Content: "Lab: if order contains QRCODE scan there;", X: 30, Y: 69, Font: font(fonts.Regular, 10, canvas.AnchorStart)},
			{Content: "if not, add QRCOD and scan result at prompt.", X: 30, Y: 57, Font: font(fonts.Regular, 10, canvas.AnchorStart)},
			{Content: "Place on", X: 210, Y: 35, Font: font(fonts.Bold, 11, canvas.AnchorStart)},
			{Content: "Lab Requisition", X: 210, Y: 20, Font: font(fonts.Bold, 11, canvas.AnchorStart)},
			{Content: "v{version} {date}", X: 286, Y: 4, Font: font(fonts.Regular, 7, canvas.AnchorEnd)},
		},
	},
	"qr": {
		Name:        "qr",
		Description: "QR retrieval label linking to the results site",
		Width:       4.25 * in,
		Height:      (1 + 5.0/16) * in,
		Symbols: []Symbol{
			{Kind: symbol.KindQR, Content: "{url}?code={code}", X: 14, Y: 14, W: 66, H: 66},
		},
		Texts: []Text{
			{Content: "{url}", X: 90, Y: 58, Font: font(fonts.Regular, 14, canvas.AnchorStart)},
			{Content: "Visit address above or scan QR code", X: 90, Y: 46, Font: font(fonts.Regular, 10, canvas.AnchorStart)},
			{Content: "({counter})", X: 286, Y: 46, Font: font(fonts.Regular, 8, canvas.AnchorEnd)},
			{Content: "Your retrieval code:", X: 90, Y: 34, Font: font(fonts.Regular, 10, canvas.AnchorStart)},
			{Content: "{chunked}", X: 90, Y: 20, Font: font(fonts.Bold, 13, canvas.AnchorStart)},
			{Content: "{note}", X: 90, Y: 8, Font: font(fonts.Italic, 9, canvas.AnchorStart)},
		},
	},
}
