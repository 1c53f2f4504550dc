package pipeline

import (
	"fmt"
	"strings"

	"github.com/labmed/barcoder/pkg/canvas"
)

// NameVars are the values available to output file templates.
type NameVars struct {
	Layout    string
	Timestamp string
	Date      string
	Batch     string
	FileNo    int
	NPages    int
}

// OutputName expands an output template. {fileno} and {npages} are zero
// padded to two digits; unknown placeholders are left as they are.
func OutputName(tmpl string, v NameVars) string {
	batch := v.Batch
	if batch == "" {
		batch = "nobatch"
	}
	r := strings.NewReplacer(
		"{layout}", v.Layout,
		"{timestamp}", v.Timestamp,
		"{date}", v.Date,
		"{batch}", batch,
		"{fileno}", fmt.Sprintf("%02d", v.FileNo),
		"{npages}", fmt.Sprintf("%02d", v.NPages),
	)
	return r.Replace(tmpl)
}

// ArtifactNames returns the file names for one output file: a single
// document for PDF, otherwise one file per page with a -pNN suffix when
// there is more than one page.
func ArtifactNames(base, format string, pages int) []string {
	if canvas.MultiPage(format) || pages <= 1 {
		return []string{base + "." + format}
	}
	names := make([]string, pages)
	for i := range names {
		names[i] = fmt.Sprintf("%s-p%02d.%s", base, i+1, format)
	}
	return names
}

func (o *Options) nameVars(fileno int) NameVars {
	return NameVars{
		Layout:    o.Layout,
		Timestamp: o.Timestamp,
		Date:      o.date,
		Batch:     o.Batch,
		FileNo:    fileno,
		NPages:    o.Pages,
	}
}
