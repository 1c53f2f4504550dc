package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/labmed/barcoder/pkg/layout"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// PresetListModel - Interactive layout selection
// =============================================================================

// PresetListModel is the bubbletea model for interactive layout selection.
type PresetListModel struct {
	Presets  []layout.Preset
	Cursor   int
	Selected *layout.Preset
}

// NewPresetListModel creates a picker with the cursor on the preset named
// current, if present.
func NewPresetListModel(presets []layout.Preset, current string) PresetListModel {
	m := PresetListModel{Presets: presets}
	for i, p := range presets {
		if p.Name() == current {
			m.Cursor = i
		}
	}
	return m
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Presets)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Presets) == 0 {
				return m, tea.Quit
			}
			p := m.Presets[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Presets))
	for i, p := range m.Presets {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, presetRow(p)...))
	}

	t := presetTable(rows).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return listHeaderStyle
			case row == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Presets))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

var presetHeaders = []string{"Layout", "Grid", "Labels", "Code", "Description"}

// presetTable renders preset rows with a leading cursor column.
func presetTable(rows [][]string) *table.Table {
	return plainTable(append([]string{""}, presetHeaders...), rows)
}

// presetRow describes p in the columns of presetHeaders.
func presetRow(p layout.Preset) []string {
	l := p.Layout
	grid := fmt.Sprintf("%d×%d", l.NumX, l.NumY)
	labels := fmt.Sprintf("%.3g×%.3g in", l.LabelWidth/layout.In, l.LabelHeight/layout.In)
	length := "any"
	if p.CodeLength > 0 {
		length = fmt.Sprint(p.CodeLength)
	}
	return []string{l.Name, grid, labels, length, p.Description}
}
