package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/labmed/barcoder/pkg/label"
	"github.com/labmed/barcoder/pkg/layout"
)

// layoutsCommand creates the layouts command, which lists sheet presets.
func (c *CLI) layoutsCommand() *cobra.Command {
	var templates bool

	cmd := &cobra.Command{
		Use:     "layouts",
		Aliases: []string{"presets"},
		Short:   "List the sheet layouts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if templates {
				fmt.Fprintln(c.stdout(), templatesTable().Render())
				return nil
			}
			fmt.Fprintln(c.stdout(), layoutsTable().Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&templates, "templates", false, "list the label templates instead")

	return cmd
}

func layoutsTable() *table.Table {
	rows := make([][]string, 0)
	for _, p := range layout.Presets() {
		rows = append(rows, presetRow(p))
	}
	return plainTable(presetHeaders, rows)
}

func templatesTable() *table.Table {
	rows := make([][]string, 0)
	for _, name := range label.Names() {
		t, err := label.Lookup(name)
		if err != nil {
			continue
		}
		size := fmt.Sprintf("%.3g×%.3g in", t.Width/layout.In, t.Height/layout.In)
		rows = append(rows, []string{t.Name, size, t.Description})
	}
	return plainTable([]string{"Template", "Size", "Description"}, rows)
}

func plainTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle.Padding(0, 1)
			}
			if col == 0 {
				return StyleHighlight.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
