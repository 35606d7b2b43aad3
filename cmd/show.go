package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/strainscope/internal/explorer"
	"github.com/msalah0e/strainscope/internal/export"
	"github.com/msalah0e/strainscope/internal/lineage"
	"github.com/msalah0e/strainscope/internal/ui"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show <id>",
		Aliases:           []string{"info"},
		Short:             "Show a strain with its ancestry and descendants",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: strainCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			id := args[0]

			ctrl := explorer.New(g)
			if !ctrl.Select(id) {
				return fmt.Errorf("%q: %w", id, lineage.ErrNotFound)
			}
			n, _ := ctrl.Focused()

			ui.Banner(n.Name)
			row := func(label, value string) {
				fmt.Fprintf(ui.Out, "  %s  %s\n", ui.Brand.Sprintf("%-12s", label), value)
			}
			row("ID", n.ID)
			row("Year", fmt.Sprint(n.Year))
			row("Type", ui.TypeLabel(n.Type))
			row("Depth", fmt.Sprint(n.Depth))
			row("Position", fmt.Sprintf("(%.2f, %.2f, %.2f)", n.Position.X, n.Position.Y, n.Position.Z))

			tree, err := export.RenderTree(g, id, treeStyle())
			if err != nil {
				return err
			}
			fmt.Fprintln(ui.Out)
			ui.Info.Fprintln(ui.Out, "  Ancestry")
			for _, line := range strings.Split(strings.TrimRight(tree, "\n"), "\n") {
				fmt.Fprintln(ui.Out, "  "+line)
			}

			highlight := ctrl.HighlightSet()
			ids := make([]string, 0, len(highlight))
			for hid := range highlight {
				ids = append(ids, hid)
			}
			sort.Strings(ids)
			fmt.Fprintln(ui.Out)
			ui.Info.Fprintf(ui.Out, "  Highlighted lineage (%d)\n", len(ids))
			fmt.Fprintf(ui.Out, "  %s\n", ui.Subtle.Sprint(strings.Join(ids, ", ")))

			fmt.Fprintln(ui.Out)
			desc := g.Descendants(id)
			ui.Info.Fprintf(ui.Out, "  Descendants (%d)\n", len(desc))
			if len(desc) == 0 {
				fmt.Fprintln(ui.Out, "  "+ui.Subtle.Sprint("none in this dataset"))
			}
			for _, d := range desc {
				fmt.Fprintf(ui.Out, "  %s %s (%d, %s)\n", ui.Subtle.Sprint("──"), d.Name, d.Year, ui.TypeLabel(d.Type))
			}
			return nil
		},
	}
}

// treeStyle colours ancestry trees with the CLI palette.
func treeStyle() export.Style {
	return export.Style{
		Name:   func(s string) string { return ui.Brand.Sprint(s) },
		Subtle: func(s string) string { return ui.Subtle.Sprint(s) },
		Type:   ui.TypeLabel,
	}
}
