package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/lineage"
	"github.com/msalah0e/strainscope/internal/ui"
)

func listCmd() *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List strains in timeline order",
		Long: `List every strain sorted by year, then name.

  strainscope list
  strainscope list --type indica`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}

			nodes := g.Sorted()
			subtitle := "all strains"
			if typeFilter != "" {
				t := lineage.ParseType(typeFilter)
				nodes = filterType(nodes, t)
				subtitle = string(t) + " strains"
			}
			ui.Banner(subtitle)

			if len(nodes) == 0 {
				fmt.Fprintln(ui.Out, "  No strains found.")
				return nil
			}
			ui.Table([]string{"Year", "Strain", "Type", "ID", "Parents"}, strainRows(nodes))
			fmt.Fprintf(ui.Out, "\n  %d strains · `strainscope show <id>` for lineage\n", len(nodes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "Only list strains of this type (sativa, indica, hybrid, ruderalis, other)")
	_ = cmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"sativa", "indica", "hybrid", "ruderalis", "other"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// filterType keeps the nodes of type t. Other also collects every unknown
// type, since those render in the fallback colour.
func filterType(nodes []*layout.Node, t lineage.Type) []*layout.Node {
	var out []*layout.Node
	for _, n := range nodes {
		if n.Type == t || (t == lineage.Other && lineage.ParseType(string(n.Type)) == lineage.Other) {
			out = append(out, n)
		}
	}
	return out
}

func strainRows(nodes []*layout.Node) [][]string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		parents := "-"
		if k := len(n.Strain.Parents); k > 0 {
			parents = strconv.Itoa(k)
		}
		rows = append(rows, []string{
			strconv.Itoa(n.Year),
			n.Name,
			ui.TypeLabel(n.Type),
			ui.Subtle.Sprint(n.ID),
			parents,
		})
	}
	return rows
}
