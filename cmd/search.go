package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/strainscope/internal/explorer"
	"github.com/msalah0e/strainscope/internal/ui"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search <query>",
		Aliases: []string{"s", "find"},
		Short:   "Search strains by name",
		Long: `Search strains by name, case-insensitively, the same way the explorer's
search field matches.

  strainscope search kush
  strainscope search "skunk #1"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			ctrl := explorer.New(g)
			ctrl.SetSearchText(query)
			results := ctrl.Results()

			ui.Banner(fmt.Sprintf("search results for %q", query))
			if len(results) == 0 {
				fmt.Fprintln(ui.Out, "  No strains found matching your query.")
				return nil
			}
			ui.Table([]string{"Year", "Strain", "Type", "ID", "Parents"}, strainRows(results))
			fmt.Fprintf(ui.Out, "\n  %d results · `strainscope explore --search %q` to see them in 3D\n", len(results), query)
			return nil
		},
	}
}
