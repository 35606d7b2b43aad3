package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msalah0e/strainscope/internal/export"
	"github.com/msalah0e/strainscope/internal/ui"
)

func layoutCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed 3D position of every strain",
		Long: `Print the computed 3D position of every strain. X is the timeline,
Y and Z place ancestors on rings around it.

  strainscope layout
  strainscope layout --json > positions.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}

			if asJSON {
				data, err := export.RenderJSON(g)
				if err != nil {
					return err
				}
				_, err = ui.Out.Write(data)
				return err
			}

			p := g.Params
			ui.Banner(fmt.Sprintf("layout · base %d · %.2f/year · ring %.1f", p.BaseYear, p.WidthPerYear, p.RadiusIncrement))
			var rows [][]string
			for _, n := range g.Sorted() {
				rows = append(rows, []string{
					n.Name,
					strconv.Itoa(n.Year),
					strconv.Itoa(n.Depth),
					fmt.Sprintf("%8.2f", n.Position.X),
					fmt.Sprintf("%8.2f", n.Position.Y),
					fmt.Sprintf("%8.2f", n.Position.Z),
				})
			}
			ui.Table([]string{"Strain", "Year", "Depth", "X", "Y", "Z"}, rows)
			fmt.Fprintf(ui.Out, "\n  %d nodes · %d connections\n", g.Len(), len(g.Connections))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
