package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/msalah0e/strainscope/internal/activity"
	"github.com/msalah0e/strainscope/internal/lineage"
	"github.com/msalah0e/strainscope/internal/stats"
	"github.com/msalah0e/strainscope/internal/ui"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the dataset and your exploring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			s := stats.Summarize(g)

			ui.Banner("dataset statistics")
			row := func(label string, value any) {
				fmt.Fprintf(ui.Out, "  %s  %v\n", ui.Brand.Sprintf("%-16s", label), value)
			}
			row("Strains", s.Strains)
			row("Connections", s.Connections)
			row("Top-level", s.TopLevel)
			row("Founders", s.Founders)
			row("Years", fmt.Sprintf("%d–%d", s.MinYear, s.MaxYear))
			row("Deepest level", s.MaxDepth)

			fmt.Fprintln(ui.Out)
			types := append([]lineage.Type{}, lineage.Types...)
			var rows [][]string
			for _, t := range append(types, lineage.Other) {
				if k := s.ByType[t]; k > 0 {
					rows = append(rows, []string{ui.TypeLabel(t), strconv.Itoa(k), bar(k, s.Strains, 30)})
				}
			}
			ui.Table([]string{"Type", "Strains", ""}, rows)

			fmt.Fprintln(ui.Out)
			rows = rows[:0]
			for _, d := range s.Decades() {
				k := s.ByDecade[d]
				rows = append(rows, []string{fmt.Sprintf("%ds", d), strconv.Itoa(k), bar(k, s.Strains, 30)})
			}
			ui.Table([]string{"Decade", "Strains", ""}, rows)

			if len(s.Shared) > 0 {
				fmt.Fprintln(ui.Out)
				ui.Info.Fprintln(ui.Out, "  Shared ancestors")
				for i, c := range s.Shared {
					if i == 5 {
						break
					}
					fmt.Fprintf(ui.Out, "  %s %s %s\n", ui.Subtle.Sprint("──"), c.Name, ui.Subtle.Sprintf("(%d descendants)", c.Count))
				}
			}

			entries, err := activity.Read(0)
			if err != nil || len(entries) == 0 {
				return nil
			}
			u := stats.SummarizeUsage(entries, g)
			fmt.Fprintln(ui.Out)
			ui.Info.Fprintln(ui.Out, "  Your exploring")
			row("Sessions", u.Sessions)
			row("Selections", u.Selections)
			row("Exports", u.Exports)
			row("Last used", time.Since(u.LastUsed).Round(time.Second).String()+" ago")
			for i, c := range u.TopStrains {
				if i == 3 {
					break
				}
				fmt.Fprintf(ui.Out, "  %s %s %s\n", ui.Subtle.Sprint("──"), c.Name, ui.Subtle.Sprintf("(%d×)", c.Count))
			}
			return nil
		},
	}
}

func bar(n, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := n * width / total
	if filled == 0 && n > 0 {
		filled = 1
	}
	return ui.Good.Sprint(strings.Repeat("█", filled)) + ui.Subtle.Sprint(strings.Repeat("░", width-filled))
}
