package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/strainscope/internal/activity"
	"github.com/msalah0e/strainscope/internal/ui"
)

func historyCmd() *cobra.Command {
	var (
		count int
		query string
		clear bool
	)

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"log", "activity"},
		Short:   "Show recently explored strains",
		Long: `Show the activity log: strains selected in the explorer, focus
clears and exports, newest first.

  strainscope history
  strainscope history -n 50
  strainscope history --search kush
  strainscope history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				if err := activity.Clear(); err != nil {
					return fmt.Errorf("clearing history: %w", err)
				}
				ui.Good.Fprintf(ui.Out, "  %s History cleared\n", ui.StatusIcon(true))
				return nil
			}

			var (
				entries []activity.Entry
				err     error
			)
			if query != "" {
				entries, err = activity.Search(query, count)
				ui.Banner(fmt.Sprintf("history matching %q", query))
			} else {
				entries, err = activity.Read(count)
				ui.Banner("history")
			}
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(ui.Out, "  No activity recorded yet.")
				fmt.Fprintln(ui.Out, "  Strains you select in `strainscope explore` show up here.")
				return nil
			}

			var rows [][]string
			for _, e := range entries {
				session := "-"
				if len(e.Session) >= 8 {
					session = e.Session[:8]
				}
				detail := e.Details
				if detail == "" {
					detail = e.Query
				}
				year := "-"
				if e.Year > 0 {
					year = fmt.Sprint(e.Year)
				}
				rows = append(rows, []string{
					e.Timestamp.Format("Jan 02 15:04"),
					e.Action,
					e.Strain,
					year,
					ui.Subtle.Sprint(session),
					truncate(detail, 40),
				})
			}
			ui.Table([]string{"Time", "Action", "Strain", "Year", "Session", "Details"}, rows)
			fmt.Fprintf(ui.Out, "\n  Showing %d entries\n", len(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "number", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().StringVar(&query, "search", "", "Only show entries containing this text")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete the activity log")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
