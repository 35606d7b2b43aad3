package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msalah0e/strainscope/internal/activity"
	"github.com/msalah0e/strainscope/internal/tui"
	"github.com/msalah0e/strainscope/internal/ui"
)

func exploreCmd() *cobra.Command {
	var (
		focus    string
		search   string
		noRotate bool
	)

	cmd := &cobra.Command{
		Use:     "explore",
		Aliases: []string{"ui", "tui"},
		Short:   "Open the interactive 3D lineage explorer",
		Long: `Open the interactive 3D lineage explorer.

Type to search, click a strain to trace its ancestry, use ←/→ to step
through the timeline and esc to clear.

  strainscope                       # Explore the built-in dataset
  strainscope explore --focus og-kush
  strainscope explore --search haze --no-rotate
  strainscope --data my-garden.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.IsTerminal() {
				return fmt.Errorf("explore needs a terminal; try `strainscope list` or `strainscope export`")
			}
			g, err := loadGraph()
			if err != nil {
				return err
			}

			session := activity.NewSession()
			logger.Info("explore", zap.String("session", session.ID), zap.Int("strains", g.Len()))
			if err := activity.Log("explore", fmt.Sprintf("%d strains", g.Len())); err != nil {
				logger.Warn("activity log", zap.Error(err))
			}

			w, h := ui.TerminalSize()
			return tui.Run(cmd.Context(), tui.Options{
				Graph:    g,
				Config:   cfg,
				Logger:   logger.Named("tui"),
				Session:  session,
				Focus:    focus,
				Search:   search,
				NoRotate: noRotate,
				Width:    w,
				Height:   h,
			})
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "Strain id to focus at start")
	cmd.Flags().StringVar(&search, "search", "", "Initial search text")
	cmd.Flags().BoolVar(&noRotate, "no-rotate", false, "Disable idle auto-rotation")
	_ = cmd.RegisterFlagCompletionFunc("focus", strainCompletionFunc)
	return cmd
}
