package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msalah0e/strainscope/internal/activity"
	"github.com/msalah0e/strainscope/internal/export"
	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/parallel"
	"github.com/msalah0e/strainscope/internal/ui"
)

func exportCmd() *cobra.Command {
	var (
		formats string
		outDir  string
		base    string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the lineage as DOT, JSON, HTML or a text tree",
		Long: `Export the lineage graph. Formats are written in parallel.

  strainscope export                          # every format into ./
  strainscope export --format dot,json --out build/
  strainscope export --format html            # standalone 3D viewer

The HTML viewer needs no server: open the file in a browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := export.ParseFormats(formats)
			if err != nil {
				return err
			}
			g, err := loadGraph()
			if err != nil {
				return err
			}

			view := exportView()
			if title != "" {
				view.Title = title
			}

			ui.Banner("export")
			results := export.WriteAll(cmd.Context(), g, list, outDir, base, view, nil)
			for _, r := range results {
				if r.OK {
					fmt.Fprintf(ui.Out, "  %s %-5s %s %s\n", ui.StatusIcon(true), r.Name, r.Output, ui.Subtle.Sprint(r.Elapsed.Round(time.Millisecond)))
					logger.Debug("exported", zap.String("format", r.Name), zap.String("path", r.Output))
				} else {
					fmt.Fprintf(ui.Out, "  %s %-5s %v\n", ui.StatusIcon(false), r.Name, r.Err)
				}
			}

			if failed := parallel.Failed(results); len(failed) > 0 {
				names := make([]string, len(failed))
				for i, f := range failed {
					names[i] = f.Name
				}
				return fmt.Errorf("export failed for %s", strings.Join(names, ", "))
			}
			if err := activity.Log("export", fmt.Sprintf("%s -> %s", formats, outDir)); err != nil {
				logger.Warn("activity log", zap.Error(err))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "all", "Comma-separated formats: dot, json, html, tree, or all")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	cmd.Flags().StringVar(&base, "name", "lineage", "Base file name")
	cmd.Flags().StringVar(&title, "title", "", "Title of the HTML viewer")
	return cmd
}

// exportView carries the configured camera and rotation into the HTML
// viewer.
func exportView() export.View {
	v := export.DefaultView()
	if cfg == nil {
		return v
	}
	o := cfg.Camera.Offset
	v.RingInterval = cfg.Scene.RingInterval
	v.Offset = layout.Vec3{X: o[0], Y: o[1], Z: o[2]}
	v.FollowRate = cfg.Camera.FollowRate
	v.Distance = cfg.Camera.Distance
	v.Polar = cfg.Camera.Polar
	v.FOV = cfg.Camera.FOV
	v.Speed = cfg.Rotate.Speed
	v.MinAzimuth = cfg.Rotate.MinAzimuth
	v.MaxAzimuth = cfg.Rotate.MaxAzimuth
	v.Epsilon = cfg.Rotate.Epsilon
	if !cfg.Rotate.Enabled {
		v.Speed = 0
	}
	return v
}
