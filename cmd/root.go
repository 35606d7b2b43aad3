package cmd

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msalah0e/strainscope/internal/config"
	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/lineage"
	"github.com/msalah0e/strainscope/internal/logging"
	"github.com/msalah0e/strainscope/internal/ui"
)

var version = "0.3.0"

// lineageDir is the directory of the embedded dataset inside lineageFS.
const lineageDir = "lineage"

var (
	lineageFS fs.FS

	dataFile string
	verbose  bool
	noColor  bool

	cfg    *config.Config
	logger = zap.NewNop()
)

// SetLineageFS sets the embedded filesystem containing the YAML dataset.
func SetLineageFS(fsys fs.FS) {
	lineageFS = fsys
}

// loadDataset reads --data when given, otherwise the embedded dataset plus
// the user's overlay directory. Broken overlay files are reported and
// skipped.
func loadDataset() (*lineage.Dataset, error) {
	if dataFile != "" {
		ds, err := lineage.LoadFile(dataFile)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", dataFile, err)
		}
		return ds, nil
	}
	if lineageFS == nil {
		return nil, fmt.Errorf("no embedded lineage dataset")
	}
	ds, err := lineage.LoadAll(lineageFS, lineageDir, config.LineageDir())
	if err != nil {
		return nil, fmt.Errorf("loading lineage: %w", err)
	}
	for _, w := range ds.Warnings {
		fmt.Fprintf(ui.Out, "  %s skipped overlay: %v\n", ui.WarnIcon(), w)
		logger.Warn("overlay skipped", zap.Error(w))
	}
	return ds, nil
}

// loadGraph loads the dataset and lays it out with the configured
// parameters.
func loadGraph() (*layout.Graph, error) {
	ds, err := loadDataset()
	if err != nil {
		return nil, err
	}
	g, err := layout.Build(ds.Root, cfg.LayoutParams())
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	logger.Debug("graph built",
		zap.Int("nodes", g.Len()),
		zap.Int("connections", len(g.Connections)),
		zap.Strings("sources", ds.Sources),
	)
	return g, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strainscope",
		Short: "strainscope — explore strain genealogy in 3D",
		Long: ui.Brand.Sprint(ui.Leaf+" strainscope") + " — explore strain genealogy in 3D\n" +
			ui.Subtle.Sprint("Strains sit on a timeline; ancestors fan out around it"),
		Version:       version + " " + ui.Leaf,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Out = cmd.OutOrStdout()
			cfg = config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config %s: %w", config.Path(), err)
			}
			ui.SetEmoji(cfg.UI.Emoji)
			ui.SetColor(cfg.UI.Color && !noColor && ui.ShouldUseColor())

			l, err := logging.New(cfg.Log, verbose)
			if err != nil {
				return fmt.Errorf("logging: %w", err)
			}
			logger = l
			logger.Debug("start", zap.String("command", cmd.CommandPath()), zap.String("version", version))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.SetVersionTemplate("strainscope {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&dataFile, "data", "", "Load the lineage from this YAML file instead of the built-in dataset")
	flags.BoolVar(&verbose, "verbose", false, "Write debug logs to the log file")
	flags.BoolVar(&noColor, "no-color", false, "Disable coloured output")

	explore := exploreCmd()
	root.RunE = explore.RunE
	root.Flags().AddFlagSet(explore.Flags())

	root.AddCommand(
		explore,
		listCmd(),
		searchCmd(),
		showCmd(),
		layoutCmd(),
		exportCmd(),
		statsCmd(),
		historyCmd(),
		configCmd(),
		completionCmd(root),
	)
	return root
}

// Execute runs the root command. Errors are printed in red.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		ui.Bad.Fprintf(root.ErrOrStderr(), "strainscope: %v\n", err)
	}
	return err
}
