package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/msalah0e/strainscope/cmd"
)

//go:embed lineage/*.yaml
var lineageFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetLineageFS(lineageFS)
	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
