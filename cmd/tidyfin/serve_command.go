package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tidyfin/internal/catalog"
	"tidyfin/internal/config"
	"tidyfin/internal/daemon"
	"tidyfin/internal/pipeline"
)

func newServeCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tidyfin daemon with its HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withPipeline(func(ctx context.Context, cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline) error {
				logger, err := cctx.newLogger(cfg)
				if err != nil {
					return err
				}
				d, err := daemon.New(cfg, store, p, logger)
				if err != nil {
					return err
				}

				signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if err := d.Start(signalCtx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon listening on %s\n", d.APIAddress())

				<-signalCtx.Done()
				d.Stop()
				return nil
			})
		},
	}
}
