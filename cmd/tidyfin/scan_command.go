package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tidyfin/internal/catalog"
	"tidyfin/internal/config"
	"tidyfin/internal/pipeline"
)

func newScanCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan source directories and catalogue new video files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withPipeline(func(ctx context.Context, cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline) error {
				id, started, err := p.StartScan(ctx)
				if err != nil {
					return err
				}
				if !started {
					fmt.Fprintf(cmd.OutOrStdout(), "Scan job %d is already running\n", id)
					return nil
				}

				job, err := waitForJob(ctx, cmd, store, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scanned %s files, %s new, %s failed\n",
					humanize.Comma(int64(job.ProcessedFiles)),
					humanize.Comma(int64(job.NewItems)),
					humanize.Comma(int64(job.FailedCount)))
				printJobErrors(cmd, job)
				if job.Status == catalog.JobFailed {
					return fmt.Errorf("scan job %d failed: %s", job.ID, job.ErrorMessage)
				}
				return nil
			})
		},
	}
}

func printJobErrors(cmd *cobra.Command, job *catalog.Job) {
	for _, message := range job.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", message)
	}
}
