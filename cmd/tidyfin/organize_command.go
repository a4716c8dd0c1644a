package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tidyfin/internal/catalog"
	"tidyfin/internal/config"
	"tidyfin/internal/pipeline"
)

func newOrganizeCommand(cctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize [item-id...]",
		Short: "Move catalogued files into the library layout",
		Long: `Move catalogued files to their destination paths.

Without arguments every pending item is organized. Pass item ids to
organize a subset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", arg)
				}
				ids = append(ids, id)
			}

			return cctx.withPipeline(func(ctx context.Context, cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline) error {
				if len(ids) == 0 {
					pending, err := store.ListItems(ctx, catalog.ItemPending)
					if err != nil {
						return err
					}
					for _, item := range pending {
						ids = append(ids, item.ID)
					}
				}
				if len(ids) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to organize")
					return nil
				}

				id, started, err := p.StartOrganize(ctx, ids, dryRun)
				if err != nil {
					return err
				}
				if !started {
					fmt.Fprintf(cmd.OutOrStdout(), "Organize job %d is already running\n", id)
					return nil
				}

				job, err := waitForJob(ctx, cmd, store, id)
				if err != nil {
					return err
				}
				verb := "Organized"
				if dryRun {
					verb = "Verified"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s files, %s failed\n",
					verb,
					humanize.Comma(int64(job.SuccessCount)),
					humanize.Comma(int64(job.FailedCount)))
				printJobErrors(cmd, job)
				if job.Status == catalog.JobFailed {
					return fmt.Errorf("organize job %d failed: %s", job.ID, job.ErrorMessage)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Verify moves without touching any files")
	return cmd
}
