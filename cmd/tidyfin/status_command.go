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

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog counts and recent jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withPipeline(func(ctx context.Context, cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline) error {
				stats, err := store.ItemStats(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s\n\n", cfg.DatabasePath())

				statuses := []catalog.ItemStatus{
					catalog.ItemPending,
					catalog.ItemOrganized,
					catalog.ItemDuplicate,
					catalog.ItemConflict,
				}
				statRows := make([][]string, 0, len(statuses))
				for _, status := range statuses {
					statRows = append(statRows, []string{
						string(status),
						humanize.Comma(int64(stats[status])),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Status", "Items"},
					statRows,
					[]columnAlignment{alignLeft, alignRight},
				))

				jobs, err := store.ListJobs(ctx, 10)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintln(out, "\nNo jobs yet")
					return nil
				}

				jobRows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					finished := "-"
					if job.CompletedAt != nil {
						finished = humanize.Time(*job.CompletedAt)
					}
					jobRows = append(jobRows, []string{
						strconv.FormatInt(job.ID, 10),
						string(job.Kind),
						string(job.Status),
						fmt.Sprintf("%d/%d", job.ProcessedFiles, job.TotalFiles),
						strconv.Itoa(job.FailedCount),
						finished,
					})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"Job", "Kind", "Status", "Progress", "Failed", "Finished"},
					jobRows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
