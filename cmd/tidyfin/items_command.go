package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tidyfin/internal/catalog"
	"tidyfin/internal/config"
	"tidyfin/internal/pipeline"
)

func newItemsCommand(cctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List catalogued media items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []catalog.ItemStatus
			if statusFlag != "" {
				status, ok := catalog.ParseItemStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown item status %q", statusFlag)
				}
				statuses = append(statuses, status)
			}

			return cctx.withPipeline(func(ctx context.Context, cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline) error {
				items, err := store.ListItems(ctx, statuses...)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No items")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					episode := "-"
					if item.Season != nil && item.Episode != nil {
						episode = fmt.Sprintf("S%02dE%02d", *item.Season, *item.Episode)
					}
					year := "-"
					if item.Year != nil {
						year = strconv.Itoa(*item.Year)
					}
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.DetectedName,
						string(item.DetectedType),
						year,
						episode,
						strconv.Itoa(item.Confidence),
						string(item.Status),
					})
				}
				headers := []string{"ID", "Name", "Type", "Year", "Episode", "Confidence", "Status"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by item status (pending, organized, duplicate, conflict)")
	return cmd
}
