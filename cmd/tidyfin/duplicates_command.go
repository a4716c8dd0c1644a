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

func newDuplicatesCommand(cctx *commandContext) *cobra.Command {
	var (
		threshold int
		mark      bool
	)

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Find likely duplicate files by filename similarity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if threshold < 0 || threshold > 100 {
				return fmt.Errorf("threshold must be between 0 and 100, got %d", threshold)
			}
			return cctx.withPipeline(func(ctx context.Context, cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline) error {
				groups, err := p.Duplicates(ctx, threshold, mark)
				if err != nil {
					return err
				}
				if len(groups) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No duplicates found")
					return nil
				}

				headers := []string{"Group", "ID", "Filename", "Similarity", "Original"}
				rows := make([][]string, 0)
				for i, group := range groups {
					for _, member := range group.Members {
						rows = append(rows, []string{
							strconv.Itoa(i + 1),
							strconv.FormatInt(member.ID, 10),
							member.Filename,
							fmt.Sprintf("%d%%", member.Similarity),
							yesNo(member.IsOriginal),
						})
					}
				}
				aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				if mark {
					fmt.Fprintf(cmd.OutOrStdout(), "Marked duplicates across %d groups\n", len(groups))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 0, "Similarity threshold, 0 uses the configured default")
	cmd.Flags().BoolVar(&mark, "mark", false, "Mark non-original members as duplicates in the catalog")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
