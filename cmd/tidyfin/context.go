package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"tidyfin/internal/catalog"
	"tidyfin/internal/config"
	"tidyfin/internal/logging"
	"tidyfin/internal/pipeline"
	"tidyfin/internal/resolve"
	"tidyfin/internal/tmdb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// withPipeline opens the catalog and wires the resolver and pipeline, then
// runs fn and closes everything.
func (c *commandContext) withPipeline(fn func(ctx context.Context, cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.newLogger(cfg)
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	var searcher tmdb.Searcher
	if cfg.TMDB.APIKey != "" {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
		if err != nil {
			return fmt.Errorf("tmdb client: %w", err)
		}
		searcher = tmdb.NewCachedSearcher(client)
	}
	resolver := resolve.New(searcher, store, logger)
	p := pipeline.New(cfg, store, resolver, logger)

	return fn(context.Background(), cfg, store, p)
}

// waitForJob polls until the job reaches a terminal state, printing chunk
// progress as it changes.
func waitForJob(ctx context.Context, cmd *cobra.Command, store *catalog.Store, id int64) (*catalog.Job, error) {
	lastProcessed := -1
	for {
		job, err := store.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		if job == nil {
			return nil, fmt.Errorf("job %d disappeared", id)
		}
		if job.ProcessedFiles != lastProcessed && job.TotalFiles > 0 {
			lastProcessed = job.ProcessedFiles
			fmt.Fprintf(cmd.OutOrStdout(), "\rProcessed %d/%d", job.ProcessedFiles, job.TotalFiles)
		}
		if job.Status.Terminal() {
			if job.TotalFiles > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
