package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tidyfin/internal/catalog"
	"tidyfin/internal/config"
	"tidyfin/internal/dedup"
	"tidyfin/internal/library"
	"tidyfin/internal/logging"
	"tidyfin/internal/resolve"
)

// Pipeline owns job execution. At most one scan and one organize job may be
// active at a time; starting a second returns the active job's id instead.
type Pipeline struct {
	cfg      *config.Config
	store    *catalog.Store
	resolver *resolve.Resolver
	logger   *slog.Logger

	mu sync.Mutex
}

// New creates a Pipeline.
func New(cfg *config.Config, store *catalog.Store, resolver *resolve.Resolver, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// StartScan launches a scan job in the background and returns its id. When a
// scan is already active its id is returned with started=false.
func (p *Pipeline) StartScan(ctx context.Context) (int64, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	active, err := p.store.ActiveJob(ctx, catalog.JobKindScan)
	if err != nil {
		return 0, false, fmt.Errorf("check active scan: %w", err)
	}
	if active != nil {
		return active.ID, false, nil
	}

	job := &catalog.Job{Kind: catalog.JobKindScan}
	if err := p.store.CreateJob(ctx, job); err != nil {
		return 0, false, fmt.Errorf("create scan job: %w", err)
	}
	go p.runScan(job)
	return job.ID, true, nil
}

// StartOrganize launches an organize job over the given item ids and returns
// its id. When an organize job is already active its id is returned with
// started=false.
func (p *Pipeline) StartOrganize(ctx context.Context, ids []int64, dryRun bool) (int64, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	active, err := p.store.ActiveJob(ctx, catalog.JobKindOrganize)
	if err != nil {
		return 0, false, fmt.Errorf("check active organize: %w", err)
	}
	if active != nil {
		return active.ID, false, nil
	}

	job := &catalog.Job{Kind: catalog.JobKindOrganize, DryRun: dryRun}
	if err := p.store.CreateJob(ctx, job); err != nil {
		return 0, false, fmt.Errorf("create organize job: %w", err)
	}
	go p.runOrganize(job, ids)
	return job.ID, true, nil
}

// Duplicates computes duplicate groups over the whole catalog. When mark is
// set, non-founder members are persisted as duplicates of their group's
// founder.
func (p *Pipeline) Duplicates(ctx context.Context, threshold int, mark bool) ([]dedup.Group, error) {
	if threshold <= 0 {
		threshold = p.cfg.Duplicates.Threshold
	}
	items, err := p.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	groups := dedup.FindDuplicates(items, threshold)
	if !mark {
		return groups, nil
	}

	byID := make(map[int64]*catalog.MediaItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, group := range groups {
		founder := group.Members[0].ID
		for _, member := range group.Members[1:] {
			item := byID[member.ID]
			if item == nil || item.Status == catalog.ItemDuplicate {
				continue
			}
			item.Status = catalog.ItemDuplicate
			duplicateOf := founder
			item.DuplicateOf = &duplicateOf
			if err := p.store.UpdateItem(ctx, item); err != nil {
				return nil, fmt.Errorf("mark duplicate %d: %w", item.ID, err)
			}
		}
	}
	return groups, nil
}

func (p *Pipeline) libraryPaths() library.Paths {
	return library.Paths{
		MoviesRoot:   p.cfg.MoviesRoot(),
		TVRoot:       p.cfg.TVRoot(),
		UnsortedRoot: p.cfg.UnsortedRoot(),
	}
}

func (p *Pipeline) chunkDelay() time.Duration {
	return time.Duration(p.cfg.Jobs.ChunkDelayMS) * time.Millisecond
}

func (p *Pipeline) persistJob(ctx context.Context, job *catalog.Job) {
	if err := p.store.UpdateJob(ctx, job); err != nil {
		p.logger.Error("persist job progress", logging.Error(err))
	}
}

func (p *Pipeline) finishJob(ctx context.Context, job *catalog.Job, runErr error) {
	now := time.Now().UTC()
	job.CompletedAt = &now
	job.CurrentFile = ""
	job.CurrentFolder = ""
	if runErr != nil {
		job.Status = catalog.JobFailed
		job.ErrorMessage = runErr.Error()
		p.logger.Error("job failed",
			logging.Int64("job_id", job.ID),
			logging.String("kind", string(job.Kind)),
			logging.Error(runErr))
	} else {
		job.Status = catalog.JobCompleted
	}
	p.persistJob(ctx, job)
}
