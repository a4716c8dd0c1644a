package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tidyfin/internal/catalog"
	"tidyfin/internal/classify"
	"tidyfin/internal/logging"
	"tidyfin/internal/mover"
)

// The exact message is part of the job API surface; pollers match on it.
var errSourceNotFound = errors.New("Source not found")

func (p *Pipeline) runOrganize(job *catalog.Job, ids []int64) {
	ctx := logging.WithJobID(context.Background(), job.ID)
	logger := logging.WithContext(ctx, p.logger)

	job.Status = catalog.JobRunning
	p.persistJob(ctx, job)

	items, err := p.store.ItemsByIDs(ctx, ids)
	if err != nil {
		p.finishJob(ctx, job, fmt.Errorf("load items: %w", err))
		return
	}
	job.TotalFiles = len(items)
	p.persistJob(ctx, job)
	logger.Info("organize started",
		logging.Int("items", len(items)),
		logging.Bool("dry_run", job.DryRun))

	chunkSize := p.cfg.Jobs.OrganizeChunkSize
	for start := 0; start < len(items); start += chunkSize {
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		for _, item := range items[start:end] {
			job.CurrentFile = item.OriginalFilename
			if err := p.organizeItem(ctx, job, item); err != nil {
				job.FailedCount++
				job.Errors = append(job.Errors, fmt.Sprintf("item %d: %v", item.ID, err))
				logger.Warn("organize item failed",
					logging.Int64(logging.FieldItemID, item.ID),
					logging.Error(err))
			} else {
				job.SuccessCount++
			}
			job.ProcessedFiles++
		}
		p.persistJob(ctx, job)
		if end < len(items) {
			time.Sleep(p.chunkDelay())
		}
	}

	logger.Info("organize finished",
		logging.Int("succeeded", job.SuccessCount),
		logging.Int("failed", job.FailedCount))
	p.finishJob(ctx, job, nil)
}

func (p *Pipeline) organizeItem(ctx context.Context, job *catalog.Job, item *catalog.MediaItem) error {
	if item.OriginalPath == "" {
		return fmt.Errorf("missing source path")
	}
	if item.DestinationPath == "" {
		return fmt.Errorf("missing destination path")
	}

	if job.DryRun {
		return mover.VerifyDryRun(item.OriginalPath, filepath.Dir(item.DestinationPath))
	}

	if _, err := os.Stat(item.OriginalPath); err != nil {
		return errSourceNotFound
	}

	sourcePath := item.OriginalPath
	if err := mover.Move(sourcePath, item.DestinationPath); err != nil {
		return err
	}

	item.Status = catalog.ItemOrganized
	item.OriginalPath = item.DestinationPath
	if err := p.store.UpdateItem(ctx, item); err != nil {
		return err
	}

	if err := p.updateAggregate(ctx, item); err != nil {
		return err
	}

	if root, ok := p.sourceRootFor(sourcePath); ok {
		mover.RemoveEmptyAncestors(sourcePath, root)
	}
	return nil
}

// updateAggregate applies create-or-increment semantics to the owning Movie
// or TvSeries record. Existing poster and folder references are filled in
// only when still missing, never overwritten.
func (p *Pipeline) updateAggregate(ctx context.Context, item *catalog.MediaItem) error {
	switch item.DetectedType {
	case classify.MediaTypeMovie:
		return p.updateMovieAggregate(ctx, item)
	case classify.MediaTypeTV:
		return p.updateSeriesAggregate(ctx, item)
	default:
		return nil
	}
}

func (p *Pipeline) updateMovieAggregate(ctx context.Context, item *catalog.MediaItem) error {
	movie, err := p.store.FindMovie(ctx, item.DetectedName, item.Year)
	if err != nil {
		return err
	}
	if movie == nil {
		movie = &catalog.Movie{
			Name:       item.DetectedName,
			Year:       item.Year,
			TMDBID:     item.TMDBID,
			PosterPath: item.PosterPath,
		}
		return p.store.CreateMovie(ctx, movie)
	}

	changed := false
	if movie.PosterPath == "" && item.PosterPath != "" {
		movie.PosterPath = item.PosterPath
		changed = true
	}
	if movie.TMDBID == nil && item.TMDBID != nil {
		movie.TMDBID = item.TMDBID
		changed = true
	}
	if changed {
		return p.store.UpdateMovie(ctx, movie)
	}
	return nil
}

func (p *Pipeline) updateSeriesAggregate(ctx context.Context, item *catalog.MediaItem) error {
	series, err := p.store.FindSeries(ctx, item.DetectedName)
	if err != nil {
		return err
	}

	season := 0
	if item.Season != nil {
		season = *item.Season
	}

	if series == nil {
		seasons := 1
		if season > 1 {
			seasons = season
		}
		series = &catalog.TvSeries{
			Name:          item.DetectedName,
			Year:          item.Year,
			FolderPath:    seriesFolderFromDestination(item.DestinationPath),
			TotalSeasons:  seasons,
			TotalEpisodes: 1,
			TMDBID:        item.TMDBID,
			PosterPath:    item.PosterPath,
		}
		return p.store.CreateSeries(ctx, series)
	}

	series.TotalEpisodes++
	if season > series.TotalSeasons {
		series.TotalSeasons = season
	}
	if series.FolderPath == "" {
		series.FolderPath = seriesFolderFromDestination(item.DestinationPath)
	}
	if series.PosterPath == "" && item.PosterPath != "" {
		series.PosterPath = item.PosterPath
	}
	if series.TMDBID == nil && item.TMDBID != nil {
		series.TMDBID = item.TMDBID
	}
	return p.store.UpdateSeries(ctx, series)
}

// seriesFolderFromDestination extracts the series folder segment from a path
// shaped like {tvRoot}/{Series folder}/Season NN/{file}.
func seriesFolderFromDestination(destination string) string {
	return filepath.Base(filepath.Dir(filepath.Dir(destination)))
}

func (p *Pipeline) sourceRootFor(path string) (string, bool) {
	for _, root := range p.cfg.Paths.SourceDirs {
		cleaned := filepath.Clean(root)
		if strings.HasPrefix(path, cleaned+string(filepath.Separator)) {
			return cleaned, true
		}
	}
	return "", false
}
