package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"tidyfin/internal/catalog"
	"tidyfin/internal/classify"
	"tidyfin/internal/library"
	"tidyfin/internal/logging"
	"tidyfin/internal/scanner"
)

func (p *Pipeline) runScan(job *catalog.Job) {
	ctx := logging.WithJobID(context.Background(), job.ID)
	logger := logging.WithContext(ctx, p.logger)

	job.Status = catalog.JobRunning
	p.persistJob(ctx, job)

	if err := p.cleanupOrphans(ctx); err != nil {
		logger.Warn("orphan cleanup failed", logging.Error(err))
	}

	files, siblings := scanner.Discover(p.cfg.Paths.SourceDirs)
	job.TotalFiles = len(files)
	p.persistJob(ctx, job)
	logger.Info("scan started", logging.Int("files", len(files)))

	chunkSize := p.cfg.Jobs.ScanChunkSize
	for start := 0; start < len(files); start += chunkSize {
		end := start + chunkSize
		if end > len(files) {
			end = len(files)
		}
		for _, file := range files[start:end] {
			job.CurrentFile = file.Name
			job.CurrentFolder = file.Dir
			if err := p.scanFile(ctx, job, file, siblings[file.Dir]); err != nil {
				job.FailedCount++
				job.Errors = append(job.Errors, fmt.Sprintf("%s: %v", file.Path, err))
				logger.Warn("scan file failed",
					logging.String(logging.FieldPath, file.Path),
					logging.Error(err))
			}
			job.ProcessedFiles++
		}
		p.persistJob(ctx, job)
		if end < len(files) {
			time.Sleep(p.chunkDelay())
		}
	}

	logger.Info("scan finished",
		logging.Int("processed", job.ProcessedFiles),
		logging.Int("new_items", job.NewItems))
	p.finishJob(ctx, job, nil)
}

func (p *Pipeline) scanFile(ctx context.Context, job *catalog.Job, file scanner.File, siblings []string) error {
	existing, err := p.store.FindItemByPath(ctx, file.Path)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	parsed := classify.Classify(file.Name)
	resolution := p.resolver.Resolve(ctx, parsed, siblings)
	destination := library.BuildPath(parsed, resolution, p.libraryPaths())

	status := catalog.ItemPending
	if _, err := os.Stat(destination); err == nil {
		if file.Path == destination {
			status = catalog.ItemOrganized
		} else {
			status = catalog.ItemDuplicate
		}
	}

	item := &catalog.MediaItem{
		OriginalFilename: file.Name,
		CleanedName:      parsed.CleanedName,
		DetectedType:     parsed.DetectedType,
		DetectedName:     resolution.Name,
		Year:             resolution.Year,
		Season:           parsed.Season,
		Episode:          parsed.Episode,
		Extension:        parsed.Extension,
		Confidence:       parsed.Confidence,
		OriginalPath:     file.Path,
		DestinationPath:  destination,
		Status:           status,
		TMDBID:           resolution.TMDBID,
		PosterPath:       resolution.PosterPath,
	}
	if err := p.store.CreateItem(ctx, item); err != nil {
		return err
	}
	job.NewItems++
	return nil
}

// cleanupOrphans removes catalog entries whose source and destination files
// are both gone from disk.
func (p *Pipeline) cleanupOrphans(ctx context.Context) error {
	items, err := p.store.ListItems(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if pathExists(item.OriginalPath) || pathExists(item.DestinationPath) {
			continue
		}
		if err := p.store.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
	}
	return nil
}

func pathExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
