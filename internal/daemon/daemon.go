package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"tidyfin/internal/catalog"
	"tidyfin/internal/config"
	"tidyfin/internal/logging"
	"tidyfin/internal/pipeline"
)

// Daemon coordinates the API server and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	pipeline *pipeline.Pipeline

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	DatabasePath string
	LockFilePath string
	APIAddress   string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || p == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, pipeline, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "tidyfin.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		pipeline: p,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and brings up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another tidyfin daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.api.start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// APIAddress returns the bound API listen address, empty until started.
func (d *Daemon) APIAddress() string {
	return d.api.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		APIAddress:   d.api.address(),
	}
}

// LatestJobs fetches the most recent scan and organize jobs for status
// reporting; either may be nil.
func (d *Daemon) LatestJobs(ctx context.Context) (*catalog.Job, *catalog.Job, error) {
	scan, err := d.store.LatestJob(ctx, catalog.JobKindScan)
	if err != nil {
		return nil, nil, err
	}
	organize, err := d.store.LatestJob(ctx, catalog.JobKindOrganize)
	if err != nil {
		return nil, nil, err
	}
	return scan, organize, nil
}
