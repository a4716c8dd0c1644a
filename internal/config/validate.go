package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateJobs(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	for _, dir := range c.Paths.SourceDirs {
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("paths.source_dirs entry %q must be absolute", dir)
		}
		if dir == c.Paths.LibraryDir {
			return fmt.Errorf("paths.source_dirs entry %q matches paths.library_dir", dir)
		}
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MoviesDir == "" {
		return errors.New("library.movies_dir must be set")
	}
	if c.Library.TVDir == "" {
		return errors.New("library.tv_dir must be set")
	}
	if c.Library.MoviesDir == c.Library.TVDir {
		return errors.New("library.movies_dir and library.tv_dir must differ")
	}
	return nil
}

func (c *Config) validateJobs() error {
	if err := ensurePositiveMap(map[string]int{
		"jobs.scan_chunk_size":     c.Jobs.ScanChunkSize,
		"jobs.organize_chunk_size": c.Jobs.OrganizeChunkSize,
	}); err != nil {
		return err
	}
	if c.Jobs.ChunkDelayMS < 0 {
		return errors.New("jobs.chunk_delay_ms must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
