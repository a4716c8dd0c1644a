package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeLibrary()
	c.normalizeJobs()
	c.normalizeDuplicates()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	sources := make([]string, 0, len(c.Paths.SourceDirs))
	seen := make(map[string]struct{}, len(c.Paths.SourceDirs))
	for _, dir := range c.Paths.SourceDirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("paths.source_dirs: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		sources = append(sources, expanded)
	}
	c.Paths.SourceDirs = sources

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.BaseURL = strings.TrimRight(c.TMDB.BaseURL, "/")
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeLibrary() {
	c.Library.MoviesDir = strings.TrimSpace(c.Library.MoviesDir)
	if c.Library.MoviesDir == "" {
		c.Library.MoviesDir = defaultMoviesDir
	}
	c.Library.TVDir = strings.TrimSpace(c.Library.TVDir)
	if c.Library.TVDir == "" {
		c.Library.TVDir = defaultTVDir
	}
	c.Library.UnsortedDir = strings.TrimSpace(c.Library.UnsortedDir)
	if c.Library.UnsortedDir == "" {
		c.Library.UnsortedDir = defaultUnsortedDir
	}
}

func (c *Config) normalizeJobs() {
	if c.Jobs.ScanChunkSize <= 0 {
		c.Jobs.ScanChunkSize = defaultScanChunkSize
	}
	if c.Jobs.OrganizeChunkSize <= 0 {
		c.Jobs.OrganizeChunkSize = defaultOrganizeChunkSize
	}
	if c.Jobs.ChunkDelayMS < 0 {
		c.Jobs.ChunkDelayMS = defaultChunkDelayMS
	}
}

func (c *Config) normalizeDuplicates() {
	if c.Duplicates.Threshold <= 0 || c.Duplicates.Threshold > 100 {
		c.Duplicates.Threshold = defaultDuplicateThreshold
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
