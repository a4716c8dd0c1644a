package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	SourceDirs []string `toml:"source_dirs"`
	LibraryDir string   `toml:"library_dir"`
	DataDir    string   `toml:"data_dir"`
	LogDir     string   `toml:"log_dir"`
	APIBind    string   `toml:"api_bind"`
}

// TMDB contains configuration for The Movie Database API.
// Lookup is optional: with no API key configured the resolver skips
// metadata search and relies on local heuristics.
type TMDB struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// Library contains configuration for the organized library structure.
type Library struct {
	MoviesDir   string `toml:"movies_dir"`
	TVDir       string `toml:"tv_dir"`
	UnsortedDir string `toml:"unsorted_dir"`
}

// Jobs contains configuration for background job processing.
type Jobs struct {
	ScanChunkSize     int `toml:"scan_chunk_size"`
	OrganizeChunkSize int `toml:"organize_chunk_size"`
	ChunkDelayMS      int `toml:"chunk_delay_ms"`
}

// Duplicates contains configuration for fuzzy duplicate detection.
type Duplicates struct {
	Threshold int `toml:"threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tidyfin.
//
// Configuration sections by subsystem:
//   - Paths: scan roots, library root, state directories, API bind address
//   - TMDB: optional metadata lookup via The Movie Database
//   - Library: organized output directory structure
//   - Jobs: chunk sizes and pacing for scan/organize jobs
//   - Duplicates: similarity threshold for duplicate grouping
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	TMDB       TMDB       `toml:"tmdb"`
	Library    Library    `toml:"library"`
	Jobs       Jobs       `toml:"jobs"`
	Duplicates Duplicates `toml:"duplicates"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tidyfin/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tidyfin.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for operation. The library
// root is created on a best-effort basis so commands can still run when
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// DatabasePath returns the path to the catalog database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "tidyfin.db")
}

// MoviesRoot returns the absolute path of the movies library directory.
func (c *Config) MoviesRoot() string {
	return filepath.Join(c.Paths.LibraryDir, c.Library.MoviesDir)
}

// TVRoot returns the absolute path of the TV library directory.
func (c *Config) TVRoot() string {
	return filepath.Join(c.Paths.LibraryDir, c.Library.TVDir)
}

// UnsortedRoot returns the absolute path of the unsorted fallback directory.
func (c *Config) UnsortedRoot() string {
	return filepath.Join(c.MoviesRoot(), c.Library.UnsortedDir)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
