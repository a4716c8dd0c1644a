package testsupport

import (
	"path/filepath"
	"testing"

	"tidyfin/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDirs = []string{filepath.Join(base, "incoming")}
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Jobs.ChunkDelayMS = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = key
	}
}

// WithSourceDirs overrides the source directories on the test config.
func WithSourceDirs(dirs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.SourceDirs = dirs
	}
}

// WithChunkSizes overrides the scan and organize chunk sizes.
func WithChunkSizes(scan, organize int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Jobs.ScanChunkSize = scan
		b.cfg.Jobs.OrganizeChunkSize = organize
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// SourceDir returns the first configured source directory.
func SourceDir(cfg *config.Config) string {
	if len(cfg.Paths.SourceDirs) == 0 {
		return ""
	}
	return cfg.Paths.SourceDirs[0]
}
