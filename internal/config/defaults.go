package config

const (
	defaultLibraryDir         = "~/media"
	defaultDataDir            = "~/.local/share/tidyfin"
	defaultLogDir             = "~/.local/share/tidyfin/logs"
	defaultMoviesDir          = "Movies"
	defaultTVDir              = "TV Shows"
	defaultUnsortedDir        = "Unsorted"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBLanguage       = "en-US"
	defaultAPIBind            = "127.0.0.1:7519"
	defaultScanChunkSize      = 25
	defaultOrganizeChunkSize  = 10
	defaultChunkDelayMS       = 100
	defaultDuplicateThreshold = 80
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Library: Library{
			MoviesDir:   defaultMoviesDir,
			TVDir:       defaultTVDir,
			UnsortedDir: defaultUnsortedDir,
		},
		Jobs: Jobs{
			ScanChunkSize:     defaultScanChunkSize,
			OrganizeChunkSize: defaultOrganizeChunkSize,
			ChunkDelayMS:      defaultChunkDelayMS,
		},
		Duplicates: Duplicates{
			Threshold: defaultDuplicateThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
