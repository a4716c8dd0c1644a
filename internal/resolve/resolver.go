package resolve

import (
	"context"
	"log/slog"
	"strings"

	"tidyfin/internal/catalog"
	"tidyfin/internal/classify"
	"tidyfin/internal/logging"
	"tidyfin/internal/textutil"
	"tidyfin/internal/tmdb"
)

// Source records which precedence level produced a resolution.
type Source string

const (
	SourceMetadata   Source = "metadata"
	SourceConsensus  Source = "consensus"
	SourceLibrary    Source = "library"
	SourceClassifier Source = "classifier"
)

// Resolution is the canonical name decision for one parsed file.
type Resolution struct {
	Name       string
	Year       *int
	TMDBID     *int64
	PosterPath string
	FolderPath string
	Source     Source
}

// LibraryLookup provides read access to known aggregates for name matching.
// catalog.Store satisfies it.
type LibraryLookup interface {
	ListMovies(ctx context.Context) ([]*catalog.Movie, error)
	ListSeries(ctx context.Context) ([]*catalog.TvSeries, error)
}

// Resolver decides canonical names. The searcher may be nil when no TMDB key
// is configured; resolution then starts at sibling consensus.
type Resolver struct {
	searcher tmdb.Searcher
	library  LibraryLookup
	logger   *slog.Logger
}

// New creates a Resolver.
func New(searcher tmdb.Searcher, library LibraryLookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		searcher: searcher,
		library:  library,
		logger:   logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve picks the canonical name for parsed, consulting each precedence
// level in turn. Guard failures at any level fall through silently to the
// next; Resolve never fails outright.
func (r *Resolver) Resolve(ctx context.Context, parsed classify.ParsedMedia, siblings []string) Resolution {
	if resolution, ok := r.fromMetadata(ctx, parsed); ok {
		r.adoptSeriesFolder(ctx, parsed, &resolution)
		return resolution
	}
	if parsed.DetectedType == classify.MediaTypeTV {
		if name, ok := Consensus(siblings); ok {
			resolution := Resolution{Name: name, Year: parsed.Year, Source: SourceConsensus}
			r.adoptSeriesFolder(ctx, parsed, &resolution)
			return resolution
		}
	}
	if resolution, ok := r.fromLibrary(ctx, parsed); ok {
		return resolution
	}
	return Resolution{
		Name:   classify.TitleCase(parsed.DetectedName),
		Year:   parsed.Year,
		Source: SourceClassifier,
	}
}

func (r *Resolver) fromMetadata(ctx context.Context, parsed classify.ParsedMedia) (Resolution, bool) {
	if r.searcher == nil || parsed.DetectedType == classify.MediaTypeUnknown {
		return Resolution{}, false
	}
	query := classify.SearchQuery(parsed.OriginalFilename)
	if query == "" {
		return Resolution{}, false
	}
	year := 0
	if parsed.Year != nil {
		year = *parsed.Year
	}

	var (
		resp *tmdb.Response
		err  error
	)
	if parsed.DetectedType == classify.MediaTypeTV {
		resp, err = r.searcher.SearchTV(ctx, query, year)
	} else {
		resp, err = r.searcher.SearchMovie(ctx, query, year)
	}
	if err != nil {
		r.logger.Warn("metadata lookup failed",
			logging.String("query", query),
			logging.Error(err))
		return Resolution{}, false
	}
	if resp == nil || len(resp.Results) == 0 {
		return Resolution{}, false
	}

	match := resp.Results[0]
	name := strings.TrimSpace(match.DisplayName())
	if name == "" {
		return Resolution{}, false
	}
	resolution := Resolution{
		Name:       name,
		Year:       parsed.Year,
		TMDBID:     &match.ID,
		PosterPath: match.PosterPath,
		Source:     SourceMetadata,
	}
	if matchYear, ok := match.Year(); ok {
		resolution.Year = &matchYear
	}
	return resolution, true
}

// adoptSeriesFolder reuses the stored folder of an already-known series, so a
// higher-precedence resolution cannot rename an established on-disk folder.
func (r *Resolver) adoptSeriesFolder(ctx context.Context, parsed classify.ParsedMedia, resolution *Resolution) {
	if parsed.DetectedType != classify.MediaTypeTV || r.library == nil || resolution.FolderPath != "" {
		return
	}
	candidate := textutil.NormalizeComparable(resolution.Name)
	if candidate == "" {
		return
	}
	all, err := r.library.ListSeries(ctx)
	if err != nil {
		r.logger.Warn("series lookup failed", logging.Error(err))
		return
	}
	for _, series := range all {
		if series.FolderPath == "" {
			continue
		}
		if namesMatch(candidate, textutil.NormalizeComparable(series.Name)) {
			resolution.FolderPath = series.FolderPath
			return
		}
	}
}

func (r *Resolver) fromLibrary(ctx context.Context, parsed classify.ParsedMedia) (Resolution, bool) {
	if r.library == nil {
		return Resolution{}, false
	}
	candidate := textutil.NormalizeComparable(parsed.DetectedName)
	if candidate == "" {
		return Resolution{}, false
	}

	switch parsed.DetectedType {
	case classify.MediaTypeTV:
		all, err := r.library.ListSeries(ctx)
		if err != nil {
			r.logger.Warn("series lookup failed", logging.Error(err))
			return Resolution{}, false
		}
		for _, series := range all {
			if !namesMatch(candidate, textutil.NormalizeComparable(series.Name)) {
				continue
			}
			return Resolution{
				Name:       series.Name,
				Year:       series.Year,
				TMDBID:     series.TMDBID,
				PosterPath: series.PosterPath,
				FolderPath: series.FolderPath,
				Source:     SourceLibrary,
			}, true
		}
	case classify.MediaTypeMovie:
		all, err := r.library.ListMovies(ctx)
		if err != nil {
			r.logger.Warn("movie lookup failed", logging.Error(err))
			return Resolution{}, false
		}
		for _, movie := range all {
			if !namesMatch(candidate, textutil.NormalizeComparable(movie.Name)) {
				continue
			}
			return Resolution{
				Name:       movie.Name,
				Year:       movie.Year,
				TMDBID:     movie.TMDBID,
				PosterPath: movie.PosterPath,
				Source:     SourceLibrary,
			}, true
		}
	}
	return Resolution{}, false
}

// namesMatch accepts equality or containment in either direction on
// normalized names.
func namesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
