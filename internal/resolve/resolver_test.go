package resolve_test

import (
	"context"
	"testing"

	"tidyfin/internal/catalog"
	"tidyfin/internal/classify"
	"tidyfin/internal/logging"
	"tidyfin/internal/resolve"
	"tidyfin/internal/testsupport"
	"tidyfin/internal/tmdb"
)

type fakeSearcher struct {
	movie *tmdb.Response
	tv    *tmdb.Response
	err   error
}

func (f *fakeSearcher) SearchMovie(ctx context.Context, query string, year int) (*tmdb.Response, error) {
	return f.movie, f.err
}

func (f *fakeSearcher) SearchTV(ctx context.Context, query string, year int) (*tmdb.Response, error) {
	return f.tv, f.err
}

func TestResolveMetadataIsAuthoritative(t *testing.T) {
	searcher := &fakeSearcher{
		movie: &tmdb.Response{Results: []tmdb.Result{{
			ID:          27205,
			Title:       "Inception",
			ReleaseDate: "2010-07-15",
			PosterPath:  "/poster.jpg",
		}}},
	}
	resolver := resolve.New(searcher, nil, logging.NewNop())

	parsed := classify.Classify("Inception.2010.1080p.BluRay.x264-YTS.mkv")
	resolution := resolver.Resolve(context.Background(), parsed, nil)

	if resolution.Source != resolve.SourceMetadata {
		t.Fatalf("expected metadata source, got %s", resolution.Source)
	}
	if resolution.Name != "Inception" || resolution.Year == nil || *resolution.Year != 2010 {
		t.Fatalf("unexpected resolution: %+v", resolution)
	}
	if resolution.TMDBID == nil || *resolution.TMDBID != 27205 || resolution.PosterPath != "/poster.jpg" {
		t.Fatalf("expected tmdb id and poster: %+v", resolution)
	}
}

func TestResolveConsensusWhenNoMetadata(t *testing.T) {
	resolver := resolve.New(nil, nil, logging.NewNop())

	parsed := classify.Classify("Mirzapur.S01E01.720p.HDHub4u.mkv")
	siblings := []string{
		"Mirzapur.S01E01.720p.HDHub4u.mkv",
		"Mirzapur HDHub4u S01E02.mkv",
	}
	resolution := resolver.Resolve(context.Background(), parsed, siblings)

	if resolution.Source != resolve.SourceConsensus {
		t.Fatalf("expected consensus source, got %s", resolution.Source)
	}
	if resolution.Name != "Mirzapur" {
		t.Fatalf("expected Mirzapur, got %q", resolution.Name)
	}
}

func TestResolveMetadataErrorFallsThrough(t *testing.T) {
	searcher := &fakeSearcher{err: context.DeadlineExceeded}
	resolver := resolve.New(searcher, nil, logging.NewNop())

	parsed := classify.Classify("Mirzapur.S01E01.mkv")
	siblings := []string{"Mirzapur.S01E01.mkv", "Mirzapur.S01E02.mkv"}
	resolution := resolver.Resolve(context.Background(), parsed, siblings)

	if resolution.Source != resolve.SourceConsensus {
		t.Fatalf("expected fallthrough to consensus, got %s", resolution.Source)
	}
}

func TestResolveLibraryMatchReusesFolderPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	year := 2018
	series := &catalog.TvSeries{
		Name:       "Mirzapur",
		Year:       &year,
		FolderPath: "Mirzapur (2018)",
	}
	if err := store.CreateSeries(ctx, series); err != nil {
		t.Fatalf("CreateSeries: %v", err)
	}

	resolver := resolve.New(nil, store, logging.NewNop())
	parsed := classify.Classify("Mirzapur.S02E01.mkv")
	resolution := resolver.Resolve(ctx, parsed, nil)

	if resolution.Source != resolve.SourceLibrary {
		t.Fatalf("expected library source, got %s", resolution.Source)
	}
	if resolution.FolderPath != "Mirzapur (2018)" {
		t.Fatalf("expected stored folder path, got %q", resolution.FolderPath)
	}
	if resolution.Year == nil || *resolution.Year != 2018 {
		t.Fatalf("expected stored year, got %+v", resolution.Year)
	}
}

func TestResolveConsensusReusesExistingSeriesFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	series := &catalog.TvSeries{Name: "Mirzapur", FolderPath: "Mirzapur"}
	if err := store.CreateSeries(ctx, series); err != nil {
		t.Fatalf("CreateSeries: %v", err)
	}

	resolver := resolve.New(nil, store, logging.NewNop())
	parsed := classify.Classify("Mirzapur.2020.S02E01.720p.mkv")
	siblings := []string{
		"Mirzapur.2020.S02E01.720p.mkv",
		"Mirzapur 2020 S02E02 x264.mkv",
	}
	resolution := resolver.Resolve(ctx, parsed, siblings)

	if resolution.Source != resolve.SourceConsensus {
		t.Fatalf("expected consensus source, got %s", resolution.Source)
	}
	if resolution.FolderPath != "Mirzapur" {
		t.Fatalf("expected stored folder reused, got %q", resolution.FolderPath)
	}
}

func TestResolveLibraryContainmentMatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	movie := &catalog.Movie{Name: "The Matrix Reloaded"}
	if err := store.CreateMovie(ctx, movie); err != nil {
		t.Fatalf("CreateMovie: %v", err)
	}

	resolver := resolve.New(nil, store, logging.NewNop())
	parsed := classify.Classify("Matrix.Reloaded.2003.mkv")
	resolution := resolver.Resolve(ctx, parsed, nil)

	if resolution.Source != resolve.SourceLibrary {
		t.Fatalf("expected library source, got %s", resolution.Source)
	}
	if resolution.Name != "The Matrix Reloaded" {
		t.Fatalf("expected stored name, got %q", resolution.Name)
	}
}

func TestResolveClassifierFallback(t *testing.T) {
	resolver := resolve.New(nil, nil, logging.NewNop())

	parsed := classify.Classify("Inception.2010.1080p.mkv")
	resolution := resolver.Resolve(context.Background(), parsed, nil)

	if resolution.Source != resolve.SourceClassifier {
		t.Fatalf("expected classifier fallback, got %s", resolution.Source)
	}
	if resolution.Name != "Inception" || resolution.Year == nil || *resolution.Year != 2010 {
		t.Fatalf("unexpected resolution: %+v", resolution)
	}
}
