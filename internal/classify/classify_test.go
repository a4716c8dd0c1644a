package classify_test

import (
	"testing"

	"tidyfin/internal/classify"
)

func TestClassifyMovieWithYear(t *testing.T) {
	parsed := classify.Classify("Inception.2010.1080p.BluRay.x264-YTS.mkv")

	if parsed.DetectedType != classify.MediaTypeMovie {
		t.Fatalf("expected movie, got %s", parsed.DetectedType)
	}
	if parsed.DetectedName != "Inception" {
		t.Fatalf("unexpected name: %q", parsed.DetectedName)
	}
	if parsed.Year == nil || *parsed.Year != 2010 {
		t.Fatalf("unexpected year: %v", parsed.Year)
	}
	if parsed.Extension != "mkv" {
		t.Fatalf("unexpected extension: %q", parsed.Extension)
	}
	if parsed.Confidence < 80 {
		t.Fatalf("expected confidence >= 80, got %d", parsed.Confidence)
	}
	if parsed.Season != nil || parsed.Episode != nil {
		t.Fatal("movie should have no season/episode")
	}
}

func TestClassifyTVPatterns(t *testing.T) {
	tests := []struct {
		filename string
		name     string
		season   int
		episode  int
	}{
		{"Mirzapur.S01E01.720p.HDHub4u.mkv", "Mirzapur", 1, 1},
		{"Mirzapur HDHub4u S01E02.mkv", "Mirzapur", 1, 2},
		{"Breaking.Bad.3x07.HDTV.mkv", "Breaking Bad", 3, 7},
		{"The Wire Season 2 Episode 5.mp4", "The Wire", 2, 5},
		{"Dark.S01 E08.1080p.mkv", "Dark", 1, 8},
		{"Bluey EP12.mkv", "Bluey", 1, 12},
		{"The.Flash.2014.S01E01.mkv", "The Flash", 1, 1},
		{"3.Body.Problem.S01E05.2160p.mkv", "3 Body Problem", 1, 5},
	}
	for _, tt := range tests {
		parsed := classify.Classify(tt.filename)
		if parsed.DetectedType != classify.MediaTypeTV {
			t.Errorf("%s: expected tvshow, got %s", tt.filename, parsed.DetectedType)
			continue
		}
		if parsed.DetectedName != tt.name {
			t.Errorf("%s: name %q, want %q", tt.filename, parsed.DetectedName, tt.name)
		}
		if parsed.Season == nil || *parsed.Season != tt.season {
			t.Errorf("%s: season %v, want %d", tt.filename, parsed.Season, tt.season)
		}
		if parsed.Episode == nil || *parsed.Episode != tt.episode {
			t.Errorf("%s: episode %v, want %d", tt.filename, parsed.Episode, tt.episode)
		}
		if parsed.Confidence < 80 {
			t.Errorf("%s: confidence %d, want >= 80", tt.filename, parsed.Confidence)
		}
	}
}

func TestClassifyUnknownIsNotAnError(t *testing.T) {
	parsed := classify.Classify("Movie.HDHub4u.mkv")

	if parsed.DetectedType != classify.MediaTypeUnknown {
		t.Fatalf("expected unknown, got %s", parsed.DetectedType)
	}
	if parsed.CleanedName != "Movie" {
		t.Fatalf("unexpected cleaned name: %q", parsed.CleanedName)
	}
	if parsed.Year != nil {
		t.Fatalf("unexpected year: %v", parsed.Year)
	}
	if parsed.Confidence >= 80 {
		t.Fatalf("unknown should score below tv/movie, got %d", parsed.Confidence)
	}
}

func TestClassifyYearRange(t *testing.T) {
	// 1917 is below the accepted year floor; the release year wins.
	parsed := classify.Classify("1917.2019.1080p.mkv")
	if parsed.DetectedType != classify.MediaTypeMovie {
		t.Fatalf("expected movie, got %s", parsed.DetectedType)
	}
	if parsed.Year == nil || *parsed.Year != 2019 {
		t.Fatalf("unexpected year: %v", parsed.Year)
	}
	if parsed.DetectedName != "1917" {
		t.Fatalf("unexpected name: %q", parsed.DetectedName)
	}

	parsed = classify.Classify("Some.Film.1949.mkv")
	if parsed.DetectedType != classify.MediaTypeUnknown {
		t.Fatalf("1949 should not count as a release year, got %s", parsed.DetectedType)
	}
}

func TestClassifyParenthesizedYear(t *testing.T) {
	parsed := classify.Classify("Heat (1995).mp4")
	if parsed.DetectedType != classify.MediaTypeMovie {
		t.Fatalf("expected movie, got %s", parsed.DetectedType)
	}
	if parsed.Year == nil || *parsed.Year != 1995 {
		t.Fatalf("unexpected year: %v", parsed.Year)
	}
	if parsed.DetectedName != "Heat" {
		t.Fatalf("unexpected name: %q", parsed.DetectedName)
	}
}

func TestClassifyConfidenceClamped(t *testing.T) {
	for _, filename := range []string{
		"Mirzapur.S01E01.mkv",
		"Inception.2010.mkv",
		"Movie.mkv",
	} {
		parsed := classify.Classify(filename)
		if parsed.Confidence < 0 || parsed.Confidence > 100 {
			t.Errorf("%s: confidence %d out of range", filename, parsed.Confidence)
		}
	}
}

func TestClassifySeasonEpisodeInvariant(t *testing.T) {
	for _, filename := range []string{
		"Show.S02E11.mkv",
		"Inception.2010.mkv",
		"Movie.mkv",
	} {
		parsed := classify.Classify(filename)
		if (parsed.Season == nil) != (parsed.Episode == nil) {
			t.Errorf("%s: season/episode must be set together", filename)
		}
	}
}

func TestTokenize(t *testing.T) {
	tokens := classify.Tokenize("Mirzapur.S01E01_720p-[YTS]")
	want := []string{"Mirzapur", "S01E01", "720p", "YTS"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}
