package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"tidyfin/internal/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchMovieSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("primary_release_year") != "2010" {
			t.Fatalf("expected year filter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":27205,"title":"Inception","release_date":"2010-07-15","poster_path":"/abc.jpg"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.SearchMovie(context.Background(), "Inception", 2010)
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "Inception" {
		t.Fatalf("unexpected response: %#v", resp)
	}
	year, ok := resp.Results[0].Year()
	if !ok || year != 2010 {
		t.Fatalf("unexpected year: %d %v", year, ok)
	}
}

func TestSearchTVUsesNameField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":82856,"name":"Mirzapur","first_air_date":"2018-11-15"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.SearchTV(context.Background(), "Mirzapur", 0)
	if err != nil {
		t.Fatalf("SearchTV returned error: %v", err)
	}
	if resp.Results[0].DisplayName() != "Mirzapur" {
		t.Fatalf("unexpected display name: %q", resp.Results[0].DisplayName())
	}
}

func TestSearchMovieHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_code":500}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := client.SearchMovie(context.Background(), "fail", 0); err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
}

func TestSearchMovieEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "  ", 0); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestCachedSearcherHitsUpstreamOnce(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Example"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	cached := tmdb.NewCachedSearcher(client)

	for i := 0; i < 3; i++ {
		if _, err := cached.SearchMovie(context.Background(), "Example", 0); err != nil {
			t.Fatalf("SearchMovie returned error: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", calls.Load())
	}

	if _, err := cached.SearchTV(context.Background(), "Example", 0); err != nil {
		t.Fatalf("SearchTV returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected distinct cache key per kind, got %d calls", calls.Load())
	}
}
