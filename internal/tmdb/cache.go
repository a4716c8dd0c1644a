package tmdb

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	cacheTTL     = 6 * time.Hour
	cacheCleanup = 30 * time.Minute
)

// CachedSearcher wraps a Searcher with an in-memory TTL cache keyed by kind,
// query, and year. Only successful responses are cached.
type CachedSearcher struct {
	inner Searcher
	cache *gocache.Cache
}

var _ Searcher = (*CachedSearcher)(nil)

// NewCachedSearcher wraps the given searcher with a cache.
func NewCachedSearcher(inner Searcher) *CachedSearcher {
	return &CachedSearcher{
		inner: inner,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

// SearchMovie implements Searcher.
func (c *CachedSearcher) SearchMovie(ctx context.Context, query string, year int) (*Response, error) {
	return c.cached(ctx, "movie", query, year, c.inner.SearchMovie)
}

// SearchTV implements Searcher.
func (c *CachedSearcher) SearchTV(ctx context.Context, query string, year int) (*Response, error) {
	return c.cached(ctx, "tv", query, year, c.inner.SearchTV)
}

func (c *CachedSearcher) cached(ctx context.Context, kind, query string, year int, search func(context.Context, string, int) (*Response, error)) (*Response, error) {
	key := fmt.Sprintf("%s|%s|%d", kind, query, year)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*Response), nil
	}
	resp, err := search(ctx, query, year)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, resp, gocache.DefaultExpiration)
	return resp, nil
}
