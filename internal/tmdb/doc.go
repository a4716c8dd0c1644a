// Package tmdb provides a small client for The Movie Database search API
// plus an in-memory caching wrapper so repeated scans do not hammer the API.
package tmdb
