// Package library renders parsed media and a canonical name into a
// Jellyfin-compatible destination path.
package library
