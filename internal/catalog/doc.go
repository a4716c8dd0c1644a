// Package catalog persists media items, library aggregates, and background
// job records in SQLite. It is the single source of truth the scan and
// organize pipelines read and write.
package catalog
