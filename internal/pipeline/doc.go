// Package pipeline orchestrates the scan and organize jobs. Jobs are
// single-flight per kind, run sequentially within themselves, and report
// chunked progress through the catalog so pollers always see monotonic
// counters.
package pipeline
