// Package daemon runs the background service: it holds the single-instance
// file lock and serves the polling HTTP API that triggers scans and
// organizes and reports job progress.
package daemon
