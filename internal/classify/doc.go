// Package classify turns release-style video filenames into structured
// metadata: media type, title guess, year, season/episode, and a confidence
// score. Classification is deterministic and performs no I/O.
package classify
