// Package textutil provides small text helpers shared across the organizer:
// filesystem-safe name sanitation and normalization used when comparing
// candidate titles against catalogued entries.
package textutil
