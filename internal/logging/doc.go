// Package logging builds the slog loggers used across tidyfin and carries the
// standardized attribute keys and context helpers shared by every component.
package logging
