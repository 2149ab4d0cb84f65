// Package logging configures slog-based structured logging for reelcut.
// It provides a human-readable console handler for interactive use, a JSON
// handler for machine consumption, and typed attribute helpers shared by
// every component.
package logging
