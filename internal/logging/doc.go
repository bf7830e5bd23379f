// Package logging builds slog loggers with console and JSON handlers plus the
// attribute helpers the rest of the codebase shares.
package logging
