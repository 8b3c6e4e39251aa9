// Package logging builds slog loggers with console and JSON handlers and
// standardizes the structured field names used across the pipeline.
package logging
