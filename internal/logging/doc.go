// Package logging assembles the structured slog loggers used across trailquiz.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and defines the standardized field keys for ingestion passes and quiz
// sessions. A no-op logger is provided for tests and wiring code that cannot
// fail. Prefer these constructors over hand-rolled slog setup so every
// component emits log lines with the same shape.
package logging
