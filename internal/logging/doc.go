// Package logging provides slog setup and attribute helpers shared across
// the codebase, including PII-safe helpers for logging user identifiers.
package logging
