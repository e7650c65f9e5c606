// Package logging builds the slog loggers used across medley.
//
// It provides JSON and console handlers with normalized attribute keys,
// a no-op logger for tests, and WithContext, which augments a logger with
// structured fields (item id, component, correlation id) carried on the
// context by internal/services.
package logging
