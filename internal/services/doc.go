// Package services defines shared utilities consumed by the synthesis,
// provider, and refresh components.
//
// Key responsibilities:
//   - Context helpers that stamp library item IDs, component names, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across collaborators.
//
// Absence of upstream data is deliberately not represented here: callers
// return (nil, nil) or a false result for "nothing to do" and reserve these
// markers for genuine failures.
package services
