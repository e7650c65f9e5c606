// Package library models the host's item tree and persists it in SQLite.
//
// Item is the canonical per-entity record the refresh orchestrator reads and
// writes: identity, parent link, per-scheme provider ids, locked fields, and
// the metadata field groups themselves. The Index and Saver interfaces are
// the orchestrator's view of the host; Store is the reference implementation
// backing the CLI, the sweep loop, and tests.
//
// The database layout lives in schema.sql; bump schemaVersion whenever it
// changes and users rebuild the index.
package library
