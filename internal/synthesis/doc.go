// Package synthesis merges per-source metadata into one canonical EntityInfo
// per episode, show/season, or collection.
//
// The Synthesizer applies field-group precedence between the native catalog
// and an optionally-bound parent-catalog movie or episode, gates tag/genre
// inclusion on configuration toggles, sanitizes native descriptions,
// deduplicates content ratings, and groups raw cast roles into staff entries.
// Entities are built fresh on every pass and never mutated afterwards; an
// entity with no cross-references is unavailable.
package synthesis
