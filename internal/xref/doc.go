// Package xref resolves file-to-episode cross-references across the ID
// schemes reported by the local organization service.
//
// It deduplicates references by content fingerprint (hash + size), orders
// them by match-confidence grouping, and classifies episodes as standalone
// "main entries" when their display title is just a generic placeholder.
// A file with no surviving references is unavailable, never an error.
package xref
