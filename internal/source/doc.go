// Package source declares the already-decoded upstream payload shapes for
// the three metadata schemes medley reconciles: the native anime catalog,
// the parent movie/TV catalog, and the local file-organization service.
//
// These are passive records. All merging, precedence, and dedup logic lives
// in internal/xref and internal/synthesis; nothing here mutates or derives.
package source
