// Package refresh applies synthesized metadata onto the library item tree.
//
// The Orchestrator exposes one operation per item kind. Every operation is
// guarded by the pass visited set so an item is processed at most once per
// pass, applies the requested field groups in a fixed group-isolated order
// with locked-field protection, cascades to structurally-contained children,
// and folds each cascade step's immutable outcome into its own. AutoRefresh
// is the scheduled sweep that selects due items under the configured time
// windows and refreshes them parents-first.
package refresh
