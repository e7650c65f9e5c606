// Package config loads, normalizes, and validates medley's TOML
// configuration.
//
// Load layers a config file over Default() so absent keys keep their
// defaults. Synthesis toggles (tag/genre source gating) and refresh sweep
// thresholds live here because they change reconciliation behaviour; secrets
// and base URLs for the upstream catalogs do too.
package config
