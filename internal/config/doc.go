// Package config loads and watches the vaultstamp configuration file
// (config.yaml).
//
// Config fields:
//   - vault — root directory of the watched markdown vault (required)
//   - metadata_key — frontmatter field to stamp (default "updated")
//   - time_format — Moment-style timestamp pattern; empty means the
//     built-in default
//   - quiet_window — debounce window before a stamp is written (default 10s)
//   - excluded_folders — vault-relative folder prefixes never stamped
//   - status.http_port — status/metrics server port (default 8686, 0 off)
//
// Load(path) reads the YAML file, applies defaults, normalizes the excluded
// folder list (trim whitespace and separators, drop empties) and validates.
// Normalization happens only here, at the load boundary; downstream code
// assumes clean prefixes.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create
// pattern used by atomic-save editors and suppresses reloads that parse to
// an unchanged Config.
package config
