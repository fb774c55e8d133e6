// Package vault watches a markdown vault directory and emits edit events.
//
// Watcher wraps fsnotify with the vault-specific policy: directories are
// watched recursively (including ones created while running), hidden
// directories such as .obsidian are ignored, and only markdown files
// produce events. Paths in events are vault-relative and slash-separated,
// the form the rest of the system keys on.
//
// Note that the watcher reports every write, including the ones this
// process performs itself; telling those apart is the stamper's job.
package vault
