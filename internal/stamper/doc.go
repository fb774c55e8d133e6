// Package stamper owns the per-file debounce state machine at the heart of
// vaultstamp.
//
// Each tracked file moves through three states:
//
//	idle          --edit-->        pending_write   (quiet-window timer starts)
//	pending_write --edit-->        pending_write   (timer restarts)
//	pending_write --timer fires--> awaiting_echo   (frontmatter stamp written)
//	awaiting_echo --edit-->        idle            (the write's echo, discarded)
//
// The echo transition is the de-duplication that keeps the system from
// feeding on its own writes: stamping a file makes the filesystem watcher
// report one more edit, and without the awaiting_echo flag every stamp would
// schedule the next stamp forever.
//
// The flag carries a known ambiguity: a genuine edit arriving before the
// echo is indistinguishable from it and is discarded the same way, so that
// edit's timestamp lands with the following edit instead. Events carry no
// causality tag that would allow telling the two apart.
//
// Timers come from an injected Scheduler so tests substitute a virtual
// clock; writes go through the MetadataWriter interface, implemented by
// frontmatter.Store.
package stamper
