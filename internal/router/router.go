package router

import (
	"log/slog"
	"strings"
	"sync"
)

// EditHandler receives admitted edit notifications.
// Implemented by stamper.Debouncer in production.
type EditHandler interface {
	OnEdit(path string)
}

// Router filters the raw edit-event stream by excluded folder prefixes and
// dispatches every admitted event to the handler. It has no other side
// effects.
//
// Router is safe for concurrent use; exclusions can be swapped at runtime
// when the configuration reloads.
type Router struct {
	handler EditHandler

	// OnExcluded, if set, is called for every dropped event. Used for
	// metrics; must not block.
	OnExcluded func(path string)

	mu       sync.RWMutex
	excluded []string
}

// New creates a Router dispatching to handler. Prefixes must already be
// normalized; the config loader does that at the load boundary.
func New(handler EditHandler, excluded []string) *Router {
	return &Router{handler: handler, excluded: excluded}
}

// SetExcluded replaces the excluded folder prefixes.
func (r *Router) SetExcluded(prefixes []string) {
	r.mu.Lock()
	r.excluded = prefixes
	r.mu.Unlock()
}

// Route processes one edit notification. Events under an excluded folder are
// dropped; everything else is forwarded to the handler.
func (r *Router) Route(path string) {
	if r.isExcluded(path) {
		slog.Debug("router: dropped excluded edit", "path", path)
		if r.OnExcluded != nil {
			r.OnExcluded(path)
		}
		return
	}
	r.handler.OnEdit(path)
}

// isExcluded reports whether path sits under any excluded folder. The prefix
// must be followed by a path separator: prefix "Archive" excludes
// "Archive/notes.md" but not "Archived/notes.md".
func (r *Router) isExcluded(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, prefix := range r.excluded {
		if strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
