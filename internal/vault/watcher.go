package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// eventBufSize is the depth of the outgoing event channel. Edits arriving
// while the consumer is busy queue here; overflow is dropped with a warning
// rather than stalling the filesystem watcher.
const eventBufSize = 256

// Event is one "document changed" notification: a vault-relative,
// slash-separated path plus the wall-clock arrival time.
type Event struct {
	Path string
	At   time.Time
}

// Watcher turns raw fsnotify activity under a vault root into a stream of
// markdown edit events. Directories are watched recursively; directories
// created while running are picked up from their create events. Hidden
// directories (".obsidian", ".git", ...) are ignored entirely — their
// churn is workspace state, not document edits.
type Watcher struct {
	root   string
	fsw    *fsnotify.Watcher
	events chan Event
	now    func() time.Time
}

// NewWatcher creates a Watcher rooted at the vault directory and registers
// watches on the root and every non-hidden subdirectory.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("vault: create watcher: %w", err)
	}

	w := &Watcher{
		root:   root,
		fsw:    fsw,
		events: make(chan Event, eventBufSize),
		now:    time.Now,
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events returns the edit-event stream. The channel closes when Run returns.
func (w *Watcher) Events() <-chan Event { return w.events }

// Run translates filesystem notifications into Events until ctx is
// cancelled. It must be called exactly once.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.fsw.Close()

	slog.Info("vault: watching", "root", w.root)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("vault: watcher error", "err", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	rel = filepath.ToSlash(rel)
	if hidden(rel) {
		return
	}

	// A created path may be a new directory that needs watching; addTree
	// ignores plain files.
	if event.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err != nil {
			slog.Warn("vault: could not watch new directory", "path", rel, "err", err)
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !isMarkdown(rel) {
		return
	}

	select {
	case w.events <- Event{Path: rel, At: w.now()}:
	default:
		slog.Warn("vault: event buffer full — dropping edit", "path", rel)
	}
}

// addTree registers watches for path and all non-hidden directories below
// it. Non-directories are ignored silently; callers pass whatever fsnotify
// reported as created.
func (w *Watcher) addTree(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The entry may have vanished between the event and the walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && p != w.root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("vault: watch %s: %w", p, err)
		}
		return nil
	})
}

// hidden reports whether any segment of the vault-relative path starts with
// a dot.
func hidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
