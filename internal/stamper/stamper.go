package stamper

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vaultstamp/vaultstamp/internal/timefmt"
)

// DefaultWindow is the quiet period a file must stay unedited before its
// frontmatter is stamped.
const DefaultWindow = 10 * time.Second

// MetadataWriter applies a single-key frontmatter mutation to a document.
// Implemented by frontmatter.Store in production.
type MetadataWriter interface {
	SetKey(path, key, value string) error
}

// Observer receives the outcome of every stamping decision. All methods are
// called outside the Debouncer's lock; implementations may call back into
// the Debouncer. A nil Observer is valid.
type Observer interface {
	// Debounced reports a genuine edit that started or restarted the
	// file's quiet-window timer.
	Debounced(path string)

	// Stamped reports a successful frontmatter write.
	Stamped(path, key, value string, at time.Time)

	// StampFailed reports a write that could not be applied. There is no
	// retry; the next edit to the file starts a fresh cycle.
	StampFailed(path string, err error)

	// EchoSwallowed reports that an edit notification was discarded because
	// it was attributed to this process's own frontmatter write.
	EchoSwallowed(path string)
}

// State is the per-file position in the stamping cycle.
type State int

const (
	// StateIdle: no timer pending, no echo expected.
	StateIdle State = iota

	// StatePendingWrite: a quiet-window timer is running; the next timer
	// fire writes the stamp, the next edit restarts the window.
	StatePendingWrite

	// StateAwaitingEcho: the stamp was written and the watcher is expected
	// to report that write back as one more edit, which must be discarded.
	StateAwaitingEcho
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingWrite:
		return "pending_write"
	case StateAwaitingEcho:
		return "awaiting_echo"
	default:
		return "unknown"
	}
}

// FileStatus is one entry of a Debouncer state snapshot.
type FileStatus struct {
	Path  string
	State State
}

// fileState is the per-path record. At most one timer is pending per path.
// Entries are created on first admitted edit and kept for the process
// lifetime; a vault's file count keeps the map small enough that eviction
// is not worth its complexity.
type fileState struct {
	timer        Timer
	gen          uint64 // incremented on every (re)schedule; stale fires bail out
	awaitingEcho bool
}

// Debouncer coalesces bursts of edits to the same file into a single
// frontmatter stamp written after a quiet window, and discards the one echo
// notification that each of its own writes produces.
//
// All methods are safe for concurrent use. Edit events and timer callbacks
// serialize on one mutex, which preserves per-file ordering and makes
// cancel-before-reschedule atomic: a stopped timer's write can never happen.
type Debouncer struct {
	writer MetadataWriter
	sched  Scheduler
	window time.Duration
	obs    Observer
	now    func() time.Time // injectable for deterministic tests

	mu     sync.Mutex
	key    string
	layout string
	files  map[string]*fileState
}

// New creates a Debouncer stamping key with timestamps formatted per the
// Moment-style pattern (empty pattern means timefmt.DefaultPattern).
// A window of 0 or less falls back to DefaultWindow.
func New(writer MetadataWriter, sched Scheduler, window time.Duration, key, pattern string) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		writer: writer,
		sched:  sched,
		window: window,
		now:    time.Now,
		key:    key,
		layout: timefmt.Layout(pattern),
		files:  make(map[string]*fileState),
	}
}

// SetObserver installs the outcome observer. Call before the first OnEdit.
func (d *Debouncer) SetObserver(obs Observer) { d.obs = obs }

// SetStamp updates the stamped key and format pattern. Pending timers keep
// running and pick up the new values when they fire.
func (d *Debouncer) SetStamp(key, pattern string) {
	d.mu.Lock()
	d.key = key
	d.layout = timefmt.Layout(pattern)
	d.mu.Unlock()
}

// OnEdit processes one admitted edit notification for path.
//
// An edit while the file awaits its echo is attributed to this process's own
// frontmatter write and discarded. A genuine edit arriving in that window is
// indistinguishable from the echo and is discarded too — its timestamp
// update lands with the next edit. Otherwise the quiet-window timer is
// (re)started; only a full quiet window with no further edits produces a
// write.
func (d *Debouncer) OnEdit(path string) {
	d.mu.Lock()
	st, ok := d.files[path]
	if !ok {
		st = &fileState{}
		d.files[path] = st
	}

	if st.awaitingEcho {
		st.awaitingEcho = false
		obs := d.obs
		d.mu.Unlock()
		slog.Debug("stamper: swallowed own write echo", "path", path)
		if obs != nil {
			obs.EchoSwallowed(path)
		}
		return
	}

	if st.timer != nil {
		st.timer.Stop()
	}
	// Stop does not guarantee the callback is not already in flight, so
	// each schedule gets a generation; a stale fire sees the mismatch and
	// does nothing.
	st.gen++
	gen := st.gen
	st.timer = d.sched.AfterFunc(d.window, func() { d.fire(path, gen) })
	obs := d.obs
	d.mu.Unlock()

	if obs != nil {
		obs.Debounced(path)
	}
}

// fire runs when a file's quiet window elapses with no further edits.
func (d *Debouncer) fire(path string, gen uint64) {
	d.mu.Lock()
	st, ok := d.files[path]
	if !ok {
		// A timer for an untracked path means the state map and the
		// scheduler disagree; log it and drop the event.
		d.mu.Unlock()
		slog.Warn("stamper: timer fired for untracked file", "path", path)
		return
	}
	if st.gen != gen {
		// A newer edit replaced this timer while its callback was in
		// flight; the newer timer owns the write.
		d.mu.Unlock()
		return
	}
	st.timer = nil

	at := d.now()
	value := at.Format(d.layout)
	key := d.key
	obs := d.obs

	// The write happens under the lock so the echo cannot be observed
	// before awaitingEcho is set.
	if err := d.writer.SetKey(path, key, value); err != nil {
		// Leave awaitingEcho false: a failed write produces no echo, and a
		// stuck flag would silently swallow the next genuine edit.
		d.mu.Unlock()
		slog.Warn("stamper: write failed", "path", path, "key", key, "err", err)
		if obs != nil {
			obs.StampFailed(path, err)
		}
		return
	}
	st.awaitingEcho = true
	d.mu.Unlock()

	slog.Info("stamper: stamped", "path", path, "key", key, "value", value)
	if obs != nil {
		obs.Stamped(path, key, value, at)
	}
}

// States returns a snapshot of every tracked file and its current state.
func (d *Debouncer) States() []FileStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]FileStatus, 0, len(d.files))
	for path, st := range d.files {
		out = append(out, FileStatus{Path: path, State: st.state()})
	}
	return out
}

// Pending returns the number of files with a quiet-window timer running.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, st := range d.files {
		if st.timer != nil {
			n++
		}
	}
	return n
}

func (st *fileState) state() State {
	switch {
	case st.timer != nil:
		return StatePendingWrite
	case st.awaitingEcho:
		return StateAwaitingEcho
	default:
		return StateIdle
	}
}
