package journal

import (
	"sort"
	"sync"
	"time"
)

// maxRecent bounds the ring of recently recorded stamps.
const maxRecent = 200

// Entry is one recorded frontmatter stamp.
type Entry struct {
	Path      string    `json:"path"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	StampedAt time.Time `json:"stamped_at"`
}

// Journal is a thread-safe in-memory record of stamping activity: the last
// stamp per file plus a bounded ring of recent stamps for the status API
// and the WebSocket feed.
type Journal struct {
	mu     sync.RWMutex
	byPath map[string]Entry
	recent []Entry
	now    func() time.Time // injectable for deterministic tests

	stamps   uint64
	failures uint64
}

// New creates an empty Journal.
func New() *Journal {
	return &Journal{
		byPath: make(map[string]Entry),
		now:    time.Now,
	}
}

// Record stores a successful stamp.
func (j *Journal) Record(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if e.StampedAt.IsZero() {
		e.StampedAt = j.now()
	}
	j.byPath[e.Path] = e
	j.recent = append(j.recent, e)
	if len(j.recent) > maxRecent {
		j.recent = j.recent[len(j.recent)-maxRecent:]
	}
	j.stamps++
}

// RecordFailure counts a stamp that could not be written.
func (j *Journal) RecordFailure() {
	j.mu.Lock()
	j.failures++
	j.mu.Unlock()
}

// Last returns the most recent stamp for path.
func (j *Journal) Last(path string) (Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	e, ok := j.byPath[path]
	return e, ok
}

// Recent returns up to limit stamps, newest first. limit <= 0 returns all
// retained entries.
func (j *Journal) Recent(limit int) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Entry, len(j.recent))
	copy(out, j.recent)
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].StampedAt.After(out[k].StampedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Stats returns lifetime counters: total stamps written and total write
// failures.
func (j *Journal) Stats() (stamps, failures uint64) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.stamps, j.failures
}

// Files returns the number of distinct files stamped so far.
func (j *Journal) Files() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.byPath)
}
