package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vaultstamp/vaultstamp/internal/api"
	"github.com/vaultstamp/vaultstamp/internal/journal"
	"github.com/vaultstamp/vaultstamp/internal/stamper"
)

// --- test helpers -----------------------------------------------------------

// fakeStates is a canned StateSource.
type fakeStates struct {
	states  []stamper.FileStatus
	pending int
}

func (f *fakeStates) States() []stamper.FileStatus { return f.states }
func (f *fakeStates) Pending() int                 { return f.pending }

func testConfig() api.ConfigResponse {
	return api.ConfigResponse{
		MetadataKey:     "updated",
		TimeFormat:      "",
		QuietWindow:     "10s",
		ExcludedFolders: []string{"Archive"},
	}
}

func newHandler(states *fakeStates, jrnl *journal.Journal) http.Handler {
	return api.New(states, jrnl, testConfig)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	jrnl := journal.New()
	jrnl.Record(journal.Entry{Path: "a.md", Key: "updated", Value: "x"})
	jrnl.RecordFailure()
	states := &fakeStates{
		states: []stamper.FileStatus{
			{Path: "a.md", State: stamper.StateIdle},
			{Path: "b.md", State: stamper.StatePendingWrite},
		},
		pending: 1,
	}

	rr := get(t, newHandler(states, jrnl), "/api/v1/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.FilesTracked != 2 {
		t.Errorf("files_tracked: got %d, want 2", resp.FilesTracked)
	}
	if resp.PendingFiles != 1 {
		t.Errorf("pending_files: got %d, want 1", resp.PendingFiles)
	}
	if resp.StampsWritten != 1 || resp.StampFailures != 1 {
		t.Errorf("counters: got (%d, %d), want (1, 1)", resp.StampsWritten, resp.StampFailures)
	}
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	h := newHandler(&fakeStates{}, journal.New())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/health", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/files ----------------------------------------------------------

func TestFiles_SortedWithLastStamp(t *testing.T) {
	jrnl := journal.New()
	at := time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)
	jrnl.Record(journal.Entry{Path: "b.md", Key: "updated", Value: "2024-03-07 12:00:00", StampedAt: at})
	states := &fakeStates{
		states: []stamper.FileStatus{
			{Path: "b.md", State: stamper.StateAwaitingEcho},
			{Path: "a.md", State: stamper.StatePendingWrite},
		},
	}

	rr := get(t, newHandler(states, jrnl), "/api/v1/files")
	var resp []api.FileResponse
	decode(t, rr, &resp)

	if len(resp) != 2 {
		t.Fatalf("files: got %d, want 2", len(resp))
	}
	if resp[0].Path != "a.md" || resp[1].Path != "b.md" {
		t.Errorf("order: got %s, %s", resp[0].Path, resp[1].Path)
	}
	if resp[0].State != "pending_write" {
		t.Errorf("a.md state: got %q", resp[0].State)
	}
	if resp[1].LastStampedAt != "2024-03-07T12:00:00Z" {
		t.Errorf("b.md last_stamped_at: got %q", resp[1].LastStampedAt)
	}
	if resp[0].LastStampedAt != "" {
		t.Errorf("a.md last_stamped_at: got %q, want empty", resp[0].LastStampedAt)
	}
}

// --- /api/v1/stamps ---------------------------------------------------------

func TestStamps_LimitApplied(t *testing.T) {
	jrnl := journal.New()
	base := time.Now()
	for i, p := range []string{"a.md", "b.md", "c.md"} {
		jrnl.Record(journal.Entry{Path: p, Key: "updated", Value: "x", StampedAt: base.Add(time.Duration(i) * time.Second)})
	}

	rr := get(t, newHandler(&fakeStates{}, jrnl), "/api/v1/stamps?limit=2")
	var resp api.StampsResponse
	decode(t, rr, &resp)

	if len(resp.Stamps) != 2 {
		t.Fatalf("stamps: got %d, want 2", len(resp.Stamps))
	}
	if resp.Stamps[0].Path != "c.md" {
		t.Errorf("newest first: got %q, want c.md", resp.Stamps[0].Path)
	}
}

func TestStamps_BadLimit(t *testing.T) {
	rr := get(t, newHandler(&fakeStates{}, journal.New()), "/api/v1/stamps?limit=zero")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

// --- /api/v1/config ---------------------------------------------------------

func TestConfig(t *testing.T) {
	rr := get(t, newHandler(&fakeStates{}, journal.New()), "/api/v1/config")
	var resp api.ConfigResponse
	decode(t, rr, &resp)

	if resp.MetadataKey != "updated" {
		t.Errorf("metadata_key: got %q", resp.MetadataKey)
	}
	if len(resp.ExcludedFolders) != 1 || resp.ExcludedFolders[0] != "Archive" {
		t.Errorf("excluded_folders: got %v", resp.ExcludedFolders)
	}
}
