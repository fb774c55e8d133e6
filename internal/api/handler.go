package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/vaultstamp/vaultstamp/internal/journal"
	"github.com/vaultstamp/vaultstamp/internal/stamper"
)

// defaultStampLimit caps GET /api/v1/stamps when no limit is given.
const defaultStampLimit = 50

// StateSource is the view of the debouncer the API reads.
type StateSource interface {
	States() []stamper.FileStatus
	Pending() int
}

// Handler is the HTTP handler for all /api/v1/* endpoints. It reads the
// debouncer's live state and the journal; responses are JSON.
type Handler struct {
	states StateSource
	jrnl   *journal.Journal
	cfg    func() ConfigResponse // returns the effective, possibly reloaded config
	mux    *http.ServeMux
}

// New creates a Handler and registers all routes. cfg must return the
// currently effective configuration; it is called per request so hot
// reloads show up immediately.
func New(states StateSource, jrnl *journal.Journal, cfg func() ConfigResponse) http.Handler {
	h := &Handler{states: states, jrnl: jrnl, cfg: cfg, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/files", h.files)
	h.mux.HandleFunc("/api/v1/stamps", h.stamps)
	h.mux.HandleFunc("/api/v1/config", h.config)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — tracked file and stamp counters.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stamps, failures := h.jrnl.Stats()
	jsonResp(w, http.StatusOK, HealthResponse{
		State:         "ok",
		FilesTracked:  len(h.states.States()),
		PendingFiles:  h.states.Pending(),
		StampsWritten: stamps,
		StampFailures: failures,
	})
}

// files returns GET /api/v1/files — every tracked file with its debounce
// state and last stamp, sorted by path.
func (h *Handler) files(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	states := h.states.States()
	out := make([]FileResponse, 0, len(states))
	for _, fs := range states {
		resp := FileResponse{Path: fs.Path, State: fs.State.String()}
		if last, ok := h.jrnl.Last(fs.Path); ok {
			resp.LastStampedAt = last.StampedAt.UTC().Format(time.RFC3339)
			resp.LastValue = last.Value
		}
		out = append(out, resp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	jsonResp(w, http.StatusOK, out)
}

// stamps returns GET /api/v1/stamps?limit=N — recent stamps, newest first.
func (h *Handler) stamps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultStampLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			jsonErr(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	jsonResp(w, http.StatusOK, StampsResponse{
		Stamps:      h.jrnl.Recent(limit),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// config returns GET /api/v1/config — the effective configuration.
func (h *Handler) config(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.cfg())
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
