package api

import "github.com/vaultstamp/vaultstamp/internal/journal"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State         string `json:"state"`
	FilesTracked  int    `json:"files_tracked"`
	PendingFiles  int    `json:"pending_files"`
	StampsWritten uint64 `json:"stamps_written"`
	StampFailures uint64 `json:"stamp_failures"`
}

// FileResponse is one file entry in GET /api/v1/files.
type FileResponse struct {
	Path          string `json:"path"`
	State         string `json:"state"`
	LastStampedAt string `json:"last_stamped_at,omitempty"` // RFC3339
	LastValue     string `json:"last_value,omitempty"`
}

// StampsResponse is the payload for GET /api/v1/stamps.
type StampsResponse struct {
	Stamps      []journal.Entry `json:"stamps"`
	GeneratedAt string          `json:"generated_at"` // RFC3339
}

// ConfigResponse is the payload for GET /api/v1/config — the effective
// configuration after defaults, normalization and any hot reloads.
type ConfigResponse struct {
	MetadataKey     string   `json:"metadata_key"`
	TimeFormat      string   `json:"time_format"`
	QuietWindow     string   `json:"quiet_window"`
	ExcludedFolders []string `json:"excluded_folders"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
