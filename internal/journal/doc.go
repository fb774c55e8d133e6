// Package journal records stamping activity in memory for the status
// surfaces: last stamp per file, a bounded ring of recent stamps, and
// lifetime stamp/failure counters. Nothing here is persisted.
package journal
