// Package api serves the local JSON status endpoints:
//
//	GET /api/v1/health  — counters: tracked files, pending timers, stamps
//	GET /api/v1/files   — per-file debounce state plus last stamp
//	GET /api/v1/stamps  — recent stamps, newest first (?limit=N)
//	GET /api/v1/config  — effective configuration after defaults and reloads
//
// The handler is read-only; it observes the debouncer and the journal and
// never mutates either.
package api
