// Package router filters the vault's edit-event stream.
//
// Route(path) drops events whose vault-relative path sits under an excluded
// folder prefix (prefix plus path separator — "Archive" does not match
// "Archived/") and forwards everything else to the EditHandler. Exclusions
// are hot-swappable via SetExcluded for config reloads.
package router
