// Package search implements the interactive query orchestration layer:
// a debounced submission pipeline over a document store, with per-mode
// retrieval (full-text, hybrid, graph), score fusion, session history
// and fire-and-forget telemetry.
package search
