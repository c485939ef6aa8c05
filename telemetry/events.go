package telemetry

import (
	"time"

	"github.com/poiesic/quaero/core"
)

// EventKind identifies an event on the bus.
type EventKind string

const (
	// EventQueryIssued fires when a search begins executing.
	EventQueryIssued EventKind = "search.query.issued"
	// EventQueryCompleted fires when a search finishes with results.
	EventQueryCompleted EventKind = "search.query.completed"
)

// QueryIssued is the payload published when a search begins.
type QueryIssued struct {
	Query string
	Mode  core.Mode
	Limit int
}

// ResultSummary is the projection of one result carried in events and the
// durable retrieval log.
type ResultSummary struct {
	GID   string
	Title string
	Score float64
}

// QueryCompleted is the payload published when a search finishes.
type QueryCompleted struct {
	Query       string
	Mode        core.Mode
	ResultCount int
	Elapsed     time.Duration
	Top         []ResultSummary
}

// TopResults projects the first n records into result summaries.
func TopResults(results []core.ResultRecord, n int) []ResultSummary {
	if len(results) < n {
		n = len(results)
	}
	top := make([]ResultSummary, n)
	for i := 0; i < n; i++ {
		top[i] = ResultSummary{
			GID:   results[i].GID,
			Title: results[i].Title,
			Score: results[i].Scores.Final,
		}
	}
	return top
}
