// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/history"
	"github.com/poiesic/quaero/storage"
	"github.com/poiesic/quaero/telemetry"
)

const (
	// DefaultResultLimit bounds how many results a search returns.
	DefaultResultLimit = 20

	// DefaultGraphHops is how far graph mode expands outward from each
	// seed document.
	DefaultGraphHops = 2

	// graphSeedCount is how many full-text matches anchor a graph search.
	graphSeedCount = 3
)

// State is a point-in-time copy of the orchestrator's session state.
// Results is nil until the first successful search, and reset to nil
// whenever the mode or filter changes.
type State struct {
	Query   string
	Mode    core.Mode
	Filter  core.EntityFilter
	Results []core.ResultRecord
	Loading bool
	Err     string
}

// Orchestrator drives an interactive search session: it debounces query
// submissions, dispatches retrieval by mode, fuses scores, records the
// session history, and emits telemetry. All methods are safe for
// concurrent use.
//
// Retrieval runs asynchronously. Every execution is stamped with a
// generation; a completion whose generation is no longer current discards
// its entire state write, so out-of-order completions can never clobber a
// newer search's results.
type Orchestrator struct {
	store     storage.Searcher
	history   *history.Store
	sink      *telemetry.Sink
	debouncer *Debouncer
	logger    *slog.Logger

	limit    int
	maxHops  int
	interval time.Duration

	mu         sync.Mutex
	query      string
	mode       core.Mode
	filter     core.EntityFilter
	results    []core.ResultRecord
	loading    bool
	errMsg     string
	generation uint64
	closed     bool

	// done is signalled after each asynchronous execution commits or is
	// discarded. Tests wait on it.
	done chan struct{}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHistory attaches a session history store. Without one, queries are
// not recorded.
func WithHistory(h *history.Store) Option {
	return func(o *Orchestrator) {
		o.history = h
	}
}

// WithSink attaches a telemetry sink. Without one, no events are emitted.
func WithSink(s *telemetry.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = s
	}
}

// WithDebounceInterval overrides the debounce pause. Mainly for tests.
func WithDebounceInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.interval = d
	}
}

// WithResultLimit overrides the per-search result cap.
func WithResultLimit(limit int) Option {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithGraphHops overrides how far graph mode expands from its seeds.
func WithGraphHops(hops int) Option {
	return func(o *Orchestrator) {
		if hops > 0 {
			o.maxHops = hops
		}
	}
}

// WithOrchestratorLogger sets the logger. Defaults to slog.Default().
func WithOrchestratorLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates a search session over the given document store.
// The session starts in full-text mode with no filter and no results.
func NewOrchestrator(store storage.Searcher, opts ...Option) (*Orchestrator, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	o := &Orchestrator{
		store:    store,
		logger:   slog.Default(),
		limit:    DefaultResultLimit,
		maxHops:  DefaultGraphHops,
		interval: DefaultDebounceInterval,
		mode:     core.ModeFTS,
		done:     make(chan struct{}, 16),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.debouncer = NewDebouncer(o.interval, func(query string) {
		o.execute(context.Background(), query)
	})
	return o, nil
}

// Search submits a query through the debounce pipeline. Rapid successive
// calls coalesce so that only the last query of a burst executes.
// Whitespace-only queries cancel any pending dispatch and change nothing.
func (o *Orchestrator) Search(query string) {
	o.mu.Lock()
	closed := o.closed
	o.mu.Unlock()
	if closed {
		return
	}
	o.debouncer.Submit(query)
}

// SearchImmediate bypasses the debounce pipeline and executes the query
// synchronously, cancelling any pending debounced dispatch first. It
// returns the retrieval error, if any; the session state reflects the
// outcome either way.
func (o *Orchestrator) SearchImmediate(ctx context.Context, query string) error {
	o.mu.Lock()
	closed := o.closed
	o.mu.Unlock()
	if closed {
		return ErrOrchestratorClosed
	}
	o.debouncer.Cancel()
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return o.execute(ctx, query)
}

// ChangeMode switches the retrieval strategy. Existing results are
// cleared because scores are not comparable across modes. Returns
// core.ErrUnknownMode for an invalid mode; the session is untouched in
// that case.
func (o *Orchestrator) ChangeMode(mode core.Mode) error {
	if !mode.IsValid() {
		return core.ErrUnknownMode
	}
	o.debouncer.Cancel()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.mode = mode
	o.results = nil
	o.loading = false
	return nil
}

// SetFilter constrains full-text and graph seeding to documents carrying
// the given entity. Existing results are cleared.
func (o *Orchestrator) SetFilter(filter core.EntityFilter) {
	o.debouncer.Cancel()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.filter = filter
	o.results = nil
	o.loading = false
}

// ClearFilter removes the entity constraint. Existing results are cleared.
func (o *Orchestrator) ClearFilter() {
	o.SetFilter(core.EntityFilter{})
}

// Clear resets the session to its initial state: empty query, no results,
// no error. The mode and filter are preserved.
func (o *Orchestrator) Clear() {
	o.debouncer.Cancel()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.query = ""
	o.results = nil
	o.errMsg = ""
	o.loading = false
}

// Snapshot returns a copy of the current session state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	var results []core.ResultRecord
	if o.results != nil {
		results = make([]core.ResultRecord, len(o.results))
		copy(results, o.results)
	}
	return State{
		Query:   o.query,
		Mode:    o.mode,
		Filter:  o.filter,
		Results: results,
		Loading: o.loading,
		Err:     o.errMsg,
	}
}

// Wait blocks until an in-flight asynchronous execution commits or is
// discarded, or the context expires. It exists for callers that need to
// observe the outcome of a debounced Search.
func (o *Orchestrator) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the debounce pipeline. In-flight executions may still
// complete but their results are discarded. Close is idempotent.
func (o *Orchestrator) Close() {
	o.debouncer.Stop()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.closed = true
	o.loading = false
}

// execute runs one retrieval and commits its outcome if it is still the
// newest execution by the time it finishes.
func (o *Orchestrator) execute(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrOrchestratorClosed
	}
	o.generation++
	gen := o.generation
	o.query = query
	o.loading = true
	o.errMsg = ""
	mode := o.mode
	filter := o.filter
	limit := o.limit
	maxHops := o.maxHops
	o.mu.Unlock()

	if o.history != nil {
		o.history.Record(query)
	}
	if o.sink != nil {
		o.sink.PublishQueryIssued(telemetry.QueryIssued{
			Query: query,
			Mode:  mode,
			Limit: limit,
		})
	}

	start := time.Now()
	results, err := o.retrieve(ctx, query, mode, filter, limit, maxHops)
	elapsed := time.Since(start)

	o.mu.Lock()
	if gen != o.generation {
		// A newer search, mode change, or clear superseded this
		// execution. Its outcome is dropped wholesale.
		o.mu.Unlock()
		o.signalDone()
		return err
	}
	o.loading = false
	if err != nil {
		o.errMsg = err.Error()
		o.mu.Unlock()
		o.logger.Warn("search failed", "query", query, "mode", string(mode), "error", err)
		o.signalDone()
		return err
	}
	o.results = results
	o.errMsg = ""
	o.mu.Unlock()

	if o.sink != nil {
		o.sink.PublishQueryCompleted(telemetry.QueryCompleted{
			Query:       query,
			Mode:        mode,
			ResultCount: len(results),
			Elapsed:     elapsed,
			Top:         telemetry.TopResults(results, 3),
		})
		o.sink.LogRetrieval(ctx, newLogEntry(query, mode, results, elapsed))
	}
	o.signalDone()
	return nil
}

// retrieve dispatches to the store by mode and fuses scores into ranked
// result records.
func (o *Orchestrator) retrieve(ctx context.Context, query string, mode core.Mode, filter core.EntityFilter, limit, maxHops int) ([]core.ResultRecord, error) {
	switch mode {
	case core.ModeFTS:
		matches, err := o.store.SearchFTS(ctx, query, limit, filter)
		if err != nil {
			return nil, err
		}
		return FromFTS(matches), nil

	case core.ModeHybrid:
		return o.store.SearchHybrid(ctx, query, limit)

	case core.ModeGraph:
		return o.retrieveGraph(ctx, query, filter, limit, maxHops)

	default:
		return nil, core.ErrUnknownMode
	}
}

// retrieveGraph anchors a single graph expansion on the best full-text
// match. With no seeds there is nothing to expand, so the result is an
// empty list and the graph is never consulted.
func (o *Orchestrator) retrieveGraph(ctx context.Context, query string, filter core.EntityFilter, limit, maxHops int) ([]core.ResultRecord, error) {
	seeds, err := o.store.SearchFTS(ctx, query, graphSeedCount, filter)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return []core.ResultRecord{}, nil
	}

	// Expansion starts from the best match only; the remaining seeds
	// still contribute their lexical scores and snippets to the fusion.
	hood, err := o.store.GraphHops(ctx, seeds[0].GID, "", maxHops, limit)
	if err != nil {
		return nil, err
	}

	fused := FuseGraph(seeds, hood)
	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

func (o *Orchestrator) signalDone() {
	select {
	case o.done <- struct{}{}:
	default:
	}
}

func newLogEntry(query string, mode core.Mode, results []core.ResultRecord, elapsed time.Duration) *core.RetrievalLogEntry {
	entry := &core.RetrievalLogEntry{
		Query:       query,
		Mode:        mode,
		ResultCount: len(results),
		ElapsedMs:   elapsed.Milliseconds(),
		Timestamp:   time.Now().UTC(),
	}
	for i, r := range results {
		if i == 3 {
			break
		}
		entry.Results = append(entry.Results, core.RetrievalResult{
			GID:   r.GID,
			Title: r.Title,
			Score: r.Scores.Final,
		})
	}
	return entry
}
