package telemetry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/storage"
)

const defaultPoolSize = 2

// ErrBusRequired is returned when an event bus is not provided.
var ErrBusRequired = errors.New("event bus required")

// Bus is the external event bus contract. Publish is fire-and-forget; the
// sink never consumes a return value and never waits on delivery.
type Bus interface {
	Publish(kind EventKind, payload any)
}

// SessionGate reports whether durable retrieval logging is active for the
// current session. It is owned by an external session manager.
type SessionGate interface {
	DynamicSessionActive() bool
}

// StaticGate is a SessionGate with a fixed answer.
type StaticGate bool

// DynamicSessionActive implements SessionGate.
func (g StaticGate) DynamicSessionActive() bool { return bool(g) }

// Sink publishes search telemetry. Every path through the sink is an
// isolated failure domain: bus panics are recovered, pool and write errors
// are logged, and nothing ever propagates back to the search that
// triggered the event.
type Sink struct {
	bus          Bus
	gate         SessionGate
	retrievalLog storage.RetrievalLogRepository
	pool         *ants.Pool
	logger       *slog.Logger
}

// SinkOption configures a Sink.
type SinkOption func(*Sink) error

// WithRetrievalLog enables durable retrieval logging, gated by the session gate.
func WithRetrievalLog(gate SessionGate, repo storage.RetrievalLogRepository) SinkOption {
	return func(s *Sink) error {
		s.gate = gate
		s.retrievalLog = repo
		return nil
	}
}

// WithPoolSize sets the publish worker pool size.
// Default is 2.
func WithPoolSize(size int) SinkOption {
	return func(s *Sink) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SinkOption {
	return func(s *Sink) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSink creates a telemetry sink publishing to bus.
func NewSink(bus Bus, opts ...SinkOption) (*Sink, error) {
	if bus == nil {
		return nil, ErrBusRequired
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	s := &Sink{
		bus:    bus,
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close releases the publish pool.
func (s *Sink) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// PublishQueryIssued publishes a query-issued event, fire-and-forget.
func (s *Sink) PublishQueryIssued(ev QueryIssued) {
	s.publish(EventQueryIssued, ev)
}

// PublishQueryCompleted publishes a query-completed event, fire-and-forget.
func (s *Sink) PublishQueryCompleted(ev QueryCompleted) {
	s.publish(EventQueryCompleted, ev)
}

// publish submits the event to the worker pool. A full or released pool and
// a panicking bus are both absorbed here.
func (s *Sink) publish(kind EventKind, payload any) {
	err := s.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("event bus panicked", "kind", string(kind), "panic", r)
			}
		}()
		s.bus.Publish(kind, payload)
	})
	if err != nil {
		s.logger.Warn("dropping telemetry event", "kind", string(kind), "err", err)
	}
}

// LogRetrieval appends a durable retrieval log entry when the session gate
// is active. Failures are logged and swallowed; logging can never fail a
// search.
func (s *Sink) LogRetrieval(ctx context.Context, entry *core.RetrievalLogEntry) {
	if s.gate == nil || !s.gate.DynamicSessionActive() {
		return
	}
	if s.retrievalLog == nil || !s.retrievalLog.Ready() {
		s.logger.Warn("retrieval log target not ready, skipping entry")
		return
	}

	if err := s.retrievalLog.AppendRetrieval(ctx, entry); err != nil {
		s.logger.Error("failed to append retrieval log entry", "err", err)
	}
}
