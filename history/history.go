// Package history keeps a bounded, deduplicated list of past search
// queries, most recent first. Persistence through a storage.KV is strictly
// best-effort: every persistence failure is logged and swallowed, and the
// in-memory list keeps working without it.
package history

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/quaero/storage"
)

// Capacity is the maximum number of retained queries.
const Capacity = 10

// DefaultKey is the persistence key used when none is configured.
const DefaultKey = "search-history"

// Store is a bounded, deduplicated query history.
type Store struct {
	mu      sync.Mutex
	queries []string
	kv      storage.KV // nil = ephemeral
	key     string
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the persistence key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewStore creates a history store. A nil KV yields an ephemeral in-memory
// history. The persisted snapshot is loaded eagerly; a missing or malformed
// snapshot yields an empty starting list, never an error.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// load reads the persisted snapshot. Corrupt data resets to empty.
func (s *Store) load() {
	if s.kv == nil {
		return
	}

	data, err := s.kv.Get(context.Background(), s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to load search history, starting empty", "err", err)
		}
		return
	}

	queries, err := storage.UnmarshalHistory(data)
	if err != nil {
		s.logger.Warn("persisted search history is corrupt, starting empty", "err", err)
		return
	}
	if len(queries) > Capacity {
		queries = queries[:Capacity]
	}
	s.queries = queries
}

// Record adds a query to the front of the history. Empty or whitespace-only
// input is a no-op. An existing exact duplicate moves to the front instead
// of being duplicated. The list is truncated to Capacity and persisted
// best-effort.
func (s *Store) Record(query string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Remove any existing exact duplicate (case-sensitive)
	for i, q := range s.queries {
		if q == trimmed {
			s.queries = append(s.queries[:i], s.queries[i+1:]...)
			break
		}
	}

	s.queries = append([]string{trimmed}, s.queries...)
	if len(s.queries) > Capacity {
		s.queries = s.queries[:Capacity]
	}

	s.persist()
}

// Clear empties the history and best-effort removes the persisted copy.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = nil

	if s.kv == nil {
		return
	}
	if err := s.kv.Delete(context.Background(), s.key); err != nil {
		s.logger.Warn("failed to remove persisted search history", "err", err)
	}
}

// Entries returns a copy of the history, most recent first.
func (s *Store) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// persist writes the current list. Callers hold the mutex.
// Failures are logged and swallowed; the in-memory list is authoritative.
func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(context.Background(), s.key, storage.MarshalHistory(s.queries)); err != nil {
		s.logger.Warn("failed to persist search history", "err", err)
	}
}
