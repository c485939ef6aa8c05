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

package quaero

import (
	"log/slog"

	"github.com/poiesic/quaero/ai"
	"github.com/poiesic/quaero/ai/openai"
	"github.com/poiesic/quaero/history"
	"github.com/poiesic/quaero/ingest"
	"github.com/poiesic/quaero/search"
	"github.com/poiesic/quaero/storage"
	"github.com/poiesic/quaero/storage/badger"
	"github.com/poiesic/quaero/telemetry"
)

// Database owns the storage backend and repositories, and hands out
// ingestion pipelines and search sessions built on them.
type Database struct {
	backend      *badger.Backend
	docRepo      storage.DocumentRepository
	kv           storage.KV
	retrievalLog storage.RetrievalLogRepository
	embedder     ai.Embedder
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
}

// WithAIConfig sets the embedding endpoint configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder injects an embedder directly, bypassing the AI config.
// Mainly for tests.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemory opens the backend without on-disk persistence.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create embedder, unless one was injected
	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	// Create document repository
	docRepo, err := badger.NewDocumentRepository(backend, badger.WithEmbedder(embedder))
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create retrieval log repository
	retrievalLog, err := badger.NewRetrievalLogRepository(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:      backend,
		docRepo:      docRepo,
		kv:           badger.NewKV(backend),
		retrievalLog: retrievalLog,
		embedder:     embedder,
		logger:       slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Release the retrieval log's sequence before the backend goes away
	if err := db.retrievalLog.Close(); err != nil {
		db.logger.Error("error closing retrieval log", "err", err)
	}

	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

func (db *Database) KV() storage.KV {
	return db.kv
}

func (db *Database) RetrievalLogRepository() storage.RetrievalLogRepository {
	return db.retrievalLog
}

func (db *Database) NewIngestPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(db.docRepo, db.embedder, opts...)
}

// Session bundles one interactive search session: the orchestrator plus
// the history store and telemetry sink wired into it.
type Session struct {
	Orchestrator *search.Orchestrator
	History      *history.Store
	sink         *telemetry.Sink
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	bus        telemetry.Bus
	gate       telemetry.SessionGate
	searchOpts []search.Option
}

// WithBus sets the telemetry event bus. Defaults to a log-backed bus.
func WithBus(bus telemetry.Bus) SessionOption {
	return func(o *sessionOptions) {
		if bus != nil {
			o.bus = bus
		}
	}
}

// WithSessionGate controls whether searches are written to the durable
// retrieval log. Defaults to always active.
func WithSessionGate(gate telemetry.SessionGate) SessionOption {
	return func(o *sessionOptions) {
		if gate != nil {
			o.gate = gate
		}
	}
}

// WithSearchOptions passes options through to the orchestrator.
func WithSearchOptions(opts ...search.Option) SessionOption {
	return func(o *sessionOptions) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// NewSession creates an interactive search session over this database.
// The session's history persists under its default key; the retrieval
// log records searches while the gate reports an active session.
func (db *Database) NewSession(opts ...SessionOption) (*Session, error) {
	options := &sessionOptions{
		bus:  telemetry.NewLogBus(db.logger),
		gate: telemetry.StaticGate(true),
	}
	for _, opt := range opts {
		opt(options)
	}

	sink, err := telemetry.NewSink(options.bus,
		telemetry.WithRetrievalLog(options.gate, db.retrievalLog))
	if err != nil {
		return nil, err
	}

	hist := history.NewStore(db.kv)

	searchOpts := append([]search.Option{
		search.WithHistory(hist),
		search.WithSink(sink),
	}, options.searchOpts...)

	orch, err := search.NewOrchestrator(db.docRepo, searchOpts...)
	if err != nil {
		sink.Close()
		return nil, err
	}

	return &Session{
		Orchestrator: orch,
		History:      hist,
		sink:         sink,
	}, nil
}

// Close shuts down the session's orchestrator and telemetry sink. The
// underlying database stays open.
func (s *Session) Close() {
	s.Orchestrator.Close()
	s.sink.Close()
}
