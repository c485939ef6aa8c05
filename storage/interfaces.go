package storage

import (
	"context"

	"github.com/poiesic/quaero/core"
)

// Searcher is the retrieval boundary consumed by the search orchestrator.
// Implementations must be thread-safe and support concurrent access.
type Searcher interface {
	// SearchFTS runs lexical full-text search over the document index.
	// Results are ordered by score (highest first), up to limit entries.
	// The filter narrows results to documents tagged with a matching entity;
	// a zero filter matches everything.
	SearchFTS(ctx context.Context, query string, limit int, filter core.EntityFilter) ([]core.FTSMatch, error)

	// SearchHybrid runs combined lexical, vector, and entity retrieval.
	// The returned records already carry a fully composed score vector and
	// are ordered by Scores.Final descending.
	SearchHybrid(ctx context.Context, query string, limit int) ([]core.ResultRecord, error)

	// GraphHops expands outward from seedGID through link edges, up to
	// maxHops hops and limit nodes. targetGID optionally stops expansion
	// once that node is reached; empty means unconstrained.
	// The neighborhood includes the seed itself at distance 0.
	GraphHops(ctx context.Context, seedGID, targetGID string, maxHops, limit int) (*core.GraphNeighborhood, error)
}

// DocumentRepository provides operations for managing searchable documents.
type DocumentRepository interface {
	Searcher

	// AddDocuments adds one or more documents to storage and indexes them.
	// Documents with an empty GID get a content-derived one.
	// Sets InsertedAt/UpdatedAt timestamps.
	// Returns the documents with GIDs and timestamps populated.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments replaces existing documents and reindexes them.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents and their index entries by GID.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, gids ...string) error

	// GetDocument retrieves a single document by GID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, gid string) (*core.Document, error)

	// GetDocuments retrieves multiple documents by GID.
	// Returns only the documents that exist (no error for missing ones).
	GetDocuments(ctx context.Context, gids ...string) ([]*core.Document, error)

	// Close closes the repository and releases resources.
	Close() error
}

// KV is a best-effort single-key store used for query-history persistence.
// Reads and writes are eventually-consistent single-key overwrites; callers
// must tolerate every method failing.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// RetrievalLogRepository persists the durable retrieval log.
type RetrievalLogRepository interface {
	// AppendRetrieval appends one log entry.
	AppendRetrieval(ctx context.Context, entry *core.RetrievalLogEntry) error

	// RecentRetrievals returns up to limit entries, most recent first.
	RecentRetrievals(ctx context.Context, limit int) ([]*core.RetrievalLogEntry, error)

	// Ready reports whether the log target is open and has a live writer.
	Ready() bool

	// Close releases the log writer.
	Close() error
}
