package badger

import (
	"context"
	"encoding/binary"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/quaero/ai"
	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend  *Backend
	embedder ai.Embedder // optional; nil disables the vector signal in hybrid search
	logger   *slog.Logger
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// Option configures a DocumentRepository.
type Option func(*DocumentRepository)

// WithEmbedder sets the embedder used for the hybrid vector signal.
// Without one, hybrid search degrades to lexical and entity signals.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(r *DocumentRepository) {
		r.embedder = embedder
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *DocumentRepository) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend, opts ...Option) (*DocumentRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}

	r := &DocumentRepository{
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases repository resources. The backend is owned by the caller.
func (r *DocumentRepository) Close() error {
	return nil
}

// AddDocuments adds one or more documents to storage and indexes them.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if doc.GID == "" {
				doc.GID = core.GIDFromContent(doc.Title + "\n" + doc.Body)
			}

			doc.InsertedAt = time.Now().UTC()
			doc.UpdatedAt = doc.InsertedAt

			if err := r.writeDocument(tx, doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// UpdateDocuments replaces existing documents and reindexes them.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			old, err := r.readDocument(tx, makeDocumentKey(doc.GID))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := r.deleteIndexes(tx, old); err != nil {
				return err
			}

			doc.InsertedAt = old.InsertedAt
			doc.UpdatedAt = time.Now().UTC()

			if err := r.writeDocument(tx, doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// DeleteDocuments removes documents and their index entries by GID.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, gids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, gid := range gids {
			key := makeDocumentKey(gid)
			doc, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := r.deleteIndexes(tx, doc); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by GID.
func (r *DocumentRepository) GetDocument(ctx context.Context, gid string) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = r.readDocument(tx, makeDocumentKey(gid))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// GetDocuments retrieves multiple documents by GID, skipping missing ones.
func (r *DocumentRepository) GetDocuments(ctx context.Context, gids ...string) ([]*core.Document, error) {
	var docs []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, gid := range gids {
			doc, err := r.readDocument(tx, makeDocumentKey(gid))
			if err != nil {
				return err
			}
			if doc != nil {
				docs = append(docs, doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// writeDocument stores the primary record and all index entries.
func (r *DocumentRepository) writeDocument(tx *badger.Txn, doc *core.Document) error {
	if err := tx.Set(makeDocumentKey(doc.GID), storage.MarshalDocument(doc)); err != nil {
		return err
	}

	for token, tf := range termFrequencies(doc.Title + " " + doc.Body) {
		if err := tx.Set(makeTermKey(token, doc.GID), encodeTF(tf)); err != nil {
			return err
		}
	}

	if doc.EntityType != "" || doc.EntityValue != "" {
		if err := tx.Set(makeEntityKey(doc.EntityType, doc.EntityValue, doc.GID), nil); err != nil {
			return err
		}
	}

	for _, target := range doc.Links {
		if target == "" || target == doc.GID {
			continue
		}
		if err := tx.Set(makeEdgeKey(edgeForwardPrefix, doc.GID, target), nil); err != nil {
			return err
		}
		if err := tx.Set(makeEdgeKey(edgeReversePrefix, target, doc.GID), nil); err != nil {
			return err
		}
	}

	return nil
}

// deleteIndexes removes the index entries derived from doc.
func (r *DocumentRepository) deleteIndexes(tx *badger.Txn, doc *core.Document) error {
	for token := range termFrequencies(doc.Title + " " + doc.Body) {
		if err := tx.Delete(makeTermKey(token, doc.GID)); err != nil {
			return err
		}
	}

	if doc.EntityType != "" || doc.EntityValue != "" {
		if err := tx.Delete(makeEntityKey(doc.EntityType, doc.EntityValue, doc.GID)); err != nil {
			return err
		}
	}

	for _, target := range doc.Links {
		if target == "" || target == doc.GID {
			continue
		}
		if err := tx.Delete(makeEdgeKey(edgeForwardPrefix, doc.GID, target)); err != nil {
			return err
		}
		if err := tx.Delete(makeEdgeKey(edgeReversePrefix, target, doc.GID)); err != nil {
			return err
		}
	}

	return nil
}

// readDocument reads and unmarshals a document, returning nil if absent.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// encodeTF encodes a term frequency for a posting-list value.
func encodeTF(tf uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, tf)
	return buf
}

// decodeTF decodes a posting-list term frequency.
func decodeTF(data []byte) uint64 {
	if len(data) != 8 {
		return 1
	}
	return binary.BigEndian.Uint64(data)
}
