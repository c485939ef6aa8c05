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


package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/storage"
)

// RetrievalLogRepository implements storage.RetrievalLogRepository for BadgerDB.
type RetrievalLogRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.RetrievalLogRepository = (*RetrievalLogRepository)(nil)

// NewRetrievalLogRepository creates a new RetrievalLogRepository.
func NewRetrievalLogRepository(backend *Backend) (*RetrievalLogRepository, error) {
	idSeq, err := backend.GetSequence(retrievalLogIDSeq)
	if err != nil {
		return nil, err
	}

	return &RetrievalLogRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *RetrievalLogRepository) Close() error {
	if r.idSeq == nil {
		return nil
	}
	err := r.idSeq.Release()
	r.idSeq = nil
	return err
}

// Ready reports whether the log target is open and has a live writer.
func (r *RetrievalLogRepository) Ready() bool {
	return r.idSeq != nil && !r.backend.IsClosed()
}

// AppendRetrieval appends one log entry.
func (r *RetrievalLogRepository) AppendRetrieval(ctx context.Context, entry *core.RetrievalLogEntry) error {
	if !r.Ready() {
		return storage.ErrStorageClosed
	}

	seq, err := r.idSeq.Next()
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRetrievalLogKey(seq)
		if err := tx.Set(key, storage.MarshalRetrievalLogEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// RecentRetrievals returns up to limit entries, most recent first.
func (r *RetrievalLogRepository) RecentRetrievals(ctx context.Context, limit int) ([]*core.RetrievalLogEntry, error) {
	if limit <= 0 {
		return []*core.RetrievalLogEntry{}, nil
	}

	var entries []*core.RetrievalLogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(retrievalLogPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration starts past the end of the prefix range.
		seek := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for iter.Seek(seek); iter.ValidForPrefix(prefix) && len(entries) < limit; iter.Next() {
			var entry *core.RetrievalLogEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalRetrievalLogEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
