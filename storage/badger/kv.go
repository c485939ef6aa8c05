package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/quaero/storage"
)

// KV implements storage.KV on a prefixed bucket of the backend.
// It backs best-effort persistence such as the query history; callers are
// expected to swallow its errors.
type KV struct {
	backend *Backend
}

var _ storage.KV = (*KV)(nil)

// NewKV creates a KV bucket on the backend.
func NewKV(backend *Backend) *KV {
	return &KV{backend: backend}
}

// Get returns the value for key, or storage.ErrNotFound.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := k.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeKVKey(key))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set overwrites the value for key.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	return k.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeKVKey(key), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes key. Deleting a missing key is not an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	return k.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeKVKey(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
