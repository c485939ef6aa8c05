package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLogEntry(query string, results int) *core.RetrievalLogEntry {
	return &core.RetrievalLogEntry{
		Query:       query,
		Mode:        core.ModeFTS,
		ResultCount: results,
		ElapsedMs:   5,
		Timestamp:   time.Now().UTC(),
	}
}

func TestRetrievalLog(t *testing.T) {
	repo, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	logRepo, err := NewRetrievalLogRepository(backend)
	require.NoError(t, err)
	defer logRepo.Close()

	ctx := context.Background()

	t.Run("ready after construction", func(t *testing.T) {
		assert.True(t, logRepo.Ready())
	})

	t.Run("append and read back in reverse order", func(t *testing.T) {
		require.NoError(t, logRepo.AppendRetrieval(ctx, makeLogEntry("first", 1)))
		require.NoError(t, logRepo.AppendRetrieval(ctx, makeLogEntry("second", 2)))
		require.NoError(t, logRepo.AppendRetrieval(ctx, makeLogEntry("third", 3)))

		entries, err := logRepo.RecentRetrievals(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, "third", entries[0].Query)
		assert.Equal(t, "second", entries[1].Query)
		assert.Equal(t, "first", entries[2].Query)
	})

	t.Run("limit caps entries", func(t *testing.T) {
		entries, err := logRepo.RecentRetrievals(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestRetrievalLogNotReadyAfterClose(t *testing.T) {
	repo, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	logRepo, err := NewRetrievalLogRepository(backend)
	require.NoError(t, err)

	require.NoError(t, logRepo.Close())
	assert.False(t, logRepo.Ready())

	err = logRepo.AppendRetrieval(context.Background(), makeLogEntry("late", 0))
	assert.True(t, errors.Is(err, storage.ErrStorageClosed))
}
