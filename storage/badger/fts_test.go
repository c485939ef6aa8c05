package badger

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/quaero/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCorpus(t *testing.T, repo *DocumentRepository) {
	t.Helper()
	ctx := context.Background()

	docs := []*core.Document{
		{
			GID:   "lsm",
			Title: "Log-Structured Merge Trees",
			Body:  "An LSM tree buffers writes in memory and flushes them as sorted runs. Compaction merges runs in the background.",
		},
		{
			GID:   "btree",
			Title: "B-Tree Indexes",
			Body:  "A B-tree keeps keys sorted in wide nodes so lookups touch few pages.",
		},
		{
			GID:         "hopper",
			Title:       "Grace Hopper",
			Body:        "Grace Hopper pioneered machine-independent programming languages.",
			EntityType:  "person",
			EntityValue: "grace hopper",
		},
		{
			GID:         "gray",
			Title:       "Jim Gray",
			Body:        "Jim Gray formalized transaction processing and recovery for storage engines.",
			EntityType:  "person",
			EntityValue: "jim gray",
		},
	}
	_, err := repo.AddDocuments(ctx, docs...)
	require.NoError(t, err)
}

func TestSearchFTS(t *testing.T) {
	repo, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	seedCorpus(t, repo)
	ctx := context.Background()

	t.Run("top match is normalized to 1.0", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "sorted runs", 10, core.EntityFilter{})
		require.NoError(t, err)
		require.NotEmpty(t, matches)

		assert.Equal(t, "lsm", matches[0].GID)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
		for _, m := range matches[1:] {
			assert.LessOrEqual(t, m.Score, matches[0].Score)
		}
	})

	t.Run("coverage outranks repetition", func(t *testing.T) {
		// "sorted" appears in both docs, but only lsm also has "runs"
		matches, err := repo.SearchFTS(ctx, "sorted runs", 10, core.EntityFilter{})
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "lsm", matches[0].GID)
		assert.Equal(t, "btree", matches[1].GID)
	})

	t.Run("snippet highlights matched tokens", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "compaction", 10, core.EntityFilter{})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.True(t, strings.Contains(matches[0].Snippet, "<b>"),
			"snippet should carry highlight markup: %q", matches[0].Snippet)
	})

	t.Run("empty query returns empty list", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "   ", 10, core.EntityFilter{})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("stop-word-only query returns empty list", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "the and of", 10, core.EntityFilter{})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("no matches", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "zeppelin", 10, core.EntityFilter{})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("limit truncates", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "sorted", 1, core.EntityFilter{})
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})
}

func TestSearchFTSEntityFilter(t *testing.T) {
	repo, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	seedCorpus(t, repo)
	ctx := context.Background()

	t.Run("type filter", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "grace jim", 10, core.EntityFilter{Type: "person"})
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("type and value filter", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "grace jim", 10,
			core.EntityFilter{Type: "person", Value: "grace hopper"})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "hopper", matches[0].GID)
	})

	t.Run("filter excludes untagged documents", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "sorted", 10, core.EntityFilter{Type: "person"})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("zero filter matches everything", func(t *testing.T) {
		matches, err := repo.SearchFTS(ctx, "grace", 10, core.EntityFilter{})
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})
}
