package badger

import (
	"context"
	"testing"

	"github.com/poiesic/quaero/ai/mock"
	"github.com/poiesic/quaero/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchHybrid(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	repo, backend, err := NewMemoryStore(WithEmbedder(embedder))
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	docs := []*core.Document{
		{
			GID:   "lsm",
			Title: "Log-Structured Merge Trees",
			Body:  "An LSM tree buffers writes in memory and flushes them as sorted runs.",
		},
		{
			GID:         "hopper",
			Title:       "Grace Hopper",
			Body:        "Grace Hopper pioneered machine-independent programming languages.",
			EntityType:  "person",
			EntityValue: "grace hopper",
		},
	}
	_, err = repo.AddDocuments(ctx, docs...)
	require.NoError(t, err)

	// Attach vectors the way the ingest pipeline would
	for _, doc := range docs {
		vec, err := embedder.EmbedText(ctx, doc.Body)
		require.NoError(t, err)
		doc.Vector = vec
		_, err = repo.UpdateDocuments(ctx, doc)
		require.NoError(t, err)
	}

	t.Run("lexical component carries through", func(t *testing.T) {
		results, err := repo.SearchHybrid(ctx, "sorted runs", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		assert.Equal(t, "lsm", results[0].GID)
		assert.Greater(t, results[0].Scores.FTS, 0.0)
		assert.Greater(t, results[0].Scores.Final, 0.0)
		assert.Zero(t, results[0].Scores.Graph)
	})

	t.Run("identical text is a vector hit", func(t *testing.T) {
		// The mock embedder is deterministic, so querying with the exact
		// body gives cosine similarity 1.0, above the floor.
		results, err := repo.SearchHybrid(ctx, docs[0].Body, 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		var lsm *core.ResultRecord
		for i := range results {
			if results[i].GID == "lsm" {
				lsm = &results[i]
			}
		}
		require.NotNil(t, lsm)
		assert.InDelta(t, 1.0, lsm.Scores.Vector, 1e-3)
	})

	t.Run("entity mention boosts score", func(t *testing.T) {
		results, err := repo.SearchHybrid(ctx, "grace hopper languages", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		assert.Equal(t, "hopper", results[0].GID)
		assert.Equal(t, 1.0, results[0].Scores.Entity)
	})

	t.Run("final is the weighted sum", func(t *testing.T) {
		results, err := repo.SearchHybrid(ctx, "grace hopper languages", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		top := results[0]
		want := 0.5*top.Scores.FTS + 0.35*top.Scores.Vector + 0.15*top.Scores.Entity
		assert.InDelta(t, want, top.Scores.Final, 1e-9)
	})

	t.Run("results ordered by final score", func(t *testing.T) {
		results, err := repo.SearchHybrid(ctx, "grace hopper sorted runs", 10)
		require.NoError(t, err)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Scores.Final, results[i].Scores.Final)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		results, err := repo.SearchHybrid(ctx, "", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSearchHybridNoEmbedder(t *testing.T) {
	repo, backend, err := NewMemoryStore()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = repo.AddDocuments(ctx, &core.Document{GID: "doc", Body: "plain lexical text"})
	require.NoError(t, err)

	// Without an embedder the vector component is silently zero
	results, err := repo.SearchHybrid(ctx, "lexical", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Scores.Vector)
	assert.Greater(t, results[0].Scores.FTS, 0.0)
}
