package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://embeddings.internal:8080/v1"),
		WithEmbeddingModel("text-embedding-3-small"),
	)
	assert.Equal(t, "http://embeddings.internal:8080/v1", cfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
}

func TestConfigValidate(t *testing.T) {
	t.Run("empty host", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("  "))
		assert.ErrorIs(t, cfg.Validate(), ErrEmptyEmbeddingHost)
	})

	t.Run("empty model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.ErrorIs(t, cfg.Validate(), ErrEmptyEmbeddingModel)
	})

	t.Run("normalizes trailing slash", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:11434/v1/"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("  http://localhost:11434/v1  "),
			WithEmbeddingModel("  embeddinggemma  "),
		)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	})
}
