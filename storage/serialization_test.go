package storage

import (
	"testing"
	"time"

	"github.com/poiesic/quaero/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		doc  *core.Document
	}{
		{
			"full document",
			&core.Document{
				GID:         "doc-1",
				PageNo:      7,
				Title:       "Storage Engines",
				Body:        "Log-structured merge trees favor writes.",
				EntityType:  "topic",
				EntityValue: "storage",
				Links:       []string{"doc-2", "doc-3"},
				Vector:      []float32{0.25, -0.5, 1.0},
				InsertedAt:  now,
				UpdatedAt:   now,
			},
		},
		{
			"minimal document",
			&core.Document{
				GID:        "doc-2",
				Body:       "body only",
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			"no vector",
			&core.Document{
				GID:        "doc-3",
				Title:      "title",
				Body:       "body",
				Links:      nil,
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)

			assert.Equal(t, tt.doc.GID, decoded.GID)
			assert.Equal(t, tt.doc.PageNo, decoded.PageNo)
			assert.Equal(t, tt.doc.Title, decoded.Title)
			assert.Equal(t, tt.doc.Body, decoded.Body)
			assert.Equal(t, tt.doc.EntityType, decoded.EntityType)
			assert.Equal(t, tt.doc.EntityValue, decoded.EntityValue)
			assert.Equal(t, tt.doc.Links, decoded.Links)
			assert.Equal(t, tt.doc.Vector, decoded.Vector)
			assert.True(t, tt.doc.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.doc.UpdatedAt.Equal(decoded.UpdatedAt))
		})
	}
}

func TestUnmarshalDocument_Corrupt(t *testing.T) {
	_, err := UnmarshalDocument([]byte{0xFF, 0x01, 0x02})
	assert.Error(t, err)
}

func TestMarshalUnmarshalRetrievalLogEntry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	entry := &core.RetrievalLogEntry{
		Query:       "merge trees",
		Mode:        core.ModeHybrid,
		ResultCount: 12,
		ElapsedMs:   37,
		Timestamp:   now,
		Results: []core.RetrievalResult{
			{GID: "doc-1", Title: "Storage Engines", Score: 0.94},
			{GID: "doc-2", Title: "LSM Trees", Score: 0.71},
		},
	}

	data := MarshalRetrievalLogEntry(entry)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalRetrievalLogEntry(data)
	require.NoError(t, err)

	assert.Equal(t, entry.Query, decoded.Query)
	assert.Equal(t, entry.Mode, decoded.Mode)
	assert.Equal(t, entry.ResultCount, decoded.ResultCount)
	assert.Equal(t, entry.ElapsedMs, decoded.ElapsedMs)
	assert.True(t, entry.Timestamp.Equal(decoded.Timestamp))
	assert.Equal(t, entry.Results, decoded.Results)
}

func TestMarshalUnmarshalHistory(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		queries := []string{"latest", "older", "oldest"}

		data := MarshalHistory(queries)
		require.NotEmpty(t, data)

		decoded, err := UnmarshalHistory(data)
		require.NoError(t, err)
		assert.Equal(t, queries, decoded)
	})

	t.Run("empty history", func(t *testing.T) {
		data := MarshalHistory(nil)
		decoded, err := UnmarshalHistory(data)
		require.NoError(t, err)
		assert.Empty(t, decoded)
	})

	t.Run("corrupt data", func(t *testing.T) {
		_, err := UnmarshalHistory([]byte{0x09, 0x41})
		assert.Error(t, err)
	})
}
