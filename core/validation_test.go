package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	t.Run("valid modes", func(t *testing.T) {
		for _, tc := range []struct {
			input string
			want  Mode
		}{
			{"fts", ModeFTS},
			{"hybrid", ModeHybrid},
			{"graph", ModeGraph},
		} {
			mode, err := ParseMode(tc.input)
			require.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.want, mode)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := ParseMode("vector")
		assert.ErrorIs(t, err, ErrUnknownMode)
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := ParseMode("")
		assert.ErrorIs(t, err, ErrUnknownMode)
	})
}

func TestModeIsValid(t *testing.T) {
	assert.True(t, ModeFTS.IsValid())
	assert.True(t, ModeHybrid.IsValid())
	assert.True(t, ModeGraph.IsValid())
	assert.False(t, Mode("vector").IsValid())
	assert.False(t, Mode("").IsValid())
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc := &Document{Title: "Title", Body: "Body text"}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("body only", func(t *testing.T) {
		doc := &Document{Body: "Body text"}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("title only", func(t *testing.T) {
		doc := &Document{Title: "Title"}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("nil document", func(t *testing.T) {
		assert.ErrorIs(t, ValidateDocument(nil), ErrInvalidDocument)
	})

	t.Run("empty document", func(t *testing.T) {
		assert.ErrorIs(t, ValidateDocument(&Document{}), ErrEmptyDocument)
	})

	t.Run("negative page number", func(t *testing.T) {
		doc := &Document{Body: "text", PageNo: -1}
		assert.ErrorIs(t, ValidateDocument(doc), ErrNegativePageNo)
	})

	t.Run("self link", func(t *testing.T) {
		doc := &Document{GID: "abc", Body: "text", Links: []string{"abc"}}
		assert.ErrorIs(t, ValidateDocument(doc), ErrSelfLink)
	})
}

func TestGIDFromContent(t *testing.T) {
	a := GIDFromContent("some content")
	b := GIDFromContent("some content")
	c := GIDFromContent("other content")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestIsValidTimestamp(t *testing.T) {
	assert.True(t, IsValidTimestamp(time.Now()))
	assert.True(t, IsValidTimestamp(time.Now().Add(30*time.Second)))
	assert.False(t, IsValidTimestamp(time.Now().Add(time.Hour)))
}
