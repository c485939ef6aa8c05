package badger

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeAndFilter(t *testing.T) {
	tokens := tokenizeAndFilter("The LSM-tree, buffered in memory!")
	assert.Equal(t, []string{"lsm-tree", "buffered", "memory"}, tokens)

	assert.Empty(t, tokenizeAndFilter("the a an"))
	assert.Empty(t, tokenizeAndFilter(""))
}

func TestMakeSnippetHighlightsMatch(t *testing.T) {
	body := "An LSM tree buffers writes in memory and flushes them as sorted runs."
	snippet := makeSnippet(body, []string{"sorted"}, snippetWindow)
	assert.Contains(t, snippet, "<b>sorted</b>")
}

func TestMakeSnippetRuneBoundaries(t *testing.T) {
	// Multi-byte runes on both sides of the window must not be cut
	// mid-sequence.
	body := strings.Repeat("é", 20) + "match" + strings.Repeat("日", 20)

	snippet := makeSnippet(body, []string{"match"}, 14)
	assert.True(t, utf8.ValidString(snippet))
	assert.Contains(t, snippet, "<b>match</b>")

	// No-match truncation clamps to a rune boundary too
	long := strings.Repeat("日", 50)
	truncated := makeSnippet(long, []string{"zzz"}, 100)
	assert.True(t, utf8.ValidString(truncated))
	assert.LessOrEqual(t, len(truncated), 100)
}
