package badger

import (
	"strings"
	"unicode/utf8"
)

// Stop words excluded from the term index and from query tokens
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		// Lowercase and trim punctuation
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))

		// Skip stop words and empty strings
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// termFrequencies counts occurrences of each filtered token in text.
func termFrequencies(text string) map[string]uint64 {
	tokens := tokenizeAndFilter(text)
	if len(tokens) == 0 {
		return nil
	}
	freqs := make(map[string]uint64, len(tokens))
	for _, tok := range tokens {
		freqs[tok]++
	}
	return freqs
}

// containsAllQueryWords checks if all query words (after filtering) appear in the document
func containsAllQueryWords(document, query string) bool {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return false
	}

	docWords := tokenizeAndFilter(document)
	docWordSet := make(map[string]bool, len(docWords))
	for _, word := range docWords {
		docWordSet[word] = true
	}

	for _, qWord := range queryWords {
		if !docWordSet[qWord] {
			return false
		}
	}

	return true
}

// makeSnippet extracts a window of body text around the first occurrence of
// any query token and wraps matched tokens in <b> markers. The markup is
// passed through to callers verbatim.
func makeSnippet(body string, tokens []string, window int) string {
	if body == "" || len(tokens) == 0 {
		return ""
	}

	lower := strings.ToLower(body)
	first := -1
	for _, tok := range tokens {
		if idx := strings.Index(lower, tok); idx >= 0 && (first < 0 || idx < first) {
			first = idx
		}
	}
	if first < 0 {
		if len(body) > window {
			return body[:runeFloor(body, window)]
		}
		return body
	}

	start := runeFloor(body, first-window/2)
	end := runeCeil(body, first+window/2)
	snippet := body[start:end]

	// Highlight each matched token once within the window
	for _, tok := range tokens {
		idx := strings.Index(strings.ToLower(snippet), tok)
		if idx < 0 {
			continue
		}
		snippet = snippet[:idx] + "<b>" + snippet[idx:idx+len(tok)] + "</b>" + snippet[idx+len(tok):]
	}
	return snippet
}

// runeFloor walks a byte offset back to the nearest rune boundary so the
// window never cuts a multi-byte rune in half.
func runeFloor(s string, i int) int {
	if i <= 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil walks a byte offset forward to the nearest rune boundary.
func runeCeil(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
