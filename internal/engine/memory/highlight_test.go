package memory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshdotdev/sift/internal/domain/search/field"
	"github.com/kshdotdev/sift/internal/domain/search/mode"
)

// stripMarkup removes markers and ellipses, leaving the snippet's
// source text for length assertions.
func stripMarkup(s string, opts HighlightOptions) string {
	s = strings.ReplaceAll(s, opts.MarkerPre, "")
	s = strings.ReplaceAll(s, opts.MarkerPost, "")
	return strings.ReplaceAll(s, ellipsis, "")
}

func TestHighlight_WrapsOccurrences(t *testing.T) {
	got := Highlight("Cat lover", Tokenize("cat", mode.Any), field.Text, HighlightOptions{})
	assert.Equal(t, []string{"<em>Cat</em> lover"}, got)
}

func TestHighlight_MultipleTokensOneSnippet(t *testing.T) {
	got := Highlight("cat and dog", Tokenize("cat dog", mode.Any), field.Text, HighlightOptions{})
	assert.Equal(t, []string{"<em>cat</em> and <em>dog</em>"}, got)
}

func TestHighlight_OverlappingOccurrencesMerge(t *testing.T) {
	got := Highlight("aaa", []string{"aa"}, field.Text, HighlightOptions{})
	assert.Equal(t, []string{"<em>aaa</em>"}, got)
}

func TestHighlight_PhraseMode(t *testing.T) {
	got := Highlight("Welcome to New York City", Tokenize("new york", mode.Phrase), field.Text, HighlightOptions{})
	assert.Equal(t, []string{"Welcome to <em>New York</em> City"}, got)
}

func TestHighlight_WindowTruncation(t *testing.T) {
	opts := HighlightOptions{MaxSnippetLen: 20}
	value := "The quick brown fox jumps over the lazy dog"

	got := Highlight(value, Tokenize("fox", mode.Any), field.Text, opts)
	require.Len(t, got, 1)

	snippet := got[0]
	assert.Contains(t, snippet, "<em>fox</em>")
	assert.True(t, strings.HasPrefix(snippet, ellipsis), "clipped start needs an ellipsis: %q", snippet)
	assert.True(t, strings.HasSuffix(snippet, ellipsis), "clipped end needs an ellipsis: %q", snippet)
	assert.LessOrEqual(t, len(stripMarkup(snippet, opts.withDefaults())), 20)
}

func TestHighlight_DistantOccurrencesSeparateSnippets(t *testing.T) {
	opts := HighlightOptions{MaxSnippetLen: 16}
	value := "cat" + strings.Repeat(" filler", 10) + " cat"

	got := Highlight(value, Tokenize("cat", mode.Any), field.Text, opts)
	require.Len(t, got, 2)
	for _, snippet := range got {
		assert.Contains(t, snippet, "<em>cat</em>")
		assert.LessOrEqual(t, len(stripMarkup(snippet, opts.withDefaults())), 16)
	}
}

func TestHighlight_ArrayPerElement(t *testing.T) {
	value := []any{"red cat", "dog", "cat tower"}
	got := Highlight(value, Tokenize("cat", mode.Any), field.Array, HighlightOptions{})
	assert.Equal(t, []string{"red <em>cat</em>", "<em>cat</em> tower"}, got)
}

func TestHighlight_KeywordWholeValue(t *testing.T) {
	got := Highlight("ABC-1", Tokenize("abc-1", mode.Any), field.Keyword, HighlightOptions{})
	assert.Equal(t, []string{"<em>ABC-1</em>"}, got)

	// A keyword value that only matches on substring yields nothing.
	got = Highlight("ABC-123", Tokenize("abc-1", mode.Any), field.Keyword, HighlightOptions{})
	assert.Empty(t, got)
}

func TestHighlight_PreservesOriginalCase(t *testing.T) {
	got := Highlight("CAT lover", Tokenize("cat", mode.Any), field.Text, HighlightOptions{})
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "<em>CAT</em>")
}

func TestHighlight_NonASCII(t *testing.T) {
	got := Highlight("Über Café", Tokenize("café", mode.Any), field.Text, HighlightOptions{})
	assert.Equal(t, []string{"Über <em>Café</em>"}, got)
}

func TestHighlight_CustomMarkers(t *testing.T) {
	opts := HighlightOptions{MarkerPre: "**", MarkerPost: "**"}
	got := Highlight("a cat", Tokenize("cat", mode.Any), field.Text, opts)
	assert.Equal(t, []string{"a **cat**"}, got)
}

func TestHighlight_NoTokens(t *testing.T) {
	assert.Empty(t, Highlight("anything", nil, field.Text, HighlightOptions{}))
	assert.Empty(t, Highlight(nil, []string{"cat"}, field.Text, HighlightOptions{}))
}
