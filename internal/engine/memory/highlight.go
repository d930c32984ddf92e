package memory

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kshdotdev/sift/internal/domain/search/field"
)

// Snippet defaults.
const (
	DefaultMaxSnippetLen = 160
	DefaultMarkerPre     = "<em>"
	DefaultMarkerPost    = "</em>"

	ellipsis = "…"
)

// HighlightOptions control snippet generation. MaxSnippetLen bounds the
// window of source text per snippet; markers and the ellipsis are added
// on top.
type HighlightOptions struct {
	MaxSnippetLen int
	MarkerPre     string
	MarkerPost    string
}

func (o HighlightOptions) withDefaults() HighlightOptions {
	if o.MaxSnippetLen <= 0 {
		o.MaxSnippetLen = DefaultMaxSnippetLen
	}
	if o.MarkerPre == "" {
		o.MarkerPre = DefaultMarkerPre
	}
	if o.MarkerPost == "" {
		o.MarkerPost = DefaultMarkerPost
	}
	return o
}

// Highlight produces snippet fragments for a field value already known
// to match the query (per Score). Every case-insensitive occurrence of
// every token is wrapped in markers; overlapping or touching occurrences
// merge into one window centered on the match and truncated to
// MaxSnippetLen, with an ellipsis where the window clips the value.
// Array kind emits one snippet list per matching element, concatenated
// in element order. Keyword kind matches span the whole value, so the
// entire value comes back as a single fully-wrapped snippet. Output
// ordering is deterministic: first occurrence first.
func Highlight(value any, tokens []string, kind field.Kind, opts HighlightOptions) []string {
	opts = opts.withDefaults()
	if len(tokens) == 0 || value == nil {
		return nil
	}

	if kind == field.Array {
		if elems, ok := value.([]any); ok {
			var out []string
			for _, e := range elems {
				if e == nil {
					continue
				}
				out = append(out, highlightValue(stringify(e), tokens, field.Text, opts)...)
			}
			return out
		}
	}

	return highlightValue(stringify(value), tokens, kind, opts)
}

func highlightValue(value string, tokens []string, kind field.Kind, opts HighlightOptions) []string {
	if value == "" {
		return nil
	}

	if kind == field.Keyword {
		lowered := strings.ToLower(value)
		for _, tok := range tokens {
			if lowered == tok {
				return []string{opts.MarkerPre + value + opts.MarkerPost}
			}
		}
		return nil
	}

	intervals := findOccurrences(value, tokens)
	if len(intervals) == 0 {
		return nil
	}
	return buildSnippets(value, intervals, opts)
}

// interval is a half-open byte range [start, end) in the original value.
type interval struct {
	start, end int
}

// findOccurrences locates every case-insensitive occurrence of every
// token, returning merged intervals in byte offsets of the original
// value, sorted by position.
func findOccurrences(value string, tokens []string) []interval {
	lowered, offs := foldWithOffsets(value)

	var ivs []interval
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		from := 0
		for {
			i := strings.Index(lowered[from:], tok)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(tok)
			ivs = append(ivs, interval{offs[start], offs[end]})
			from = start + 1
		}
	}
	return mergeIntervals(ivs)
}

// foldWithOffsets lower-cases a string rune-by-rune, tracking for every
// byte of the folded form the byte offset of the originating rune in
// the source. offs has len(folded)+1 entries; the final entry is
// len(source), so interval ends map cleanly.
func foldWithOffsets(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	offs := make([]int, 0, len(s)+1)
	for i, r := range s {
		lr := unicode.ToLower(r)
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], lr)
		for k := 0; k < n; k++ {
			offs = append(offs, i)
		}
		b.Write(buf[:n])
	}
	offs = append(offs, len(s))
	return b.String(), offs
}

// mergeIntervals sorts intervals and merges any that overlap or touch.
func mergeIntervals(ivs []interval) []interval {
	if len(ivs) <= 1 {
		return ivs
	}
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].start != ivs[j].start {
			return ivs[i].start < ivs[j].start
		}
		return ivs[i].end < ivs[j].end
	})
	merged := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// buildSnippets renders one snippet per window. A value that fits the
// limit whole becomes a single snippet covering every occurrence;
// otherwise each window is centered on its first interval and absorbs
// any later intervals that fit inside it.
func buildSnippets(value string, ivs []interval, opts HighlightOptions) []string {
	if len(value) <= opts.MaxSnippetLen {
		return []string{wrapRange(value, 0, len(value), ivs, opts, false, false)}
	}

	var out []string
	for i := 0; i < len(ivs); {
		start, end := window(value, ivs[i], opts.MaxSnippetLen)
		j := i + 1
		for j < len(ivs) && ivs[j].end <= end {
			j++
		}
		out = append(out, wrapRange(value, start, end, ivs[i:j], opts, start > 0, end < len(value)))
		i = j
	}
	return out
}

// window computes the snippet byte range centered on the interval,
// clamped to the value and snapped to rune boundaries.
func window(value string, iv interval, maxLen int) (int, int) {
	ivLen := iv.end - iv.start
	if ivLen >= maxLen {
		// The match alone fills the window; truncate it.
		return snapStart(value, iv.start), snapEnd(value, min(iv.start+maxLen, len(value)))
	}

	start := iv.start - (maxLen-ivLen)/2
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(value) {
		end = len(value)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}
	return snapStart(value, start), snapEnd(value, end)
}

// wrapRange renders value[start:end] with markers around each interval
// clipped to the range, plus ellipses where the range clips the value.
func wrapRange(value string, start, end int, ivs []interval, opts HighlightOptions, preCut, postCut bool) string {
	var b strings.Builder
	if preCut {
		b.WriteString(ellipsis)
	}
	pos := start
	for _, iv := range ivs {
		s := max(iv.start, start)
		e := min(iv.end, end)
		if s >= e || s < pos {
			continue
		}
		b.WriteString(value[pos:s])
		b.WriteString(opts.MarkerPre)
		b.WriteString(value[s:e])
		b.WriteString(opts.MarkerPost)
		pos = e
	}
	b.WriteString(value[pos:end])
	if postCut {
		b.WriteString(ellipsis)
	}
	return b.String()
}

func snapStart(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

func snapEnd(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
