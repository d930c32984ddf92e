package result

import "github.com/kshdotdev/sift/internal/domain/record"

// Match is a single scored search hit.
type Match struct {
	record        record.Record
	score         float64
	matchedFields []string
	highlights    map[string][]string
}

// New creates a search match.
func New(rec record.Record, score float64, matchedFields []string, highlights map[string][]string) Match {
	return Match{
		record:        rec,
		score:         score,
		matchedFields: matchedFields,
		highlights:    highlights,
	}
}

// Record returns the matched record.
func (m *Match) Record() record.Record { return m.record }

// Score returns the normalized relevance score in [0,1].
func (m *Match) Score() float64 { return m.score }

// MatchedFields returns the field names with at least one match,
// in field configuration order.
func (m *Match) MatchedFields() []string { return m.matchedFields }

// Highlights returns snippet fragments per matched field (nil when
// highlighting was not requested).
func (m *Match) Highlights() map[string][]string { return m.highlights }

// WithHighlights returns a copy with the given highlight map set.
func (m *Match) WithHighlights(h map[string][]string) Match {
	return Match{record: m.record, score: m.score, matchedFields: m.matchedFields, highlights: h}
}
