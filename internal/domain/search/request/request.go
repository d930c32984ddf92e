package request

import (
	"fmt"

	"github.com/kshdotdev/sift/internal/domain"
	"github.com/kshdotdev/sift/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	// DefaultMinQueryLength is the minimum query length when none is configured.
	DefaultMinQueryLength = 2
	DefaultPerPage        = 20
	MaxPerPage            = 100
)

// Request is a validated, immutable search query.
type Request struct {
	query      string
	fields     []string
	searchMode mode.Mode
	highlight  bool
	minScore   float64
	page       int
	perPage    int
}

// New validates and normalizes search parameters.
// Defaults: mode=any, page=1, perPage=20. An empty fields list means
// "all configured fields". minScore is clamped to [0,1], never rejected.
// minQueryLength <= 0 falls back to DefaultMinQueryLength.
func New(
	query string,
	fields []string,
	m mode.Mode,
	highlight bool,
	minScore float64,
	page, perPage int,
	minQueryLength int,
) (Request, error) {
	if minQueryLength <= 0 {
		minQueryLength = DefaultMinQueryLength
	}
	if len(query) < minQueryLength {
		return Request{}, fmt.Errorf("%w: minimum length is %d", domain.ErrQueryTooShort, minQueryLength)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Any
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if minScore < 0 {
		minScore = 0
	}
	if minScore > 1 {
		minScore = 1
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Request{
		query:      query,
		fields:     cloneStrings(fields),
		searchMode: m,
		highlight:  highlight,
		minScore:   minScore,
		page:       page,
		perPage:    perPage,
	}, nil
}

// Query returns the raw search query text.
func (r *Request) Query() string { return r.query }

// Fields returns the requested field restriction (empty = all configured).
func (r *Request) Fields() []string { return r.fields }

// Mode returns the matching policy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Highlight reports whether highlighted snippets were requested.
func (r *Request) Highlight() bool { return r.highlight }

// MinScore returns the minimum relevance threshold in [0,1].
func (r *Request) MinScore() float64 { return r.minScore }

// Page returns the 1-based result page.
func (r *Request) Page() int { return r.page }

// PerPage returns the page size.
func (r *Request) PerPage() int { return r.perPage }

// Offset returns the start index of the requested page.
func (r *Request) Offset() int { return (r.page - 1) * r.perPage }

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
