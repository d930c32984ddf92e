// Package memory implements the default in-memory relevance search
// engine: a single-pass, per-request scorer over already-fetched
// records, with no persistent index and no shared state. It is the
// fallback implementation of the search capability; backends with a
// native full-text index can replace it.
package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/record"
	"github.com/kshdotdev/sift/internal/domain/search/field"
	"github.com/kshdotdev/sift/internal/domain/search/request"
	"github.com/kshdotdev/sift/internal/domain/search/result"
)

// RecordLister supplies the candidate records for a collection,
// already filtered by any non-text predicates upstream.
type RecordLister interface {
	ListAll(ctx context.Context, collectionName string) ([]record.Record, error)
}

// Options configure snippet generation.
type Options struct {
	MaxSnippetLen int
	MarkerPre     string
	MarkerPost    string
}

// Engine ranks records with the in-memory scorer.
type Engine struct {
	records RecordLister
	opts    HighlightOptions
}

// New creates an in-memory search engine.
func New(records RecordLister, opts Options) *Engine {
	return &Engine{
		records: records,
		opts: HighlightOptions{
			MaxSnippetLen: opts.MaxSnippetLen,
			MarkerPre:     opts.MarkerPre,
			MarkerPost:    opts.MarkerPost,
		},
	}
}

// Name labels the engine in metrics.
func (e *Engine) Name() string { return "memory" }

// Search lists the collection's records and ranks them against the
// request. The searchable configuration is restricted to the requested
// fields; unknown names were already dropped by the restriction.
func (e *Engine) Search(
	ctx context.Context, col collection.Collection, req *request.Request,
) ([]result.Match, error) {
	recs, err := e.records.ListAll(ctx, col.Name())
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	cfg := col.SearchConfig().Restrict(req.Fields())
	return Rank(recs, req, cfg, e.opts), nil
}

// Rank is the pure scoring pipeline: tokenize the query, score every
// record, drop records with no matched field or a score below the
// threshold, and stable-sort by score descending (ties keep the
// original record order). Highlighting runs only for surviving
// records' matched fields.
func Rank(recs []record.Record, req *request.Request, cfg field.Config, opts HighlightOptions) []result.Match {
	tokens := Tokenize(req.Query(), req.Mode())
	if len(tokens) == 0 || cfg.IsEmpty() {
		return nil
	}

	matches := make([]result.Match, 0, len(recs))
	for _, rec := range recs {
		score, matchedFields := Score(rec, tokens, cfg, req.Mode())
		if len(matchedFields) == 0 || score < req.MinScore() {
			continue
		}

		var highlights map[string][]string
		if req.Highlight() {
			highlights = make(map[string][]string, len(matchedFields))
			for _, name := range matchedFields {
				f, ok := cfg.ByName(name)
				if !ok {
					continue
				}
				v, _ := rec.Field(name)
				if frags := Highlight(v, tokens, f.MatchKind(), opts); len(frags) > 0 {
					highlights[name] = frags
				}
			}
		}

		matches = append(matches, result.New(rec, score, matchedFields, highlights))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score() > matches[j].Score()
	})
	return matches
}
