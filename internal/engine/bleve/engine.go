// Package bleve implements the search capability on top of an
// in-memory bleve full-text index. Unlike the default in-memory
// scorer it matches analyzed terms rather than raw substrings, and
// its scores are normalized against the best hit of each search.
// The index is kept in sync by the record use case through the
// Indexer contract and rebuilt lazily after a restart.
package bleve

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/record"
	"github.com/kshdotdev/sift/internal/domain/search/field"
	"github.com/kshdotdev/sift/internal/domain/search/mode"
	"github.com/kshdotdev/sift/internal/domain/search/request"
	"github.com/kshdotdev/sift/internal/domain/search/result"
	"github.com/kshdotdev/sift/internal/engine/memory"
)

// RecordLister supplies the records of a collection, used both to
// rebuild an index lazily and to hydrate search hits.
type RecordLister interface {
	ListAll(ctx context.Context, collectionName string) ([]record.Record, error)
}

// Options configure snippet generation for highlighted hits.
type Options struct {
	MaxSnippetLen int
	MarkerPre     string
	MarkerPost    string
}

// Engine ranks records with a per-collection in-memory bleve index.
type Engine struct {
	records RecordLister
	opts    memory.HighlightOptions

	mu      sync.RWMutex
	indexes map[string]bleve.Index
}

// New creates a bleve-backed search engine.
func New(records RecordLister, opts Options) *Engine {
	return &Engine{
		records: records,
		opts: memory.HighlightOptions{
			MaxSnippetLen: opts.MaxSnippetLen,
			MarkerPre:     opts.MarkerPre,
			MarkerPost:    opts.MarkerPost,
		},
		indexes: make(map[string]bleve.Index),
	}
}

// Name labels the engine in metrics.
func (e *Engine) Name() string { return "bleve" }

// Index adds or replaces a record in the collection's index.
func (e *Engine) Index(ctx context.Context, col collection.Collection, rec record.Record) error {
	idx, err := e.indexFor(ctx, col)
	if err != nil {
		return err
	}
	if err := idx.Index(rec.ID(), indexDoc(col.SearchConfig(), rec)); err != nil {
		return fmt.Errorf("index record %q: %w", rec.ID(), err)
	}
	return nil
}

// Remove deletes a record from the collection's index. Removing from
// a collection that was never indexed is a no-op.
func (e *Engine) Remove(_ context.Context, collectionName, id string) error {
	e.mu.RLock()
	idx, ok := e.indexes[collectionName]
	e.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := idx.Delete(id); err != nil {
		return fmt.Errorf("remove record %q from index: %w", id, err)
	}
	return nil
}

// Search queries the collection's index and hydrates the hits back
// into full records. Scores are bleve's tf-idf scores divided by the
// best score of the result set, so the top hit always lands at 1.0
// and minScore filters relative to it.
func (e *Engine) Search(
	ctx context.Context, col collection.Collection, req *request.Request,
) ([]result.Match, error) {
	cfg := col.SearchConfig().Restrict(req.Fields())
	if cfg.IsEmpty() {
		return nil, nil
	}

	idx, err := e.indexFor(ctx, col)
	if err != nil {
		return nil, err
	}

	count, err := idx.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count indexed records: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	sreq := bleve.NewSearchRequestOptions(buildQuery(req.Query(), req.Mode(), cfg), int(count), 0, false)
	sreq.IncludeLocations = true

	res, err := idx.SearchInContext(ctx, sreq)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}

	byID, err := e.recordsByID(ctx, col.Name())
	if err != nil {
		return nil, err
	}

	tokens := memory.Tokenize(req.Query(), req.Mode())

	matches := make([]result.Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		rec, ok := byID[hit.ID]
		if !ok {
			// Index is ahead of storage; skip the stale hit.
			continue
		}

		score := hit.Score
		if res.MaxScore > 0 {
			score = hit.Score / res.MaxScore
		}
		if score > 1 {
			score = 1
		}
		if score < req.MinScore() {
			continue
		}

		matchedFields := matchedInOrder(cfg, hit.Locations)
		if len(matchedFields) == 0 {
			continue
		}

		var highlights map[string][]string
		if req.Highlight() {
			highlights = make(map[string][]string, len(matchedFields))
			for _, name := range matchedFields {
				f, _ := cfg.ByName(name)
				v, _ := rec.Field(name)
				if frags := memory.Highlight(v, tokens, f.MatchKind(), e.opts); len(frags) > 0 {
					highlights[name] = frags
				}
			}
		}

		matches = append(matches, result.New(rec, score, matchedFields, highlights))
	}
	return matches, nil
}

// indexFor returns the collection's index, building it from storage
// on first use.
func (e *Engine) indexFor(ctx context.Context, col collection.Collection) (bleve.Index, error) {
	e.mu.RLock()
	idx, ok := e.indexes[col.Name()]
	e.mu.RUnlock()
	if ok {
		return idx, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if idx, ok := e.indexes[col.Name()]; ok {
		return idx, nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index for %q: %w", col.Name(), err)
	}

	recs, err := e.records.ListAll(ctx, col.Name())
	if err != nil {
		return nil, fmt.Errorf("load records for index %q: %w", col.Name(), err)
	}
	cfg := col.SearchConfig()
	for _, rec := range recs {
		if err := idx.Index(rec.ID(), indexDoc(cfg, rec)); err != nil {
			return nil, fmt.Errorf("index record %q: %w", rec.ID(), err)
		}
	}

	e.indexes[col.Name()] = idx
	return idx, nil
}

func (e *Engine) recordsByID(ctx context.Context, collectionName string) (map[string]record.Record, error) {
	recs, err := e.records.ListAll(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	byID := make(map[string]record.Record, len(recs))
	for _, rec := range recs {
		byID[rec.ID()] = rec
	}
	return byID, nil
}

// indexDoc projects a record onto its searchable fields. Array values
// stay as string slices so bleve indexes every element; everything
// else is flattened to its text form.
func indexDoc(cfg field.Config, rec record.Record) map[string]any {
	doc := make(map[string]any, cfg.Len())
	for _, f := range cfg.Fields() {
		v, ok := rec.Field(f.Name())
		if !ok || v == nil {
			continue
		}
		if elems, isArray := v.([]any); isArray && f.MatchKind() == field.Array {
			texts := make([]string, 0, len(elems))
			for _, el := range elems {
				if el == nil {
					continue
				}
				texts = append(texts, text(el))
			}
			doc[f.Name()] = texts
			continue
		}
		doc[f.Name()] = text(v)
	}
	return doc
}

// buildQuery maps a search mode onto bleve query types: any becomes
// a plain match query, all a match query requiring every term, and
// phrase a match-phrase query. Each searchable field contributes one
// boosted branch of a disjunction.
func buildQuery(text string, m mode.Mode, cfg field.Config) query.Query {
	branches := make([]query.Query, 0, cfg.Len())
	for _, f := range cfg.Fields() {
		var q query.Query
		switch m {
		case mode.All:
			mq := bleve.NewMatchQuery(text)
			mq.SetField(f.Name())
			mq.SetOperator(query.MatchQueryOperatorAnd)
			mq.SetBoost(f.Weight())
			q = mq
		case mode.Phrase:
			pq := bleve.NewMatchPhraseQuery(text)
			pq.SetField(f.Name())
			pq.SetBoost(f.Weight())
			q = pq
		default:
			mq := bleve.NewMatchQuery(text)
			mq.SetField(f.Name())
			mq.SetBoost(f.Weight())
			q = mq
		}
		branches = append(branches, q)
	}
	if len(branches) == 1 {
		return branches[0]
	}
	return query.NewDisjunctionQuery(branches)
}

// matchedInOrder filters bleve's matched-field set down to the
// searchable configuration, preserving configuration order.
func matchedInOrder(cfg field.Config, locations search.FieldTermLocationMap) []string {
	names := make([]string, 0, len(locations))
	for _, f := range cfg.Fields() {
		if _, ok := locations[f.Name()]; ok {
			names = append(names, f.Name())
		}
	}
	return names
}

// text renders a field value for indexing. Matching the in-memory
// scorer, numbers and booleans are indexed as their string form.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
