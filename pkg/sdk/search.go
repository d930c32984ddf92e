package sift

import (
	"context"
	"fmt"
	"time"

	"github.com/kshdotdev/sift/internal/domain/search/mode"
	"github.com/kshdotdev/sift/internal/domain/search/request"
)

// SearchService executes relevance queries against a single collection.
type SearchService struct {
	collection     string
	svc            searchUseCase
	minQueryLength int
	obs            *observer
}

// Query ranks the collection's records against q.
func (s *SearchService) Query(
	ctx context.Context, q string, opts SearchOptions,
) (_ SearchPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.query", start, err) }()

	req, err := request.New(
		q,
		opts.Fields,
		mode.Mode(opts.Mode),
		opts.Highlight,
		opts.MinScore,
		opts.Page,
		opts.PerPage,
		s.minQueryLength,
	)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	resp, err := s.svc.Search(ctx, s.collection, &req)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	results := make([]SearchResult, len(resp.Matches))
	for i, m := range resp.Matches {
		results[i] = fromInternalMatch(m)
	}
	return SearchPage{
		Results:        results,
		TotalCount:     resp.TotalCount,
		TotalPages:     resp.TotalPages,
		Page:           resp.Page,
		PerPage:        resp.PerPage,
		Query:          resp.Query,
		SearchedFields: resp.SearchedFields,
	}, nil
}
