package search

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kshdotdev/sift/internal/domain/search/request"
	"github.com/kshdotdev/sift/internal/domain/search/result"
)

// Response is one page of ranked matches plus the bookkeeping the
// response envelope needs. TotalCount reflects the post-filter match
// count, not the candidate count.
type Response struct {
	Matches        []result.Match
	TotalCount     int
	TotalPages     int
	Page           int
	PerPage        int
	Query          string
	SearchedFields []string
}

// Service is the endpoint-facing search orchestrator. It resolves the
// collection, dispatches to the configured engine, and paginates the
// ranked matches. Request validation (query length, mode, clamping)
// already happened in request.New.
type Service struct {
	colls    CollectionReader
	engine   Engine
	searches *prometheus.CounterVec
	zeroHits *prometheus.CounterVec
}

// New creates a search service.
func New(colls CollectionReader, engine Engine) *Service {
	return &Service{colls: colls, engine: engine}
}

// WithMetrics attaches search counters (searches by mode/engine and
// zero-result searches).
func (s *Service) WithMetrics(searches, zeroHits *prometheus.CounterVec) *Service {
	s.searches = searches
	s.zeroHits = zeroHits
	return s
}

// Search runs a relevance search over one collection.
func (s *Service) Search(ctx context.Context, collectionName string, req *request.Request) (*Response, error) {
	col, err := s.colls.Get(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	matches, err := s.engine.Search(ctx, col, req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collectionName, err)
	}

	if s.searches != nil {
		s.searches.WithLabelValues(string(req.Mode()), s.engine.Name()).Inc()
	}
	if s.zeroHits != nil && len(matches) == 0 {
		s.zeroHits.WithLabelValues(string(req.Mode()), s.engine.Name()).Inc()
	}

	total := len(matches)
	page := paginate(matches, req.Offset(), req.PerPage())

	return &Response{
		Matches:        page,
		TotalCount:     total,
		TotalPages:     (total + req.PerPage() - 1) / req.PerPage(),
		Page:           req.Page(),
		PerPage:        req.PerPage(),
		Query:          req.Query(),
		SearchedFields: col.SearchConfig().Restrict(req.Fields()).Names(),
	}, nil
}

func paginate(matches []result.Match, offset, limit int) []result.Match {
	if offset >= len(matches) {
		return nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end]
}
