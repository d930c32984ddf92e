package search

import (
	"context"

	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/search/request"
	"github.com/kshdotdev/sift/internal/domain/search/result"
)

// Engine is the search capability implemented per backend. The
// in-memory scorer is the default; an index-backed engine (bleve) can
// take its place. Matches come back sorted by score descending and
// already filtered by matched fields and minScore.
type Engine interface {
	Search(ctx context.Context, col domcol.Collection, req *request.Request) ([]result.Match, error)
	// Name labels the engine in metrics.
	Name() string
}

// CollectionReader reads collections for field configuration.
type CollectionReader interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
}
