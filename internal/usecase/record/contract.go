package record

import (
	"context"

	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	domrec "github.com/kshdotdev/sift/internal/domain/record"
)

// Repository defines the storage contract for records.
type Repository interface {
	// Upsert stores a record. Returns true if created, false if updated.
	Upsert(ctx context.Context, collectionName string, rec domrec.Record) (bool, error)
	Get(ctx context.Context, collectionName, id string) (domrec.Record, error)
	Delete(ctx context.Context, collectionName, id string) error
	// List returns one page of records in deterministic id order plus
	// the total record count.
	List(ctx context.Context, collectionName string, page, perPage int) ([]domrec.Record, int, error)
}

// CollectionReader reads collections for schema validation.
type CollectionReader interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
}

// Indexer keeps an external full-text index in sync with record
// mutations. The in-memory engine needs none; the bleve engine does.
type Indexer interface {
	Index(ctx context.Context, col domcol.Collection, rec domrec.Record) error
	Remove(ctx context.Context, collectionName, id string) error
}
