package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kshdotdev/sift/internal/domain"
	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/collection/schema"
	domrec "github.com/kshdotdev/sift/internal/domain/record"
)

// Service handles record CRUD with schema validation.
type Service struct {
	repo            Repository
	colls           CollectionReader
	indexer         Indexer
	defaultPageSize int
	maxPageSize     int
}

// New creates a record service.
func New(repo Repository, colls CollectionReader) *Service {
	return &Service{
		repo:            repo,
		colls:           colls,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithIndexer attaches a full-text indexer notified on every mutation.
func (s *Service) WithIndexer(ix Indexer) *Service {
	s.indexer = ix
	return s
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Upsert validates the payload against the collection schema and stores
// the record. Returns the record and true if it was created.
func (s *Service) Upsert(
	ctx context.Context, collectionName, id string, data map[string]any,
) (domrec.Record, bool, error) {
	col, err := s.colls.Get(ctx, collectionName)
	if err != nil {
		return domrec.Record{}, false, fmt.Errorf("get collection: %w", err)
	}

	if err := validateData(data, col); err != nil {
		return domrec.Record{}, false, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}

	rec, err := domrec.New(id, data)
	if err != nil {
		return domrec.Record{}, false, fmt.Errorf("validate record: %w: %w", domain.ErrInvalidSchema, err)
	}

	created, err := s.repo.Upsert(ctx, collectionName, rec)
	if err != nil {
		return domrec.Record{}, false, fmt.Errorf("upsert record: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.Index(ctx, col, rec); err != nil {
			return domrec.Record{}, false, fmt.Errorf("index record: %w", err)
		}
	}

	return rec, created, nil
}

// Create stores a record under a freshly generated id.
func (s *Service) Create(
	ctx context.Context, collectionName string, data map[string]any,
) (domrec.Record, error) {
	rec, _, err := s.Upsert(ctx, collectionName, uuid.NewString(), data)
	return rec, err
}

// Get returns a record by id.
func (s *Service) Get(ctx context.Context, collectionName, id string) (domrec.Record, error) {
	if _, err := s.colls.Get(ctx, collectionName); err != nil {
		return domrec.Record{}, fmt.Errorf("get collection: %w", err)
	}
	rec, err := s.repo.Get(ctx, collectionName, id)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, collectionName, id string) error {
	if _, err := s.colls.Get(ctx, collectionName); err != nil {
		return fmt.Errorf("get collection: %w", err)
	}
	if err := s.repo.Delete(ctx, collectionName, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if s.indexer != nil {
		if err := s.indexer.Remove(ctx, collectionName, id); err != nil {
			return fmt.Errorf("deindex record: %w", err)
		}
	}
	return nil
}

// List returns one page of records and the total count.
func (s *Service) List(
	ctx context.Context, collectionName string, page, perPage int,
) ([]domrec.Record, int, error) {
	if _, err := s.colls.Get(ctx, collectionName); err != nil {
		return nil, 0, fmt.Errorf("get collection: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.defaultPageSize
	}
	if perPage > s.maxPageSize {
		perPage = s.maxPageSize
	}

	recs, total, err := s.repo.List(ctx, collectionName, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	return recs, total, nil
}

// validateData type-checks declared fields. Undeclared keys are stored
// untouched; they are simply never searchable. Null values are allowed
// for any declared field.
func validateData(data map[string]any, col domcol.Collection) error {
	for name, v := range data {
		if v == nil {
			continue
		}
		sf, ok := col.FieldByName(name)
		if !ok {
			continue
		}
		if err := checkType(v, sf.FieldType()); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

func checkType(v any, ft schema.Type) error {
	switch ft {
	case schema.String:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
	case schema.Number:
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("expected number, got %T", v)
		}
	case schema.Boolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", v)
		}
	case schema.Array:
		if _, ok := v.([]any); !ok {
			return fmt.Errorf("expected array, got %T", v)
		}
	}
	return nil
}
