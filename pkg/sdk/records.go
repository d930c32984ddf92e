package sift

import (
	"context"
	"fmt"
	"time"
)

// RecordService manages records within a single collection.
type RecordService struct {
	collection string
	svc        recordUseCase
	obs        *observer
}

// Upsert creates or updates a record. Returns the stored record and
// true if it was created.
func (s *RecordService) Upsert(
	ctx context.Context, id string, data map[string]any,
) (_ Record, created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("record.upsert", start, err) }()

	rec, created, err := s.svc.Upsert(ctx, s.collection, id, data)
	if err != nil {
		return Record{}, false, fmt.Errorf("upsert record: %w", err)
	}
	return fromInternalRecord(rec), created, nil
}

// Create stores a record under a freshly generated id.
func (s *RecordService) Create(
	ctx context.Context, data map[string]any,
) (_ Record, err error) {
	start := time.Now()
	defer func() { s.obs.observe("record.create", start, err) }()

	rec, err := s.svc.Create(ctx, s.collection, data)
	if err != nil {
		return Record{}, fmt.Errorf("create record: %w", err)
	}
	return fromInternalRecord(rec), nil
}

// Get retrieves a record by id.
func (s *RecordService) Get(ctx context.Context, id string) (_ Record, err error) {
	start := time.Now()
	defer func() { s.obs.observe("record.get", start, err) }()

	rec, err := s.svc.Get(ctx, s.collection, id)
	if err != nil {
		return Record{}, fmt.Errorf("get record: %w", err)
	}
	return fromInternalRecord(rec), nil
}

// Delete removes a record by id.
func (s *RecordService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("record.delete", start, err) }()

	if err = s.svc.Delete(ctx, s.collection, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// List returns one page of records in deterministic id order.
// page and perPage of 0 use the defaults.
func (s *RecordService) List(
	ctx context.Context, page, perPage int,
) (_ RecordPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("record.list", start, err) }()

	recs, total, err := s.svc.List(ctx, s.collection, page, perPage)
	if err != nil {
		return RecordPage{}, fmt.Errorf("list records: %w", err)
	}
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = fromInternalRecord(r)
	}
	return RecordPage{Records: out, TotalCount: total}, nil
}
