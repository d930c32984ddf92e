package sift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kshdotdev/sift/internal/domain"
	"github.com/kshdotdev/sift/internal/domain/collection/schema"
	"github.com/kshdotdev/sift/internal/domain/search/field"
)

// CollectionService manages collections.
type CollectionService struct {
	svc collectionUseCase
	obs *observer
}

// Create creates a new collection.
func (s *CollectionService) Create(
	ctx context.Context, name string, opts ...CollectionOption,
) (_ CollectionInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("collection.create", start, err) }()

	cfg := &collectionConfig{}
	for _, o := range opts {
		o.applyCollection(cfg)
	}

	fields, err := toInternalFields(cfg.fields)
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("create collection: %w", err)
	}

	col, err := s.svc.Create(ctx, name, fields, toInternalSpec(cfg))
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("create collection: %w", err)
	}
	return fromInternalCollection(col), nil
}

// Ensure creates a collection if it does not exist.
// If it already exists, returns its info.
func (s *CollectionService) Ensure(
	ctx context.Context, name string, opts ...CollectionOption,
) (_ CollectionInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("collection.ensure", start, err) }()

	cfg := &collectionConfig{}
	for _, o := range opts {
		o.applyCollection(cfg)
	}

	fields, err := toInternalFields(cfg.fields)
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("ensure collection: %w", err)
	}

	col, err := s.svc.Create(ctx, name, fields, toInternalSpec(cfg))
	if err == nil {
		return fromInternalCollection(col), nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return CollectionInfo{}, fmt.Errorf("ensure collection: %w", err)
	}

	existing, err := s.svc.Get(ctx, name)
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("ensure collection: %w", err)
	}
	return fromInternalCollection(existing), nil
}

// Get retrieves collection metadata by name.
func (s *CollectionService) Get(
	ctx context.Context, name string,
) (_ CollectionInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("collection.get", start, err) }()

	col, err := s.svc.Get(ctx, name)
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("get collection: %w", err)
	}
	return fromInternalCollection(col), nil
}

// List returns all collections ordered by creation time.
func (s *CollectionService) List(ctx context.Context) (_ []CollectionInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("collection.list", start, err) }()

	cols, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	out := make([]CollectionInfo, len(cols))
	for i, c := range cols {
		out[i] = fromInternalCollection(c)
	}
	return out, nil
}

// Delete removes a collection with all of its records.
func (s *CollectionService) Delete(
	ctx context.Context, name string,
) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("collection.delete", start, err) }()

	if err = s.svc.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

func toInternalFields(fields []FieldInfo) ([]schema.Field, error) {
	out := make([]schema.Field, len(fields))
	for i, f := range fields {
		var err error
		out[i], err = schema.New(f.Name, schema.Type(f.Type))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return out, nil
}

func toInternalSpec(cfg *collectionConfig) field.Spec {
	spec := field.Spec{
		Fields:  cfg.searchFields,
		Weights: cfg.weights,
	}
	if len(cfg.explicit) > 0 {
		spec.Explicit = make(map[string]field.Definition, len(cfg.explicit))
		for name, def := range cfg.explicit {
			spec.Explicit[name] = field.Definition{
				Weight: def.Weight,
				Kind:   field.Kind(def.Kind),
			}
		}
	}
	return spec
}
