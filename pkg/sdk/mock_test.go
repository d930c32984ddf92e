package sift

import (
	"context"

	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/collection/schema"
	domrec "github.com/kshdotdev/sift/internal/domain/record"
	"github.com/kshdotdev/sift/internal/domain/search/field"
	"github.com/kshdotdev/sift/internal/domain/search/request"
	searchuc "github.com/kshdotdev/sift/internal/usecase/search"
)

// --- collectionUseCase mock ---

type mockCollectionUC struct {
	createFn func(ctx context.Context, name string, fields []schema.Field, spec field.Spec) (domcol.Collection, error)
	getFn    func(ctx context.Context, name string) (domcol.Collection, error)
	listFn   func(ctx context.Context) ([]domcol.Collection, error)
	deleteFn func(ctx context.Context, name string) error
}

func (m *mockCollectionUC) Create(
	ctx context.Context, name string, fields []schema.Field, spec field.Spec,
) (domcol.Collection, error) {
	return m.createFn(ctx, name, fields, spec)
}

func (m *mockCollectionUC) Get(ctx context.Context, name string) (domcol.Collection, error) {
	return m.getFn(ctx, name)
}

func (m *mockCollectionUC) List(ctx context.Context) ([]domcol.Collection, error) {
	return m.listFn(ctx)
}

func (m *mockCollectionUC) Delete(ctx context.Context, name string) error {
	return m.deleteFn(ctx, name)
}

// --- recordUseCase mock ---

type mockRecordUC struct {
	upsertFn func(ctx context.Context, col, id string, data map[string]any) (domrec.Record, bool, error)
	createFn func(ctx context.Context, col string, data map[string]any) (domrec.Record, error)
	getFn    func(ctx context.Context, col, id string) (domrec.Record, error)
	deleteFn func(ctx context.Context, col, id string) error
	listFn   func(ctx context.Context, col string, page, perPage int) ([]domrec.Record, int, error)
}

func (m *mockRecordUC) Upsert(
	ctx context.Context, col, id string, data map[string]any,
) (domrec.Record, bool, error) {
	return m.upsertFn(ctx, col, id, data)
}

func (m *mockRecordUC) Create(ctx context.Context, col string, data map[string]any) (domrec.Record, error) {
	return m.createFn(ctx, col, data)
}

func (m *mockRecordUC) Get(ctx context.Context, col, id string) (domrec.Record, error) {
	return m.getFn(ctx, col, id)
}

func (m *mockRecordUC) Delete(ctx context.Context, col, id string) error {
	return m.deleteFn(ctx, col, id)
}

func (m *mockRecordUC) List(
	ctx context.Context, col string, page, perPage int,
) ([]domrec.Record, int, error) {
	return m.listFn(ctx, col, page, perPage)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, col string, req *request.Request) (*searchuc.Response, error)
}

func (m *mockSearchUC) Search(
	ctx context.Context, col string, req *request.Request,
) (*searchuc.Response, error) {
	return m.searchFn(ctx, col, req)
}
