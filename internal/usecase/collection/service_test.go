package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/kshdotdev/sift/internal/domain"
	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/collection/schema"
	"github.com/kshdotdev/sift/internal/domain/search/field"
)

// --- Mocks ---

type mockRepo struct {
	createErr error
	getCol    domcol.Collection
	getErr    error
	listCols  []domcol.Collection
	listErr   error
	deleteErr error
	created   []string
}

func (m *mockRepo) Create(_ context.Context, col domcol.Collection) error {
	m.created = append(m.created, col.Name())
	return m.createErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (domcol.Collection, error) {
	return m.getCol, m.getErr
}

func (m *mockRepo) List(_ context.Context) ([]domcol.Collection, error) {
	return m.listCols, m.listErr
}

func (m *mockRepo) Delete(_ context.Context, _ string) error { return m.deleteErr }

// --- Tests ---

func TestCreate_ResolvesSearchConfig(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	title, err := schema.New("title", schema.String)
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}

	col, err := svc.Create(context.Background(), "posts", []schema.Field{title}, field.Spec{
		Fields:  []string{"title"},
		Weights: map[string]float64{"title": 2.0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 || repo.created[0] != "posts" {
		t.Errorf("expected posts stored, got %v", repo.created)
	}
	f, ok := col.SearchConfig().ByName("title")
	if !ok {
		t.Fatal("expected title in search config")
	}
	if f.Weight() != 2.0 {
		t.Errorf("expected weight 2.0, got %v", f.Weight())
	}
}

func TestCreate_InvalidNameWrapsErrInvalidSchema(t *testing.T) {
	svc := New(&mockRepo{})

	_, err := svc.Create(context.Background(), "no spaces allowed", nil, field.Spec{})
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestCreate_RepoConflictPropagates(t *testing.T) {
	svc := New(&mockRepo{createErr: domain.ErrAlreadyExists})

	_, err := svc.Create(context.Background(), "posts", nil, field.Spec{})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet_NotFoundPropagates(t *testing.T) {
	svc := New(&mockRepo{getErr: domain.ErrNotFound})

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_ReturnsAll(t *testing.T) {
	cols := []domcol.Collection{
		domcol.Reconstruct("a", nil, field.Resolve(field.Spec{}, nil), 0, 1),
		domcol.Reconstruct("b", nil, field.Resolve(field.Spec{}, nil), 0, 1),
	}
	svc := New(&mockRepo{listCols: cols})

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 collections, got %d", len(got))
	}
}

func TestDelete_ErrorPropagates(t *testing.T) {
	svc := New(&mockRepo{deleteErr: domain.ErrNotFound})

	err := svc.Delete(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
