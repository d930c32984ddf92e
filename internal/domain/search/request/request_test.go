package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kshdotdev/sift/internal/domain"
	"github.com/kshdotdev/sift/internal/domain/search/mode"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("cats", nil, "", false, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode() != mode.Any {
		t.Errorf("default mode = %q, want any", r.Mode())
	}
	if r.Page() != 1 || r.PerPage() != DefaultPerPage {
		t.Errorf("default pagination = %d/%d", r.Page(), r.PerPage())
	}
	if r.Offset() != 0 {
		t.Errorf("offset = %d, want 0", r.Offset())
	}
}

func TestNew_QueryTooShort(t *testing.T) {
	_, err := New("c", nil, mode.Any, false, 0, 1, 20, 2)
	if !errors.Is(err, domain.ErrQueryTooShort) {
		t.Fatalf("expected ErrQueryTooShort, got %v", err)
	}

	// Configured minimum applies.
	_, err = New("cat", nil, mode.Any, false, 0, 1, 20, 5)
	if !errors.Is(err, domain.ErrQueryTooShort) {
		t.Fatalf("expected ErrQueryTooShort with min 5, got %v", err)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxQueryLength+1), nil, mode.Any, false, 0, 1, 20, 0)
	if err == nil {
		t.Fatal("expected error for oversized query")
	}
}

func TestNew_InvalidMode(t *testing.T) {
	_, err := New("cats", nil, mode.Mode("fuzzy"), false, 0, 1, 20, 0)
	if err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestNew_MinScoreClamped(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.4, 0.4},
		{1, 1},
		{3.7, 1},
	}
	for _, tt := range tests {
		r, err := New("cats", nil, mode.Any, false, tt.in, 1, 20, 0)
		if err != nil {
			t.Fatalf("minScore %v rejected: %v", tt.in, err)
		}
		if r.MinScore() != tt.want {
			t.Errorf("minScore %v clamped to %v, want %v", tt.in, r.MinScore(), tt.want)
		}
	}
}

func TestNew_PerPageClamped(t *testing.T) {
	r, err := New("cats", nil, mode.Any, false, 0, 3, 1000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.PerPage() != MaxPerPage {
		t.Errorf("perPage = %d, want %d", r.PerPage(), MaxPerPage)
	}
	if r.Offset() != 2*MaxPerPage {
		t.Errorf("offset = %d, want %d", r.Offset(), 2*MaxPerPage)
	}
}

func TestNew_FieldsCopied(t *testing.T) {
	in := []string{"title", "body"}
	r, err := New("cats", in, mode.Any, false, 0, 1, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in[0] = "mutated"
	if r.Fields()[0] != "title" {
		t.Error("request must not alias the caller's fields slice")
	}
}
