package field

import (
	"testing"

	"github.com/kshdotdev/sift/internal/domain/collection/schema"
)

func names(c Config) []string { return c.Names() }

func TestResolve_ExplicitWins(t *testing.T) {
	spec := Spec{
		Explicit: map[string]Definition{
			"title": {Weight: 2.0, Kind: Text},
			"sku":   {Kind: Keyword},
			"tags":  {Weight: 0.5, Kind: Array},
		},
		// The flat list must be ignored when the explicit map is set.
		Fields:  []string{"body"},
		Weights: map[string]float64{"body": 9},
	}

	cfg := Resolve(spec, nil)
	if cfg.Len() != 3 {
		t.Fatalf("expected 3 fields, got %d", cfg.Len())
	}

	// Sorted explicit-map order.
	want := []string{"sku", "tags", "title"}
	got := names(cfg)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	sku, _ := cfg.ByName("sku")
	if sku.Weight() != DefaultWeight {
		t.Errorf("zero weight should default to %v, got %v", DefaultWeight, sku.Weight())
	}
	if sku.MatchKind() != Keyword {
		t.Errorf("sku kind = %q, want keyword", sku.MatchKind())
	}
	if _, ok := cfg.ByName("body"); ok {
		t.Error("flat list must not leak into explicit config")
	}
}

func TestResolve_FlatListWithOverrides(t *testing.T) {
	spec := Spec{
		Fields:  []string{"title", "body", "title", ""},
		Weights: map[string]float64{"title": 2.0},
	}

	cfg := Resolve(spec, nil)
	if cfg.Len() != 2 {
		t.Fatalf("expected 2 fields (dup and empty dropped), got %d", cfg.Len())
	}

	title, _ := cfg.ByName("title")
	if title.Weight() != 2.0 {
		t.Errorf("title weight = %v, want 2.0", title.Weight())
	}
	if title.MatchKind() != Text {
		t.Errorf("list fields must be text kind, got %q", title.MatchKind())
	}
	body, _ := cfg.ByName("body")
	if body.Weight() != DefaultWeight {
		t.Errorf("body weight = %v, want default", body.Weight())
	}

	// List order preserved.
	if got := names(cfg); got[0] != "title" || got[1] != "body" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestResolve_SchemaFallback(t *testing.T) {
	schemaFields := []schema.Field{
		schema.Reconstruct("title", schema.String),
		schema.Reconstruct("price", schema.Number),
		schema.Reconstruct("body", schema.String),
		schema.Reconstruct("tags", schema.Array),
	}

	cfg := Resolve(Spec{}, schemaFields)
	got := names(cfg)
	if len(got) != 2 || got[0] != "title" || got[1] != "body" {
		t.Fatalf("expected string-typed fields in schema order, got %v", got)
	}
	for _, f := range cfg.Fields() {
		if f.Weight() != DefaultWeight || f.MatchKind() != Text {
			t.Errorf("schema default field %q = {%v %q}, want {1 text}", f.Name(), f.Weight(), f.MatchKind())
		}
	}
}

func TestResolve_EmptyEverything(t *testing.T) {
	cfg := Resolve(Spec{}, nil)
	if !cfg.IsEmpty() {
		t.Errorf("expected empty config, got %v", names(cfg))
	}
}

func TestRestrict(t *testing.T) {
	cfg := Resolve(Spec{Fields: []string{"title", "body", "author"}}, nil)

	sub := cfg.Restrict([]string{"author", "title", "unknown"})
	got := names(sub)
	// Config order, not request order; unknown dropped silently.
	if len(got) != 2 || got[0] != "title" || got[1] != "author" {
		t.Errorf("Restrict = %v, want [title author]", got)
	}

	if got := names(cfg.Restrict(nil)); len(got) != 3 {
		t.Errorf("empty restriction must keep full config, got %v", got)
	}

	if !cfg.Restrict([]string{"nope"}).IsEmpty() {
		t.Error("all-unknown restriction must degrade to empty config")
	}
}
