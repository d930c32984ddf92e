package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshdotdev/sift/internal/domain/record"
	"github.com/kshdotdev/sift/internal/domain/search/field"
	"github.com/kshdotdev/sift/internal/domain/search/mode"
)

func weightedTitleBody(t *testing.T) field.Config {
	t.Helper()
	return field.Resolve(field.Spec{
		Fields:  []string{"title", "body"},
		Weights: map[string]float64{"title": 2.0},
	}, nil)
}

func rec(t *testing.T, id string, data map[string]any) record.Record {
	t.Helper()
	r, err := record.New(id, data)
	require.NoError(t, err)
	return r
}

func TestScore_WeightedExample(t *testing.T) {
	// title weight 2.0, body weight 1.0, query "cat", mode any.
	cfg := weightedTitleBody(t)
	tokens := Tokenize("cat", mode.Any)

	r1 := rec(t, "1", map[string]any{"title": "Cat lover", "body": "dogs"})
	r2 := rec(t, "2", map[string]any{"title": "dog", "body": "I have a cat"})

	s1, m1 := Score(r1, tokens, cfg, mode.Any)
	s2, m2 := Score(r2, tokens, cfg, mode.Any)

	assert.InDelta(t, 2.0/3.0, s1, 1e-9)
	assert.Equal(t, []string{"title"}, m1)
	assert.InDelta(t, 1.0/3.0, s2, 1e-9)
	assert.Equal(t, []string{"body"}, m2)
}

func TestScore_AllModeRequiresEveryToken(t *testing.T) {
	cfg := weightedTitleBody(t)
	tokens := Tokenize("cat dog", mode.All)

	r1 := rec(t, "1", map[string]any{"title": "Cat lover", "body": "dogs"})
	r2 := rec(t, "2", map[string]any{"title": "dog", "body": "I have a cat"})
	r3 := rec(t, "3", map[string]any{"title": "cat and dog"})

	s1, m1 := Score(r1, tokens, cfg, mode.All)
	assert.Zero(t, s1)
	assert.Empty(t, m1)

	s2, _ := Score(r2, tokens, cfg, mode.All)
	assert.Zero(t, s2)

	// Both tokens in one field: full strength for that field.
	s3, m3 := Score(r3, tokens, cfg, mode.All)
	assert.InDelta(t, 2.0/3.0, s3, 1e-9)
	assert.Equal(t, []string{"title"}, m3)
}

func TestScore_PhraseMode(t *testing.T) {
	cfg := weightedTitleBody(t)
	tokens := Tokenize("new york", mode.Phrase)

	hit := rec(t, "1", map[string]any{"title": "Visit New York soon"})
	miss := rec(t, "2", map[string]any{"title": "york is new to me"})

	s, m := Score(hit, tokens, cfg, mode.Phrase)
	assert.InDelta(t, 2.0/3.0, s, 1e-9)
	assert.Equal(t, []string{"title"}, m)

	s, m = Score(miss, tokens, cfg, mode.Phrase)
	assert.Zero(t, s)
	assert.Empty(t, m)
}

func TestScore_KeywordKindExactOnly(t *testing.T) {
	cfg := field.Resolve(field.Spec{
		Explicit: map[string]field.Definition{
			"sku": {Kind: field.Keyword},
		},
	}, nil)

	exact := rec(t, "1", map[string]any{"sku": "ABC-1"})
	substr := rec(t, "2", map[string]any{"sku": "ABC-123"})

	s, m := Score(exact, Tokenize("abc-1", mode.Any), cfg, mode.Any)
	assert.Equal(t, 1.0, s)
	assert.Equal(t, []string{"sku"}, m)

	// A keyword field never matches on substring.
	s, m = Score(substr, Tokenize("abc-1", mode.Any), cfg, mode.Any)
	assert.Zero(t, s)
	assert.Empty(t, m)
}

func TestScore_ArrayKindElementWise(t *testing.T) {
	cfg := field.Resolve(field.Spec{
		Explicit: map[string]field.Definition{
			"tags": {Kind: field.Array},
		},
	}, nil)

	r := rec(t, "1", map[string]any{"tags": []any{"red", "fluffy cat", "indoor"}})

	s, m := Score(r, Tokenize("cat", mode.Any), cfg, mode.Any)
	assert.Equal(t, 1.0, s)
	assert.Equal(t, []string{"tags"}, m)

	// all mode: tokens may match across different elements of the same field.
	s, _ = Score(r, Tokenize("red indoor", mode.All), cfg, mode.All)
	assert.Equal(t, 1.0, s)
}

func TestScore_AbsentAndNullFieldsSkipped(t *testing.T) {
	cfg := weightedTitleBody(t)
	tokens := Tokenize("cat", mode.Any)

	// body is null, title absent: nothing to match, weights still count.
	r := rec(t, "1", map[string]any{"body": nil})
	s, m := Score(r, tokens, cfg, mode.Any)
	assert.Zero(t, s)
	assert.Empty(t, m)

	// Matching only body still divides by the total weight (3.0).
	r2 := rec(t, "2", map[string]any{"body": "a cat"})
	s2, _ := Score(r2, tokens, cfg, mode.Any)
	assert.InDelta(t, 1.0/3.0, s2, 1e-9)
}

func TestScore_NonStringValuesStringified(t *testing.T) {
	cfg := field.Resolve(field.Spec{Fields: []string{"price", "active"}}, nil)

	r := rec(t, "1", map[string]any{"price": 19.99, "active": true})

	s, m := Score(r, Tokenize("19.99", mode.Any), cfg, mode.Any)
	assert.InDelta(t, 0.5, s, 1e-9)
	assert.Equal(t, []string{"price"}, m)

	s, m = Score(r, Tokenize("true", mode.Any), cfg, mode.Any)
	assert.InDelta(t, 0.5, s, 1e-9)
	assert.Equal(t, []string{"active"}, m)
}

func TestScore_EmptyConfigOrTokens(t *testing.T) {
	r := rec(t, "1", map[string]any{"title": "cat"})

	s, m := Score(r, nil, weightedTitleBody(t), mode.Any)
	assert.Zero(t, s)
	assert.Empty(t, m)

	s, m = Score(r, Tokenize("cat", mode.Any), field.Config{}, mode.Any)
	assert.Zero(t, s)
	assert.Empty(t, m)
}

func TestScore_DuplicateTokensCountOnce(t *testing.T) {
	cfg := field.Resolve(field.Spec{Fields: []string{"title"}}, nil)
	r := rec(t, "1", map[string]any{"title": "cat"})

	s, _ := Score(r, Tokenize("cat cat", mode.Any), cfg, mode.Any)
	assert.Equal(t, 1.0, s)
}

func TestScore_RaisingWeightNeverLowersScore(t *testing.T) {
	low := field.Resolve(field.Spec{
		Fields:  []string{"title", "body"},
		Weights: map[string]float64{"title": 1.0},
	}, nil)
	high := field.Resolve(field.Spec{
		Fields:  []string{"title", "body"},
		Weights: map[string]float64{"title": 4.0},
	}, nil)

	r := rec(t, "1", map[string]any{"title": "cat", "body": "dogs"})
	tokens := Tokenize("cat", mode.Any)

	sLow, _ := Score(r, tokens, low, mode.Any)
	sHigh, _ := Score(r, tokens, high, mode.Any)
	assert.GreaterOrEqual(t, sHigh, sLow)
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	cfg := field.Resolve(field.Spec{
		Explicit: map[string]field.Definition{
			"title": {Weight: 10},
			"tags":  {Weight: 0.1, Kind: field.Array},
		},
	}, nil)

	records := []record.Record{
		rec(t, "1", map[string]any{"title": "cat cat cat", "tags": []any{"cat", "cat"}}),
		rec(t, "2", map[string]any{"title": "dog"}),
		rec(t, "3", map[string]any{}),
	}
	for _, m := range []mode.Mode{mode.Any, mode.All, mode.Phrase} {
		tokens := Tokenize("cat", m)
		for _, r := range records {
			s, _ := Score(r, tokens, cfg, m)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}
