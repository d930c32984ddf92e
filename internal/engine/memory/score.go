package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kshdotdev/sift/internal/domain/record"
	"github.com/kshdotdev/sift/internal/domain/search/field"
	"github.com/kshdotdev/sift/internal/domain/search/mode"
)

// Score computes the normalized relevance of one record against the
// tokenized query. It returns a score in [0,1] and the matched field
// names in field configuration order.
//
// Each field contributes weight * matchStrength to a weighted sum; the
// sum is divided by the TOTAL configured weight, so unmatched (or even
// absent) high-weight fields depress the score. A record matching only
// a low-weight field therefore ranks below one matching a high-weight
// field, which is the deliberate ranking policy.
func Score(rec record.Record, tokens []string, cfg field.Config, m mode.Mode) (float64, []string) {
	if len(tokens) == 0 || cfg.IsEmpty() {
		return 0, nil
	}

	distinct := distinctTokens(tokens)

	var weightedSum, weightTotal float64
	var matched []string

	for _, f := range cfg.Fields() {
		weightTotal += f.Weight()

		v, ok := rec.Field(f.Name())
		if !ok || v == nil {
			continue
		}
		values := foldValues(v, f.MatchKind())
		if len(values) == 0 {
			continue
		}

		strength := matchStrength(values, distinct, f.MatchKind(), m)
		if strength > 0 {
			matched = append(matched, f.Name())
			weightedSum += f.Weight() * strength
		}
	}

	if weightTotal == 0 || len(matched) == 0 {
		return 0, nil
	}

	score := weightedSum / weightTotal
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, matched
}

// matchStrength computes the per-field contribution in [0,1] for the
// active mode. values are lower-cased; tokens are distinct and
// lower-cased (in phrase mode the single normalized phrase).
func matchStrength(values, tokens []string, kind field.Kind, m mode.Mode) float64 {
	switch m {
	case mode.All:
		// Every token must occur somewhere in this field's values;
		// tokens may match across different array elements.
		for _, tok := range tokens {
			if !anyValueMatches(values, tok, kind) {
				return 0
			}
		}
		return 1

	case mode.Phrase:
		if anyValueMatches(values, tokens[0], kind) {
			return 1
		}
		return 0

	default: // mode.Any
		hits := 0
		for _, tok := range tokens {
			if anyValueMatches(values, tok, kind) {
				hits++
			}
		}
		return float64(hits) / float64(len(tokens))
	}
}

// anyValueMatches reports whether the token occurs in any of the
// field's values. Keyword kind requires whole-value equality; text and
// array kinds use substring matching.
func anyValueMatches(values []string, token string, kind field.Kind) bool {
	for _, v := range values {
		if kind == field.Keyword {
			if v == token {
				return true
			}
			continue
		}
		if strings.Contains(v, token) {
			return true
		}
	}
	return false
}

// foldValues extracts the lower-cased textual values of a field: array
// kind iterates elements, scalar kinds stringify the single value.
func foldValues(v any, kind field.Kind) []string {
	if kind == field.Array {
		if elems, ok := v.([]any); ok {
			values := make([]string, 0, len(elems))
			for _, e := range elems {
				if e == nil {
					continue
				}
				values = append(values, strings.ToLower(stringify(e)))
			}
			return values
		}
	}
	return []string{strings.ToLower(stringify(v))}
}

// stringify renders a field value for matching. Numbers, booleans and
// anything else are compared via their string representation; there is
// no type-aware numeric matching.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func distinctTokens(tokens []string) []string {
	if len(tokens) <= 1 {
		return tokens
	}
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0:0]
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
