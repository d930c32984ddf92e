package memory

import (
	"strings"

	"github.com/kshdotdev/sift/internal/domain/search/mode"
)

// Tokenize splits a raw query into normalized match tokens: trimmed,
// lower-cased, whitespace runs collapsed. In any/all mode the query is
// split on whitespace; in phrase mode the whole normalized string is a
// single token matched as a contiguous substring. A query that
// normalizes to the empty string yields no tokens, which downstream
// means "no possible match", never "match everything".
func Tokenize(query string, m mode.Mode) []string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}
	if m == mode.Phrase {
		return []string{strings.Join(words, " ")}
	}
	return words
}
