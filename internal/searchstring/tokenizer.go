// Package searchstring turns raw query fragments into the set of distinct
// terms the matcher looks for.
package searchstring

import (
	"sort"

	"github.com/standardbeagle/shortform/internal/analysis"
	"github.com/standardbeagle/shortform/internal/types"
)

// Tokenizer normalises search strings into match tokens.
type Tokenizer interface {
	TokenizedSearchStrings(ss []types.SearchString) map[string]struct{}
}

// DefaultTokenizer splits queries with the analyzer's own word splitter and
// normaliser, so query terms take the same shape as indexed terms. When the
// analyzer stems, both the folded word and its stem are kept.
type DefaultTokenizer struct {
	factory *analysis.IndexingFactory
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// NewTokenizer creates a tokenizer sharing the configuration of factory.
func NewTokenizer(factory *analysis.IndexingFactory) *DefaultTokenizer {
	return &DefaultTokenizer{factory: factory}
}

// TokenizedSearchStrings returns the distinct non-empty tokens of ss.
func (t *DefaultTokenizer) TokenizedSearchStrings(ss []types.SearchString) map[string]struct{} {
	tokens := make(map[string]struct{})
	if len(ss) == 0 {
		return tokens
	}

	session := t.factory.Session()
	stemming := t.factory.Stemmer().IsEnabled()
	for _, s := range ss {
		for _, tok := range session.Words(string(s)) {
			tokens[tok.Text] = struct{}{}
			if stemming {
				tokens[session.Stem(tok.Text)] = struct{}{}
			}
		}
	}
	return tokens
}

// Sorted returns the tokens of set in ascending order.
func Sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for tok := range set {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
