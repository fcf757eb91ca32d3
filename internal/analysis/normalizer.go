package analysis

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer folds term text so that "Part", "PART" and "ｐａｒｔ" compare
// equal: NFKC compatibility normalisation followed by Unicode case folding.
//
// A Normalizer carries transformer state and must not be shared between
// goroutines. Each analyzer session owns one.
type Normalizer struct {
	t transform.Transformer
}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{t: transform.Chain(norm.NFKC, cases.Fold())}
}

// Normalize returns the folded form of s.
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return s
	}
	out, _, err := transform.String(n.t, s)
	if err != nil {
		return s
	}
	return out
}
