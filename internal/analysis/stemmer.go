package analysis

import (
	"fmt"
	"strings"

	"github.com/surgebase/porter2"
)

// Stemmer reduces whole words to their porter2 stem so that "disease" and
// "diseases" index to the same term.
type Stemmer struct {
	enabled    bool
	minLength  int
	exclusions map[string]bool // words to never stem
}

// DefaultStemMinLength is the shortest word that is stemmed.
const DefaultStemMinLength = 3

// NewStemmer creates a stemmer. A negative minLength selects the default.
func NewStemmer(enabled bool, minLength int, exclusions []string) *Stemmer {
	if minLength < 0 {
		minLength = DefaultStemMinLength
	}

	excl := make(map[string]bool, len(exclusions))
	for _, w := range exclusions {
		excl[strings.ToLower(w)] = true
	}

	return &Stemmer{
		enabled:    enabled,
		minLength:  minLength,
		exclusions: excl,
	}
}

// NewStemmerFromConfig creates a stemmer from analysis configuration.
func NewStemmerFromConfig(cfg StemmingConfig) *Stemmer {
	return NewStemmer(cfg.Enabled, cfg.MinLength, cfg.Exclusions)
}

// IsEnabled checks if stemming is enabled
func (s *Stemmer) IsEnabled() bool {
	return s.enabled
}

// MinLength returns the minimum word length for stemming
func (s *Stemmer) MinLength() int {
	return s.minLength
}

// IsExcluded checks if a word is in the exclusion list
func (s *Stemmer) IsExcluded(word string) bool {
	return s.exclusions[strings.ToLower(word)]
}

// Stem returns the stem of an already normalised word, or the word itself
// if stemming is disabled, the word is excluded or too short.
func (s *Stemmer) Stem(word string) string {
	if !s.enabled {
		return word
	}
	if s.exclusions[word] {
		return word
	}
	if len(word) < s.minLength {
		return word
	}
	return porter2.Stem(word)
}

// Validate checks the stemmer configuration
func (s *Stemmer) Validate() error {
	if s.minLength < 0 {
		return fmt.Errorf("invalid min length: %d (must be >= 0)", s.minLength)
	}
	return nil
}
