package types

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// LanguageSet is a set of dictionary languages that remembers insertion
// order. The zero value is an empty set ready to use.
type LanguageSet struct {
	order   []DictionaryLanguage
	members map[DictionaryLanguage]struct{}
}

// NewLanguageSet builds a set from langs, dropping duplicates.
func NewLanguageSet(langs ...DictionaryLanguage) *LanguageSet {
	s := &LanguageSet{}
	for _, l := range langs {
		s.Add(l)
	}
	return s
}

// Add inserts l and reports whether it was not already present.
func (s *LanguageSet) Add(l DictionaryLanguage) bool {
	if s.members == nil {
		s.members = make(map[DictionaryLanguage]struct{})
	}
	if _, ok := s.members[l]; ok {
		return false
	}
	s.members[l] = struct{}{}
	s.order = append(s.order, l)
	return true
}

// Contains reports membership. A nil set contains nothing.
func (s *LanguageSet) Contains(l DictionaryLanguage) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[l]
	return ok
}

// Len returns the number of languages.
func (s *LanguageSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Languages returns the members in insertion order.
func (s *LanguageSet) Languages() []DictionaryLanguage {
	if s == nil {
		return nil
	}
	out := make([]DictionaryLanguage, len(s.order))
	copy(out, s.order)
	return out
}

// SelectLanguages returns the languages from available that match any of
// the patterns, in the order of available.
//
// A pattern of the form "<tag>@<property>" globs the tag and the property
// IRI separately with doublestar syntax, so "en@**" selects every English
// annotation language and "*@**/rdf-schema#label" every rdfs:label language.
// Any other pattern is matched against the whole Key ("localName", "**").
func SelectLanguages(patterns []string, available []DictionaryLanguage) (*LanguageSet, error) {
	for _, p := range patterns {
		tagPattern, propPattern, split := splitLanguagePattern(p)
		if !split {
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("%w: bad language pattern %q", ErrInvalidLanguage, p)
			}
			continue
		}
		if !doublestar.ValidatePattern(tagPattern) || !doublestar.ValidatePattern(propPattern) {
			return nil, fmt.Errorf("%w: bad language pattern %q", ErrInvalidLanguage, p)
		}
	}

	selected := NewLanguageSet()
	for _, l := range available {
		for _, p := range patterns {
			if matchLanguagePattern(p, l) {
				selected.Add(l)
				break
			}
		}
	}
	return selected, nil
}

func splitLanguagePattern(p string) (tag, property string, ok bool) {
	at := strings.Index(p, "@")
	if at < 0 {
		return "", "", false
	}
	return p[:at], p[at+1:], true
}

// matchLanguagePattern expects a validated pattern, so match errors cannot occur.
func matchLanguagePattern(p string, l DictionaryLanguage) bool {
	tagPattern, propPattern, split := splitLanguagePattern(p)
	if !split {
		ok, _ := doublestar.Match(p, l.Key())
		return ok
	}
	if !l.IsAnnotationBased() {
		return false
	}
	tagOK, _ := doublestar.Match(tagPattern, l.LangTag)
	if !tagOK {
		return false
	}
	propOK, _ := doublestar.Match(propPattern, string(l.AnnotationProperty))
	return propOK
}

// ExpandPattern expands a CURIE in the property part of a "<tag>@<property>"
// language pattern, leaving globs alone: "en@rdfs:label" becomes
// "en@http://www.w3.org/2000/01/rdf-schema#label" while "en@**" is kept.
func (p PrefixMap) ExpandPattern(pattern string) string {
	tag, property, split := splitLanguagePattern(pattern)
	if !split || strings.ContainsAny(property, "*?[{\\") {
		return pattern
	}
	return tag + "@" + string(p.Expand(property))
}

// ExpandPatterns applies ExpandPattern to every pattern.
func (p PrefixMap) ExpandPatterns(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, pat := range patterns {
		out[i] = p.ExpandPattern(pat)
	}
	return out
}
