// Package fieldname derives the index field names under which a dictionary
// language's short forms are stored and analysed.
//
// The same label must always be indexed and matched under the same field
// name, because the analyzer chooses its token-shaping rules by field name.
// Every function here is pure and returns byte-identical results for equal
// languages.
package fieldname

import (
	"strings"

	"github.com/standardbeagle/shortform/internal/types"
)

const (
	// LocalNameField is the field holding an entity's local name.
	LocalNameField = "localName"

	// ValueFieldPrefix starts the exact-value field of a language.
	ValueFieldPrefix = "value."
	// WordFieldPrefix starts the whole-word field of a language.
	WordFieldPrefix = "word."
	// EdgeNGramFieldPrefix starts the prefix (autocomplete) field of a language.
	EdgeNGramFieldPrefix = "edgeNGram."
)

// Translator maps dictionary languages to index field names.
type Translator interface {
	LocalNameFieldName() string
	ValueFieldName(lang types.DictionaryLanguage) string
	WordFieldName(lang types.DictionaryLanguage) string
	EdgeNGramFieldName(lang types.DictionaryLanguage) string
}

// DefaultTranslator is the stateless Translator used for indexing and matching.
type DefaultTranslator struct{}

var _ Translator = DefaultTranslator{}

// NewTranslator returns the default translator.
func NewTranslator() DefaultTranslator {
	return DefaultTranslator{}
}

// LocalNameFieldName returns LocalNameField.
func (DefaultTranslator) LocalNameFieldName() string {
	return LocalNameField
}

// ValueFieldName returns the exact-value field of lang.
func (DefaultTranslator) ValueFieldName(lang types.DictionaryLanguage) string {
	return ValueFieldPrefix + Suffix(lang)
}

// WordFieldName returns the whole-word field of lang.
func (DefaultTranslator) WordFieldName(lang types.DictionaryLanguage) string {
	return WordFieldPrefix + Suffix(lang)
}

// EdgeNGramFieldName returns the edge-fragment field of lang.
func (DefaultTranslator) EdgeNGramFieldName(lang types.DictionaryLanguage) string {
	return EdgeNGramFieldPrefix + Suffix(lang)
}

// Suffix is the language-specific part shared by all three field names:
// "<tag>@<property-iri>" for annotation languages (an absent tag leaves the
// part before '@' empty) and LocalNameField for the local name.
func Suffix(lang types.DictionaryLanguage) string {
	switch lang.Kind {
	case types.LanguageAnnotation:
		return lang.LangTag + "@" + string(lang.AnnotationProperty)
	default:
		return LocalNameField
	}
}

// Kind classifies a field name.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindLocalName
	KindValue
	KindWord
	KindEdgeNGram
)

func (k Kind) String() string {
	switch k {
	case KindLocalName:
		return "local_name"
	case KindValue:
		return "value"
	case KindWord:
		return "word"
	case KindEdgeNGram:
		return "edge_ngram"
	default:
		return "unknown"
	}
}

// Classify splits a field name produced by a Translator back into its kind
// and suffix. Names no translator produces are KindUnknown.
func Classify(field string) (Kind, string) {
	switch {
	case field == LocalNameField:
		return KindLocalName, LocalNameField
	case strings.HasPrefix(field, EdgeNGramFieldPrefix):
		return KindEdgeNGram, strings.TrimPrefix(field, EdgeNGramFieldPrefix)
	case strings.HasPrefix(field, WordFieldPrefix):
		return KindWord, strings.TrimPrefix(field, WordFieldPrefix)
	case strings.HasPrefix(field, ValueFieldPrefix):
		return KindValue, strings.TrimPrefix(field, ValueFieldPrefix)
	default:
		return KindUnknown, field
	}
}

// FieldNames bundles the three field names of one language.
type FieldNames struct {
	Value     string `json:"value"`
	Word      string `json:"word"`
	EdgeNGram string `json:"edge_ngram"`
}

// All returns the three field names of lang from t.
func All(t Translator, lang types.DictionaryLanguage) FieldNames {
	return FieldNames{
		Value:     t.ValueFieldName(lang),
		Word:      t.WordFieldName(lang),
		EdgeNGram: t.EdgeNGramFieldName(lang),
	}
}
