package types

import (
	"errors"
	"fmt"
	"strings"
)

// IRI identifies an annotation property or an entity.
type IRI string

// Well-known annotation property IRIs used as label sources.
const (
	RDFSLabel          IRI = "http://www.w3.org/2000/01/rdf-schema#label"
	SKOSPrefLabel      IRI = "http://www.w3.org/2004/02/skos/core#prefLabel"
	SKOSAltLabel       IRI = "http://www.w3.org/2004/02/skos/core#altLabel"
	OBOHasExactSynonym IRI = "http://www.geneontology.org/formats/oboInOwl#hasExactSynonym"
)

// LocalNameKey is the canonical key of the local-name language.
const LocalNameKey = "localName"

// LanguageKind tags the variant of a DictionaryLanguage.
type LanguageKind uint8

const (
	// LanguageLocalName is the entity's canonical short identifier.
	LanguageLocalName LanguageKind = iota
	// LanguageAnnotation is a label taken from an annotation property,
	// optionally restricted to a language tag.
	LanguageAnnotation
)

func (k LanguageKind) String() string {
	switch k {
	case LanguageLocalName:
		return "local_name"
	case LanguageAnnotation:
		return "annotation"
	default:
		return fmt.Sprintf("LanguageKind(%d)", uint8(k))
	}
}

var (
	ErrEmptyAnnotationProperty = errors.New("annotation property IRI cannot be empty")
	ErrInvalidLanguage         = errors.New("invalid dictionary language")
)

// DictionaryLanguage names a labelling scheme under which an entity may
// have a short form. It is comparable and safe to use as a map key: two
// values are equal iff kind, property and tag are equal.
//
// An absent language tag is always the empty string.
type DictionaryLanguage struct {
	Kind               LanguageKind
	AnnotationProperty IRI
	LangTag            string
}

// LocalName returns the local-name language.
func LocalName() DictionaryLanguage {
	return DictionaryLanguage{Kind: LanguageLocalName}
}

// AnnotationLanguage returns the language for labels asserted with the given
// annotation property and language tag. Pass "" for labels without a tag.
func AnnotationLanguage(property IRI, langTag string) (DictionaryLanguage, error) {
	if strings.TrimSpace(string(property)) == "" {
		return DictionaryLanguage{}, ErrEmptyAnnotationProperty
	}
	return DictionaryLanguage{
		Kind:               LanguageAnnotation,
		AnnotationProperty: property,
		LangTag:            langTag,
	}, nil
}

// MustAnnotationLanguage is AnnotationLanguage for constant inputs.
func MustAnnotationLanguage(property IRI, langTag string) DictionaryLanguage {
	l, err := AnnotationLanguage(property, langTag)
	if err != nil {
		panic(err)
	}
	return l
}

// IsAnnotationBased reports whether the language is backed by an annotation property.
func (l DictionaryLanguage) IsAnnotationBased() bool {
	return l.Kind == LanguageAnnotation
}

// Key returns the canonical textual form: "localName" or "<tag>@<iri>".
func (l DictionaryLanguage) Key() string {
	switch l.Kind {
	case LanguageAnnotation:
		return l.LangTag + "@" + string(l.AnnotationProperty)
	default:
		return LocalNameKey
	}
}

func (l DictionaryLanguage) String() string {
	return l.Key()
}

// MarshalText encodes the language as its Key.
func (l DictionaryLanguage) MarshalText() ([]byte, error) {
	return []byte(l.Key()), nil
}

// UnmarshalText decodes a Key produced by MarshalText. CURIEs are expanded
// with the default prefixes.
func (l *DictionaryLanguage) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text), DefaultPrefixes())
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// PrefixMap maps CURIE prefixes to namespace IRIs.
type PrefixMap map[string]string

// DefaultPrefixes returns the prefixes understood without configuration.
func DefaultPrefixes() PrefixMap {
	return PrefixMap{
		"rdfs":     "http://www.w3.org/2000/01/rdf-schema#",
		"skos":     "http://www.w3.org/2004/02/skos/core#",
		"oboInOwl": "http://www.geneontology.org/formats/oboInOwl#",
		"dc":       "http://purl.org/dc/elements/1.1/",
		"dcterms":  "http://purl.org/dc/terms/",
	}
}

// Merge returns a copy of p with the entries of other added on top.
func (p PrefixMap) Merge(other map[string]string) PrefixMap {
	out := make(PrefixMap, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Expand turns a CURIE such as "rdfs:label" into a full IRI. Values that
// already look like IRIs, or use an unknown prefix, are returned unchanged.
func (p PrefixMap) Expand(s string) IRI {
	if strings.Contains(s, "://") || strings.HasPrefix(s, "urn:") {
		return IRI(s)
	}
	prefix, local, ok := strings.Cut(s, ":")
	if !ok {
		return IRI(s)
	}
	if ns, found := p[prefix]; found {
		return IRI(ns + local)
	}
	return IRI(s)
}

// ParseLanguage parses "localName", "<iri>", "<tag>@<iri>" or "@<iri>".
// The IRI may be written as a CURIE using prefixes.
func ParseLanguage(s string, prefixes PrefixMap) (DictionaryLanguage, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DictionaryLanguage{}, fmt.Errorf("%w: empty", ErrInvalidLanguage)
	}
	if s == LocalNameKey {
		return LocalName(), nil
	}

	tag, property := "", s
	// The tag never contains ':' or '/', the IRI may contain '@' only after
	// its scheme, so split on the first '@' preceding any ':'.
	if at := strings.Index(s, "@"); at >= 0 {
		colon := strings.Index(s, ":")
		if colon < 0 || at < colon {
			tag, property = s[:at], s[at+1:]
		}
	}

	lang, err := AnnotationLanguage(prefixes.Expand(property), tag)
	if err != nil {
		return DictionaryLanguage{}, fmt.Errorf("%w %q: %v", ErrInvalidLanguage, s, err)
	}
	return lang, nil
}

// ParseLanguages parses each value with ParseLanguage.
func ParseLanguages(values []string, prefixes PrefixMap) ([]DictionaryLanguage, error) {
	out := make([]DictionaryLanguage, 0, len(values))
	for _, v := range values {
		l, err := ParseLanguage(v, prefixes)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
