package labels

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/shortform/internal/types"
)

// Format is the encoding of a label file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported label file format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// labelDocument is the on-disk layout:
//
//	[prefixes]
//	ex = "http://example.org/"
//
//	[[entity]]
//	iri = "http://example.org/hasPart"
//	local_name = "hasPart"
//
//	[[entity.label]]
//	language = "en@rdfs:label"
//	text = "has part"
type labelDocument struct {
	Prefixes map[string]string `toml:"prefixes,omitempty" yaml:"prefixes,omitempty"`
	Entities []entityRecord    `toml:"entity" yaml:"entity"`
}

type entityRecord struct {
	IRI       string        `toml:"iri" yaml:"iri"`
	LocalName string        `toml:"local_name,omitempty" yaml:"local_name,omitempty"`
	Labels    []labelRecord `toml:"label,omitempty" yaml:"label,omitempty"`
}

type labelRecord struct {
	Language string `toml:"language" yaml:"language"`
	Text     string `toml:"text" yaml:"text"`
}

// Decode parses a label file. Languages may use CURIEs from prefixes or
// from the file's own [prefixes] table. A repeated entity or language
// replaces the earlier text.
func Decode(data []byte, format Format, prefixes types.PrefixMap) ([]types.EntityShortForms, error) {
	var doc labelDocument
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if prefixes == nil {
		prefixes = types.DefaultPrefixes()
	}
	prefixes = prefixes.Merge(doc.Prefixes)

	index := make(map[types.EntityID]int, len(doc.Entities))
	out := make([]types.EntityShortForms, 0, len(doc.Entities))
	for i, rec := range doc.Entities {
		iri := strings.TrimSpace(rec.IRI)
		if iri == "" {
			return nil, fmt.Errorf("entity %d: missing iri", i)
		}
		id := types.EntityID(prefixes.Expand(iri))

		pos, seen := index[id]
		if !seen {
			pos = len(out)
			index[id] = pos
			out = append(out, types.NewEntityShortForms(id))
		}
		esf := out[pos]

		if rec.LocalName != "" {
			esf = esf.With(types.LocalName(), rec.LocalName)
		}
		for j, l := range rec.Labels {
			lang, err := types.ParseLanguage(l.Language, prefixes)
			if err != nil {
				return nil, fmt.Errorf("entity %s label %d: %w", id, j, err)
			}
			esf = esf.With(lang, l.Text)
		}
		out[pos] = esf
	}
	return out, nil
}

// Encode writes entities in the label file layout with full IRIs.
func Encode(entities []types.EntityShortForms, format Format) ([]byte, error) {
	doc := labelDocument{Entities: make([]entityRecord, 0, len(entities))}
	for _, esf := range entities {
		rec := entityRecord{IRI: string(esf.Entity())}
		for _, e := range esf.Entries() {
			if !e.Language.IsAnnotationBased() {
				rec.LocalName = e.ShortForm
				continue
			}
			rec.Labels = append(rec.Labels, labelRecord{Language: e.Language.Key(), Text: e.ShortForm})
		}
		doc.Entities = append(doc.Entities, rec)
	}

	switch format {
	case FormatTOML:
		return toml.Marshal(doc)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
