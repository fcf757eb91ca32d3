package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToKDL_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Project.Root = "/srv/ontology"
	cfg.Analysis.MinGram = 2
	cfg.Analysis.MaxGram = 12
	cfg.Analysis.SegmenterDictionary = "/dicts/zh.txt"
	cfg.Analysis.Stemming = Stemming{Enabled: true, MinLength: 4, Exclusions: []string{"data", "news"}}
	cfg.Matching.Workers = 3
	cfg.Matching.DefaultLanguages = []string{"localName", "en@rdfs:label"}
	cfg.Labels = Labels{Path: "/srv/labels.toml", Store: "/srv/labels.db", Watch: true, WatchDebounceMs: 500}
	cfg.Prefixes = map[string]string{"ex": "http://example.org/", "obo": "http://purl.obolibrary.org/obo/"}

	parsed, err := parseKDL(ToKDL(cfg))
	require.NoError(t, err)

	assert.Equal(t, cfg.Project, parsed.Project)
	assert.Equal(t, cfg.Analysis, parsed.Analysis)
	assert.Equal(t, cfg.Matching, parsed.Matching)
	assert.Equal(t, cfg.Labels, parsed.Labels)
	assert.Equal(t, cfg.Prefixes, parsed.Prefixes)
	assert.True(t, parsed.languagesSet)
}

func TestToKDL_OmitsEmptyValues(t *testing.T) {
	cfg := Default()
	cfg.Project.Root = ""
	out := ToKDL(cfg)

	assert.NotContains(t, out, "project")
	assert.NotContains(t, out, "segmenter_dictionary")
	assert.NotContains(t, out, "exclusions")
	assert.NotContains(t, out, "path ")
	assert.NotContains(t, out, "prefixes")
	assert.Contains(t, out, `default_languages "**"`)

	parsed, err := parseKDL(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Analysis, parsed.Analysis)
}
