package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/shortform/internal/analysis"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, analysis.DefaultMinGram, cfg.Analysis.MinGram)
	assert.Equal(t, analysis.DefaultMaxGram, cfg.Analysis.MaxGram)
	assert.False(t, cfg.Analysis.Stemming.Enabled)
	assert.Equal(t, analysis.DefaultStemMinLength, cfg.Analysis.Stemming.MinLength)
	assert.Equal(t, []string{"**"}, cfg.Matching.DefaultLanguages)
	assert.False(t, cfg.languagesSet)
	assert.Empty(t, cfg.Labels.Path)
	assert.Empty(t, cfg.Prefixes)
}

func TestParseKDL_AllSections(t *testing.T) {
	kdlContent := `
version 1
analysis {
    min_gram 2
    max_gram 10
    split_cache_size 50
    segmenter_dictionary "dict.txt"
    stemming {
        enabled true
        min_length 4
        exclusions "data" "news"
    }
}
matching {
    workers 3
    default_languages "localName" "en@**"
}
labels {
    path "labels.toml"
    store "labels.db"
    watch true
    watch_debounce_ms 500
}
prefixes {
    ex "http://example.org/"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Analysis.MinGram)
	assert.Equal(t, 10, cfg.Analysis.MaxGram)
	assert.Equal(t, 50, cfg.Analysis.SplitCacheSize)
	assert.Equal(t, "dict.txt", cfg.Analysis.SegmenterDictionary)
	assert.True(t, cfg.Analysis.Stemming.Enabled)
	assert.Equal(t, 4, cfg.Analysis.Stemming.MinLength)
	assert.Equal(t, []string{"data", "news"}, cfg.Analysis.Stemming.Exclusions)

	assert.Equal(t, 3, cfg.Matching.Workers)
	assert.Equal(t, []string{"localName", "en@**"}, cfg.Matching.DefaultLanguages)
	assert.True(t, cfg.languagesSet)

	assert.Equal(t, "labels.toml", cfg.Labels.Path)
	assert.Equal(t, "labels.db", cfg.Labels.Store)
	assert.True(t, cfg.Labels.Watch)
	assert.Equal(t, 500, cfg.Labels.WatchDebounceMs)

	assert.Equal(t, "http://example.org/", cfg.Prefixes["ex"])
}

func TestParseKDL_StemmingShorthand(t *testing.T) {
	cfg, err := parseKDL("analysis {\n    stemming true\n}\n")
	require.NoError(t, err)
	assert.True(t, cfg.Analysis.Stemming.Enabled)
}

func TestParseKDL_BlockLists(t *testing.T) {
	kdlContent := `
matching {
    default_languages {
        "localName"
        "fr@**"
    }
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	assert.Equal(t, []string{"localName", "fr@**"}, cfg.Matching.DefaultLanguages)
}

func TestParseKDL_InvalidSyntax(t *testing.T) {
	_, err := parseKDL("analysis {\n    min_gram 2\n")
	assert.Error(t, err)
}

func TestLoadKDL_Missing(t *testing.T) {
	cfg, err := LoadKDL(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDLFile_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	content := `
labels {
    path "data/labels.toml"
    store "/var/lib/labels.db"
}
analysis {
    segmenter_dictionary "a.txt, dicts/b.txt"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	absDir, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, absDir, cfg.Project.Root)
	assert.Equal(t, filepath.Join(dir, "data", "labels.toml"), cfg.Labels.Path)
	assert.Equal(t, "/var/lib/labels.db", cfg.Labels.Store)
	assert.Equal(t, filepath.Join(dir, "a.txt")+","+filepath.Join(dir, "dicts", "b.txt"),
		cfg.Analysis.SegmenterDictionary)
}

func TestAnalysisConfig(t *testing.T) {
	cfg := Default()
	cfg.Analysis.MinGram = 2
	cfg.Analysis.Stemming = Stemming{Enabled: true, MinLength: 5, Exclusions: []string{"news"}}

	ac := cfg.AnalysisConfig()
	assert.Equal(t, 2, ac.MinGram)
	assert.Equal(t, analysis.DefaultMaxGram, ac.MaxGram)
	assert.True(t, ac.Stemming.Enabled)
	assert.Equal(t, 5, ac.Stemming.MinLength)
	assert.Equal(t, []string{"news"}, ac.Stemming.Exclusions)
	require.NoError(t, ac.Validate())
}

func TestPrefixMap_OverlaysDefaults(t *testing.T) {
	cfg := Default()
	cfg.Prefixes["ex"] = "http://example.org/"

	pm := cfg.PrefixMap()
	assert.Equal(t, "http://example.org/", pm["ex"])
	assert.NotEmpty(t, pm["rdfs"])
}
