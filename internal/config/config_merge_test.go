package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unit tests for config merging logic

func TestMergeConfigs_PrefixesUnion(t *testing.T) {
	base := Default()
	base.Prefixes = map[string]string{"ex": "http://example.org/", "obo": "http://purl.obolibrary.org/obo/"}

	project := Default()
	project.Prefixes = map[string]string{"ex": "http://example.com/ns#"}

	merged := mergeConfigs(base, project)

	assert.Equal(t, "http://example.com/ns#", merged.Prefixes["ex"], "project prefix wins")
	assert.Equal(t, "http://purl.obolibrary.org/obo/", merged.Prefixes["obo"])
	assert.Len(t, merged.Prefixes, 2)
}

func TestMergeConfigs_ProjectWins(t *testing.T) {
	base := Default()
	base.Analysis.MinGram = 3
	base.Matching.Workers = 8

	project := Default()
	project.Analysis.MinGram = 2
	project.Matching.Workers = 2

	merged := mergeConfigs(base, project)
	assert.Equal(t, 2, merged.Analysis.MinGram)
	assert.Equal(t, 2, merged.Matching.Workers)
}

func TestMergeConfigs_InheritsUnsetValues(t *testing.T) {
	base := Default()
	base.Labels.Path = "/home/u/labels.toml"
	base.Labels.Store = "/home/u/labels.db"
	base.Matching.DefaultLanguages = []string{"en@**"}
	base.languagesSet = true
	base.Analysis.Stemming.Exclusions = []string{"news"}

	project := Default()

	merged := mergeConfigs(base, project)
	assert.Equal(t, "/home/u/labels.toml", merged.Labels.Path)
	assert.Equal(t, "/home/u/labels.db", merged.Labels.Store)
	assert.Equal(t, []string{"en@**"}, merged.Matching.DefaultLanguages)
	assert.Equal(t, []string{"news"}, merged.Analysis.Stemming.Exclusions)
}

func TestMergeConfigs_ExplicitProjectLanguages(t *testing.T) {
	base := Default()
	base.Matching.DefaultLanguages = []string{"en@**"}

	project := Default()
	project.Matching.DefaultLanguages = []string{"localName"}
	project.languagesSet = true

	merged := mergeConfigs(base, project)
	assert.Equal(t, []string{"localName"}, merged.Matching.DefaultLanguages)
}

func TestMergeConfigs_DoesNotAliasInputs(t *testing.T) {
	base := Default()
	base.Prefixes["a"] = "http://a/"
	project := Default()

	merged := mergeConfigs(base, project)
	merged.Prefixes["b"] = "http://b/"

	assert.NotContains(t, base.Prefixes, "b")
	assert.NotContains(t, project.Prefixes, "b")
}

// Integration tests for LoadWithRoot

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWithRoot_HomeAndProject(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)

	writeFile(t, home, FileName, `
prefixes { obo "http://purl.obolibrary.org/obo/" }
labels { path "global.toml" }
`)
	writeFile(t, project, FileName, `
analysis { min_gram 2 }
prefixes { ex "http://example.org/" }
`)

	cfg, err := LoadWithRoot("", project)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Analysis.MinGram)
	assert.Equal(t, "http://example.org/", cfg.Prefixes["ex"])
	assert.Equal(t, "http://purl.obolibrary.org/obo/", cfg.Prefixes["obo"])
	assert.Equal(t, filepath.Join(home, "global.toml"), cfg.Labels.Path)
	assert.Positive(t, cfg.Matching.Workers)
}

func TestLoadWithRoot_NoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()

	cfg, err := LoadWithRoot("", project)
	require.NoError(t, err)

	absProject, err := filepath.Abs(project)
	require.NoError(t, err)
	assert.Equal(t, absProject, cfg.Project.Root)
	assert.Equal(t, []string{"**"}, cfg.Matching.DefaultLanguages)
	assert.Equal(t, 200, cfg.Labels.WatchDebounceMs)
	assert.Positive(t, cfg.Matching.Workers)
}

func TestLoadWithRoot_ExplicitPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, FileName, `analysis { min_gram 5; max_gram 9 }`)

	other := t.TempDir()
	path := writeFile(t, other, "custom.kdl", `analysis { max_gram 4 }`)

	cfg, err := LoadWithRoot(path, other)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Analysis.MinGram, "home file is not consulted")
	assert.Equal(t, 4, cfg.Analysis.MaxGram)
}

func TestLoadWithRoot_InvalidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeFile(t, project, FileName, `analysis { min_gram 5; max_gram 2 }`)

	_, err := LoadWithRoot("", project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis")
}

func TestLoadWithRoot_ParseError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeFile(t, project, FileName, `analysis {`)

	_, err := LoadWithRoot("", project)
	assert.Error(t, err)
}
