package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/shortform/internal/config"
)

const testLabels = `
[prefixes]
ex = "http://example.org/"

[[entity]]
iri = "http://example.org/HeartDisease"
local_name = "heartDisease"

[[entity.label]]
language = "en@rdfs:label"
text = "Heart Disease"

[[entity.label]]
language = "fr@rdfs:label"
text = "Maladie cardiaque"

[[entity]]
iri = "http://example.org/hasPart"
local_name = "hasPart"

[[entity.label]]
language = "en@rdfs:label"
text = "has part"
`

const enKey = "en@http://www.w3.org/2000/01/rdf-schema#label"

// setupTestProject writes a label file into a fresh project directory and
// isolates the run from the real home configuration.
func setupTestProject(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels.toml"), []byte(testLabels), 0o644))
	return dir
}

// runCLI runs the app in-process and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"shortform", "--no-color"}, args...))
	return out.String(), err
}

func TestMatch_Text(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "--root", dir, "--labels", filepath.Join(dir, "labels.toml"),
		"match", "--lang", "en@rdfs:label", "heart", "dis")
	require.NoError(t, err)

	assert.Equal(t, "http://example.org/HeartDisease\n  [Heart] [Dis]ease ("+enKey+")\n", out)
}

func TestMatch_Compact(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "--root", dir, "--labels", filepath.Join(dir, "labels.toml"),
		"match", "--compact", "--lang", "localName", "part")
	require.NoError(t, err)

	assert.Equal(t, "http://example.org/hasPart\tlocalName\thasPart\t3-7\n", out)
}

func TestMatch_JSONWithEntityCURIE(t *testing.T) {
	dir := setupTestProject(t)
	writeConfig(t, dir, `prefixes { ex "http://example.org/" }`)

	out, err := runCLI(t, "--root", dir, "--labels", filepath.Join(dir, "labels.toml"),
		"match", "--json", "--entity", "ex:HeartDisease", "--lang", "fr@**", "card")
	require.NoError(t, err)

	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "http://example.org/HeartDisease", results[0]["entity"])
	matches := results[0]["matches"].([]interface{})
	require.Len(t, matches, 1)
	assert.Equal(t, "Maladie cardiaque", matches[0].(map[string]interface{})["short_form"])
}

func TestMatch_NoMatches(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "--root", dir, "--labels", filepath.Join(dir, "labels.toml"), "match", "xyz")
	require.NoError(t, err)
	assert.Equal(t, "No matches\n", out)
}

func TestMatch_Errors(t *testing.T) {
	dir := setupTestProject(t)
	labelsPath := filepath.Join(dir, "labels.toml")

	tests := []struct {
		name string
		args []string
	}{
		{"no query", []string{"--root", dir, "--labels", labelsPath, "match"}},
		{"no label source", []string{"--root", dir, "match", "heart"}},
		{"missing store", []string{"--root", dir, "--store", filepath.Join(dir, "none.db"), "match", "heart"}},
		{"unknown entity", []string{"--root", dir, "--labels", labelsPath, "match", "--entity", "http://example.org/Nope", "heart"}},
		{"bad language pattern", []string{"--root", dir, "--labels", labelsPath, "match", "--lang", "en@[x", "heart"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestFields(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "--root", dir, "fields", "--json", "localName", "en@rdfs:label")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "localName", rows[0]["language"])
	assert.Equal(t, enKey, rows[1]["language"])
	assert.True(t, strings.HasPrefix(rows[1]["word"], "word."))
	assert.True(t, strings.HasPrefix(rows[1]["edge_ngram"], "edgeNGram."))
}

func TestTokens(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "--root", dir, "tokens", "--json", "--field", "localName", "hasPart")
	require.NoError(t, err)

	var body struct {
		Field  string `json:"field"`
		Tokens []struct {
			Text  string `json:"text"`
			Start int    `json:"start"`
			End   int    `json:"end"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "localName", body.Field)
	require.NotEmpty(t, body.Tokens)
	for _, tok := range body.Tokens {
		assert.LessOrEqual(t, tok.End, len("hasPart"))
	}
}

func TestTokens_UnknownKind(t *testing.T) {
	dir := setupTestProject(t)
	_, err := runCLI(t, "--root", dir, "tokens", "--lang", "en@rdfs:label", "--kind", "bogus", "x")
	assert.Error(t, err)
}

func TestLanguages(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "--root", dir, "--labels", filepath.Join(dir, "labels.toml"), "languages", "--json")
	require.NoError(t, err)

	var rows []languageRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []languageRow{
		{Language: "localName", Entities: 2},
		{Language: enKey, Entities: 2},
		{Language: "fr@http://www.w3.org/2000/01/rdf-schema#label", Entities: 1},
	}, rows)
}

func TestImportThenMatchFromStore(t *testing.T) {
	dir := setupTestProject(t)
	store := filepath.Join(dir, "labels.db")

	out, err := runCLI(t, "--root", dir, "--store", store, "import", filepath.Join(dir, "labels.toml"))
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 entities")

	out, err = runCLI(t, "--root", dir, "--store", store, "match", "--compact", "--lang", "en@rdfs:label", "part")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/hasPart\t"+enKey+"\thas part\t4-8\n", out)
}

func TestImport_RequiresStore(t *testing.T) {
	dir := setupTestProject(t)
	_, err := runCLI(t, "--root", dir, "import", filepath.Join(dir, "labels.toml"))
	assert.Error(t, err)
}

func TestExport_YAMLRoundTrip(t *testing.T) {
	dir := setupTestProject(t)
	exported := filepath.Join(dir, "out.yaml")

	_, err := runCLI(t, "--root", dir, "--labels", filepath.Join(dir, "labels.toml"), "export", "--output", exported)
	require.NoError(t, err)

	out, err := runCLI(t, "--root", dir, "--labels", exported, "match", "--compact", "--lang", "localName", "heart")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/HeartDisease\tlocalName\theartDisease\t0-5\n", out)
}

func TestExport_UnsupportedExtension(t *testing.T) {
	dir := setupTestProject(t)
	_, err := runCLI(t, "--root", dir, "--labels", filepath.Join(dir, "labels.toml"), "export", "--output", filepath.Join(dir, "out.csv"))
	assert.Error(t, err)
}

func TestConfig_InitShowValidate(t *testing.T) {
	dir := setupTestProject(t)
	cfgPath := filepath.Join(dir, config.FileName)

	_, err := runCLI(t, "config", "init", "--output", cfgPath)
	require.NoError(t, err)
	require.FileExists(t, cfgPath)

	_, err = runCLI(t, "config", "init", "--output", cfgPath)
	assert.Error(t, err, "init must not overwrite without --force")

	out, err := runCLI(t, "--root", dir, "--workers", "3", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "workers 3")

	out, err = runCLI(t, "--root", dir, "config", "show", "--format", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	out, err = runCLI(t, "--root", dir, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "no label source configured")
}

func TestConfig_ValidateRejectsBadFile(t *testing.T) {
	dir := setupTestProject(t)
	writeConfig(t, dir, "analysis { min_gram 5; max_gram 2 }")

	_, err := runCLI(t, "--root", dir, "config", "validate")
	assert.Error(t, err)
}

func TestLoadConfigWithOverrides_Stem(t *testing.T) {
	dir := setupTestProject(t)

	out, err := runCLI(t, "--root", dir, "--stem", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "enabled true")
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))
}
