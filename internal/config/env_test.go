package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "github.com/standardbeagle/shortform/internal/errors"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLabels, "/data/labels.yaml")
	t.Setenv(EnvStore, "/data/labels.db")
	t.Setenv(EnvWorkers, "6")
	t.Setenv(EnvMinGram, "2")
	t.Setenv(EnvMaxGram, " 12 ")
	t.Setenv(EnvStemming, "true")
	t.Setenv(EnvLanguages, "localName, en@**,,")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, "/data/labels.yaml", cfg.Labels.Path)
	assert.Equal(t, "/data/labels.db", cfg.Labels.Store)
	assert.Equal(t, 6, cfg.Matching.Workers)
	assert.Equal(t, 2, cfg.Analysis.MinGram)
	assert.Equal(t, 12, cfg.Analysis.MaxGram)
	assert.True(t, cfg.Analysis.Stemming.Enabled)
	assert.Equal(t, []string{"localName", "en@**"}, cfg.Matching.DefaultLanguages)
}

func TestApplyEnv_BadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"workers not a number", EnvWorkers, "many"},
		{"min gram not a number", EnvMinGram, "1.5"},
		{"stemming not a bool", EnvStemming, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			err := ApplyEnv(Default())
			require.Error(t, err)
			var cfgErr *sferrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.key, cfgErr.Field)
			assert.Equal(t, tt.value, cfgErr.Value)
		})
	}
}

func TestLoadEnv_DotEnvFile(t *testing.T) {
	require.NoError(t, os.Unsetenv(EnvStore))
	t.Cleanup(func() { os.Unsetenv(EnvStore) })

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvStore+"=from-dotenv.db\n"), 0644))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-dotenv.db", os.Getenv(EnvStore))

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg))
	assert.Equal(t, "from-dotenv.db", cfg.Labels.Store)
}

func TestLoadEnv_DoesNotOverrideProcessEnv(t *testing.T) {
	t.Setenv(EnvLabels, "process.toml")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvLabels+"=dotenv.toml\n"), 0644))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "process.toml", os.Getenv(EnvLabels))
}

func TestLoadEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
}
