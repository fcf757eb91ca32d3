package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	sferrors "github.com/standardbeagle/shortform/internal/errors"
)

// Environment overrides. They win over every configuration file.
const (
	EnvLabels              = "SHORTFORM_LABELS"
	EnvStore               = "SHORTFORM_STORE"
	EnvWorkers             = "SHORTFORM_WORKERS"
	EnvMinGram             = "SHORTFORM_MIN_GRAM"
	EnvMaxGram             = "SHORTFORM_MAX_GRAM"
	EnvStemming            = "SHORTFORM_STEMMING"
	EnvLanguages           = "SHORTFORM_LANGUAGES"
	EnvSegmenterDictionary = "SHORTFORM_SEGMENTER_DICTIONARY"
)

// LoadEnv loads a .env file into the process environment. Variables that
// are already set are left alone and a missing file is ignored.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return sferrors.NewConfigError("env", path, err)
	}
	return nil
}

// ApplyEnv copies SHORTFORM_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvLabels); v != "" {
		cfg.Labels.Path = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		cfg.Labels.Store = v
	}
	if v := os.Getenv(EnvSegmenterDictionary); v != "" {
		cfg.Analysis.SegmenterDictionary = v
	}
	if v := os.Getenv(EnvLanguages); v != "" {
		cfg.Matching.DefaultLanguages = splitList(v)
		cfg.languagesSet = true
	}

	ints := []struct {
		name   string
		target *int
	}{
		{EnvWorkers, &cfg.Matching.Workers},
		{EnvMinGram, &cfg.Analysis.MinGram},
		{EnvMaxGram, &cfg.Analysis.MaxGram},
	}
	for _, iv := range ints {
		v := os.Getenv(iv.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return sferrors.NewConfigError(iv.name, v, err)
		}
		*iv.target = n
	}

	if v := os.Getenv(EnvStemming); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return sferrors.NewConfigError(EnvStemming, v, err)
		}
		cfg.Analysis.Stemming.Enabled = b
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
