package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	sferrors "github.com/standardbeagle/shortform/internal/errors"
	"github.com/standardbeagle/shortform/internal/types"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateAnalysisConfig(&cfg.Analysis); err != nil {
		return sferrors.NewConfigError("analysis", "", err)
	}

	if err := v.validateMatchingConfig(cfg); err != nil {
		return sferrors.NewConfigError("matching", "", err)
	}

	if err := v.validateLabelsConfig(&cfg.Labels); err != nil {
		return sferrors.NewConfigError("labels", cfg.Labels.Path, err)
	}

	for name, iri := range cfg.Prefixes {
		if name == "" || iri == "" {
			return sferrors.NewConfigError("prefixes", name, errors.New("prefix name and IRI must be non-empty"))
		}
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateAnalysisConfig(a *Analysis) error {
	if a.MinGram < 1 {
		return fmt.Errorf("min_gram must be at least 1, got %d", a.MinGram)
	}
	if a.MaxGram < a.MinGram {
		return fmt.Errorf("max_gram %d is smaller than min_gram %d", a.MaxGram, a.MinGram)
	}
	if a.Stemming.MinLength < 0 {
		return fmt.Errorf("stemming min_length cannot be negative, got %d", a.Stemming.MinLength)
	}
	if a.SplitCacheSize < 0 {
		return fmt.Errorf("split_cache_size cannot be negative, got %d", a.SplitCacheSize)
	}
	if a.SegmenterDictionary != "" {
		for _, p := range strings.Split(a.SegmenterDictionary, ",") {
			if _, err := os.Stat(strings.TrimSpace(p)); err != nil {
				return fmt.Errorf("segmenter dictionary: %w", err)
			}
		}
	}
	return nil
}

func (v *Validator) validateMatchingConfig(cfg *Config) error {
	// Workers: 0 means auto-detect (will be set by smart defaults)
	if cfg.Matching.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", cfg.Matching.Workers)
	}
	patterns := cfg.PrefixMap().ExpandPatterns(cfg.Matching.DefaultLanguages)
	if _, err := types.SelectLanguages(patterns, nil); err != nil {
		return err
	}
	return nil
}

func (v *Validator) validateLabelsConfig(l *Labels) error {
	if l.WatchDebounceMs < 0 {
		return fmt.Errorf("watch_debounce_ms cannot be negative, got %d", l.WatchDebounceMs)
	}
	if l.Watch && l.Path == "" {
		return errors.New("watch requires a label file path")
	}
	return nil
}

// setSmartDefaults applies smart defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// cores-1 leaves headroom for the caller, minimum of 1
	if cfg.Matching.Workers == 0 {
		cfg.Matching.Workers = max(1, runtime.NumCPU()-1)
	}

	if cfg.Labels.WatchDebounceMs == 0 {
		cfg.Labels.WatchDebounceMs = 200
	}

	if len(cfg.Matching.DefaultLanguages) == 0 {
		cfg.Matching.DefaultLanguages = []string{"**"}
	}

	if cfg.Prefixes == nil {
		cfg.Prefixes = map[string]string{}
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
