package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/shortform/internal/analysis"
	"github.com/standardbeagle/shortform/internal/types"
)

// FileName is the configuration file looked up in the home and project
// directories.
const FileName = ".shortform.kdl"

type Config struct {
	Version  int
	Project  Project
	Analysis Analysis
	Matching Matching
	Labels   Labels
	Prefixes map[string]string // CURIE prefix -> namespace IRI

	// languagesSet records that default_languages came from the file rather
	// than from Default.
	languagesSet bool
}

type Project struct {
	Root string // directory the configuration was loaded for
}

// Analysis configures token shaping. It must be identical whenever labels
// are indexed and matched.
type Analysis struct {
	MinGram             int    // shortest edge-ngram fragment, in runes
	MaxGram             int    // longest edge-ngram fragment, in runes
	Stemming            Stemming
	SegmenterDictionary string // comma separated sego dictionaries for CJK text
	SplitCacheSize      int    // cached word splits
}

type Stemming struct {
	Enabled    bool
	MinLength  int
	Exclusions []string
}

type Matching struct {
	Workers          int      // parallel entity matchers, 0 = auto
	DefaultLanguages []string // language patterns used when a request names none
}

type Labels struct {
	Path            string // TOML or YAML label file
	Store           string // bolt database
	Watch           bool   // reload Path when it changes
	WatchDebounceMs int
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Version: 1,
		Project: Project{Root: cwd},
		Analysis: Analysis{
			MinGram:        analysis.DefaultMinGram,
			MaxGram:        analysis.DefaultMaxGram,
			Stemming:       Stemming{Enabled: false, MinLength: analysis.DefaultStemMinLength},
			SplitCacheSize: analysis.DefaultSplitCacheSize,
		},
		Matching: Matching{
			Workers:          0,
			DefaultLanguages: []string{"**"},
		},
		Labels: Labels{
			WatchDebounceMs: 200,
		},
		Prefixes: map[string]string{},
	}
}

// AnalysisConfig converts the analysis section for analysis.NewFactory.
func (c *Config) AnalysisConfig() analysis.Config {
	return analysis.Config{
		MinGram: c.Analysis.MinGram,
		MaxGram: c.Analysis.MaxGram,
		Stemming: analysis.StemmingConfig{
			Enabled:    c.Analysis.Stemming.Enabled,
			MinLength:  c.Analysis.Stemming.MinLength,
			Exclusions: c.Analysis.Stemming.Exclusions,
		},
		SegmenterDictionary: c.Analysis.SegmenterDictionary,
		SplitCacheSize:      c.Analysis.SplitCacheSize,
	}
}

// PrefixMap returns the default prefixes overlaid with configured ones.
func (c *Config) PrefixMap() types.PrefixMap {
	return types.DefaultPrefixes().Merge(c.Prefixes)
}

// Load reads the configuration for the current directory.
func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot builds the effective configuration:
//
//  1. path, when given, is the only file read;
//  2. otherwise ~/.shortform.kdl is merged with rootDir/.shortform.kdl,
//     the project file winning;
//  3. rootDir/.env is loaded and SHORTFORM_* variables override the result;
//  4. the result is validated and defaults are filled in.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	var cfg *Config
	if path != "" {
		fileCfg, err := LoadKDLFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	} else {
		var baseConfig *Config
		if homeDir, err := os.UserHomeDir(); err == nil {
			if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
				baseConfig = globalCfg
			}
		}

		projectConfig, err := LoadKDL(searchDir)
		if err != nil {
			return nil, err
		}

		switch {
		case baseConfig != nil && projectConfig != nil:
			cfg = mergeConfigs(baseConfig, projectConfig)
		case projectConfig != nil:
			cfg = projectConfig
		case baseConfig != nil:
			cfg = baseConfig
			cfg.Project.Root = absOrSelf(searchDir)
		default:
			cfg = Default()
			cfg.Project.Root = absOrSelf(searchDir)
		}
	}

	if err := LoadEnv(filepath.Join(searchDir, ".env")); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfigs merges a base config with a project config.
// Project config takes precedence; prefixes are combined and list or path
// settings the project leaves empty come from the base.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	merged.Prefixes = make(map[string]string, len(base.Prefixes)+len(project.Prefixes))
	for k, v := range base.Prefixes {
		merged.Prefixes[k] = v
	}
	for k, v := range project.Prefixes {
		merged.Prefixes[k] = v
	}

	if !project.languagesSet && len(base.Matching.DefaultLanguages) > 0 {
		merged.Matching.DefaultLanguages = base.Matching.DefaultLanguages
	}
	if merged.Labels.Path == "" {
		merged.Labels.Path = base.Labels.Path
	}
	if merged.Labels.Store == "" {
		merged.Labels.Store = base.Labels.Store
	}
	if merged.Analysis.SegmenterDictionary == "" {
		merged.Analysis.SegmenterDictionary = base.Analysis.SegmenterDictionary
	}
	if len(merged.Analysis.Stemming.Exclusions) == 0 {
		merged.Analysis.Stemming.Exclusions = base.Analysis.Stemming.Exclusions
	}

	return &merged
}

func absOrSelf(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
