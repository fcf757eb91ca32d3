package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/shortform/internal/config"
	"github.com/standardbeagle/shortform/internal/debug"
	"github.com/standardbeagle/shortform/internal/labels"
	"github.com/standardbeagle/shortform/internal/version"
)

var errNoLabelSource = errors.New("no label source: pass --labels FILE or --store DB, or set labels { path } in " + config.FileName)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	cfg, err := config.LoadWithRoot(configPath, c.String("root"))
	if err != nil {
		if configPath == "" {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if labelsFlag := c.String("labels"); labelsFlag != "" {
		abs, err := filepath.Abs(labelsFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve label path %q: %w", labelsFlag, err)
		}
		cfg.Labels.Path = abs
	}
	if storeFlag := c.String("store"); storeFlag != "" {
		cfg.Labels.Store = storeFlag
	}
	if c.IsSet("workers") {
		cfg.Matching.Workers = c.Int("workers")
	}
	if c.IsSet("stem") {
		cfg.Analysis.Stemming.Enabled = c.Bool("stem")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSource opens the label file when one is configured, else the bolt
// store. The returned close function is never nil.
func openSource(cfg *config.Config) (labels.Source, func() error, error) {
	noop := func() error { return nil }

	switch {
	case cfg.Labels.Path != "":
		fs, err := labels.NewFileSource(cfg.Labels.Path, cfg.PrefixMap())
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	case cfg.Labels.Store != "":
		if _, err := os.Stat(cfg.Labels.Store); err != nil {
			return nil, noop, fmt.Errorf("label store %s: %w", cfg.Labels.Store, err)
		}
		store, err := labels.OpenBoltStore(cfg.Labels.Store)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, errNoLabelSource
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "shortform",
		Usage:                  "Match queries against entity labels and highlight where they hit",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: ~/" + config.FileName + " merged with ./" + config.FileName + ")",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project directory holding " + config.FileName + " and .env",
			},
			&cli.StringFlag{
				Name:    "labels",
				Aliases: []string{"l"},
				Usage:   "Label file (.toml, .yaml, .yml)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Bolt label store",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parallel entity matchers (0 = auto)",
			},
			&cli.BoolFlag{
				Name:  "stem",
				Usage: "Stem whole words (must match how labels were analysed)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "debug-log",
				Usage: "Write debug output to a file under the temp directory",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			if c.Bool("debug-log") {
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", path)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: []*cli.Command{
			matchCmd(),
			fieldsCmd(),
			tokensCmd(),
			languagesCmd(),
			importCmd(),
			exportCmd(),
			configCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
