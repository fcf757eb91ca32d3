package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/shortform/internal/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:    "init",
				Aliases: []string{"i"},
				Usage:   "Write a default configuration file (" + config.FileName + ")",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   config.FileName,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite existing configuration file",
					},
				},
				Action: configInitCommand,
			},
			{
				Name:    "show",
				Aliases: []string{"s"},
				Usage:   "Show the effective configuration after merging files, .env and flags",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: kdl, json",
						Value:   "kdl",
					},
				},
				Action: configShowCommand,
			},
			{
				Name:    "validate",
				Aliases: []string{"v"},
				Usage:   "Validate the configuration",
				Action:  configValidateCommand,
			},
		},
	}
}

func configInitCommand(c *cli.Context) error {
	output := c.String("output")
	if !c.Bool("force") {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", output)
		}
	}

	cfg := config.Default()
	cfg.Project.Root = ""
	content := "// shortform configuration\n\n" + config.ToKDL(cfg)
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Configuration file created: %s\n", output)
	return nil
}

func configShowCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "kdl":
		fmt.Fprint(c.App.Writer, config.ToKDL(cfg))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", c.String("format"))
	}
}

func configValidateCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		fmt.Fprintf(c.App.Writer, "Configuration validation failed: %v\n", err)
		return err
	}

	var warnings []string
	if cfg.Labels.Path == "" && cfg.Labels.Store == "" {
		warnings = append(warnings, "no label source configured; commands need --labels or --store")
	}
	if cfg.Analysis.Stemming.Enabled {
		warnings = append(warnings, "stemming is on; labels and queries must be analysed with the same setting")
	}

	fmt.Fprintf(c.App.Writer, "Configuration is valid\n")
	fmt.Fprintf(c.App.Writer, "Project root: %s\n", cfg.Project.Root)
	fmt.Fprintf(c.App.Writer, "Edge n-grams: %d..%d, workers: %d, default languages: %v\n",
		cfg.Analysis.MinGram, cfg.Analysis.MaxGram, cfg.Matching.Workers, cfg.Matching.DefaultLanguages)

	if len(warnings) > 0 {
		fmt.Fprintf(c.App.Writer, "\nWarnings:\n")
		for _, w := range warnings {
			fmt.Fprintf(c.App.Writer, "  - %s\n", w)
		}
	}
	return nil
}
