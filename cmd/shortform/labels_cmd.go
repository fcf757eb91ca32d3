package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/shortform/internal/labels"
	"github.com/standardbeagle/shortform/internal/types"
)

// entityLanguages lists the languages of entities in first-seen order.
func entityLanguages(entities []types.EntityShortForms) []types.DictionaryLanguage {
	set := types.NewLanguageSet()
	for _, esf := range entities {
		for _, l := range esf.Languages() {
			set.Add(l)
		}
	}
	return set.Languages()
}

func languagesCmd() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List the dictionary languages present in the label source",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: languagesCommand,
	}
}

type languageRow struct {
	Language string `json:"language"`
	Entities int    `json:"entities"`
}

func languagesCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	entities, err := labels.Collect(context.Background(), src, nil)
	if err != nil {
		return err
	}

	counts := make(map[types.DictionaryLanguage]int)
	for _, esf := range entities {
		for _, l := range esf.Languages() {
			counts[l]++
		}
	}
	rows := make([]languageRow, 0, len(counts))
	for _, l := range entityLanguages(entities) {
		rows = append(rows, languageRow{Language: l.Key(), Entities: counts[l]})
	}

	if c.Bool("json") {
		return json.NewEncoder(c.App.Writer).Encode(rows)
	}
	fmt.Fprintf(c.App.Writer, "%d entities\n", len(entities))
	for _, r := range rows {
		fmt.Fprintf(c.App.Writer, "  %-40s %d\n", r.Language, r.Entities)
	}
	return nil
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Load a label file into the bolt store",
		ArgsUsage: "FILE",
		Action:    importCommand,
	}
}

func importCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	path := c.Args().First()
	if path == "" {
		path = cfg.Labels.Path
	}
	if path == "" {
		return cli.Exit("import requires FILE or a configured label path", 2)
	}
	if cfg.Labels.Store == "" {
		return cli.Exit("import requires --store or labels { store } in the config", 2)
	}

	fs, err := labels.NewFileSource(path, cfg.PrefixMap())
	if err != nil {
		return err
	}
	entities := fs.Snapshot()

	store, err := labels.OpenBoltStore(cfg.Labels.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.PutAll(context.Background(), entities); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "imported %d entities from %s into %s\n", len(entities), path, store.Path())
	return nil
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the label source to a TOML or YAML file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output file; the extension picks the format (.toml, .yaml, .yml)",
				Required: true,
			},
		},
		Action: exportCommand,
	}
}

func exportCommand(c *cli.Context) error {
	output := c.String("output")
	format, err := labels.FormatFromPath(output)
	if err != nil {
		return err
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	entities, err := labels.Collect(context.Background(), src, nil)
	if err != nil {
		return err
	}
	data, err := labels.Encode(entities, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(c.App.Writer, "exported %d entities to %s\n", len(entities), output)
	return nil
}
