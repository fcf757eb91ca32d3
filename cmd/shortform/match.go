package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/shortform/internal/analysis"
	"github.com/standardbeagle/shortform/internal/debug"
	"github.com/standardbeagle/shortform/internal/display"
	"github.com/standardbeagle/shortform/internal/fieldname"
	"github.com/standardbeagle/shortform/internal/labels"
	"github.com/standardbeagle/shortform/internal/matcher"
	"github.com/standardbeagle/shortform/internal/types"
)

func matchCmd() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Aliases:   []string{"m"},
		Usage:     "Match QUERY against entity labels and print highlighted short forms",
		ArgsUsage: "QUERY...",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "lang",
				Aliases: []string{"L"},
				Usage:   "Language pattern, e.g. localName, en@rdfs:label, '*@**' (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "entity",
				Aliases: []string{"e"},
				Usage:   "Entity IRI or CURIE to match (repeatable, default all)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "One tab separated line per match",
			},
		},
		Action: matchCommand,
	}
}

func matchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("match requires at least one QUERY", 2)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prefixes := cfg.PrefixMap()
	var ids []types.EntityID
	for _, e := range c.StringSlice("entity") {
		ids = append(ids, types.EntityID(prefixes.Expand(e)))
	}
	entities, err := labels.Collect(ctx, src, ids)
	if err != nil {
		return err
	}

	patterns := c.StringSlice("lang")
	if len(patterns) == 0 {
		patterns = cfg.Matching.DefaultLanguages
	}
	langs, err := types.SelectLanguages(prefixes.ExpandPatterns(patterns), entityLanguages(entities))
	if err != nil {
		return err
	}

	m, err := matcher.New(cfg.AnalysisConfig())
	if err != nil {
		return err
	}
	results, err := m.MatchEntities(ctx, entities, langs, types.SearchStrings(c.Args().Slice()...), cfg.Matching.Workers)
	if err != nil {
		return err
	}
	debug.LogMatch("%d of %d entities matched %q\n", len(results), len(entities), c.Args().Slice())

	format := "text"
	switch {
	case c.Bool("json"):
		format = "json"
	case c.Bool("compact"):
		format = "compact"
	}
	formatter := display.NewMatchFormatter(display.FormatterOptions{
		Format: format,
		Color:  format == "text" && !color.NoColor,
	})
	fmt.Fprint(c.App.Writer, formatter.Format(results))
	return nil
}

func fieldsCmd() *cli.Command {
	return &cli.Command{
		Name:      "fields",
		Usage:     "Print the index field names of each LANG",
		ArgsUsage: "LANG...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: fieldsCommand,
	}
}

type fieldsRow struct {
	Language string `json:"language"`
	fieldname.FieldNames
}

func fieldsCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("fields requires at least one LANG", 2)
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	langs, err := types.ParseLanguages(c.Args().Slice(), cfg.PrefixMap())
	if err != nil {
		return err
	}

	tr := fieldname.NewTranslator()
	rows := make([]fieldsRow, 0, len(langs))
	for _, l := range langs {
		rows = append(rows, fieldsRow{Language: l.Key(), FieldNames: fieldname.All(tr, l)})
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	for _, r := range rows {
		fmt.Fprintf(c.App.Writer, "%s\n  value:     %s\n  word:      %s\n  edgeNGram: %s\n",
			r.Language, r.Value, r.Word, r.EdgeNGram)
	}
	return nil
}

func tokensCmd() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Show the analyzer tokens of TEXT for a field",
		ArgsUsage: "TEXT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "field",
				Aliases: []string{"f"},
				Usage:   "Field name, e.g. localName, word.<suffix>, edgeNGram.<suffix>",
				Value:   fieldname.LocalNameField,
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Derive the field from this language instead of --field",
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Field kind used with --lang: value, word or edge",
				Value: "word",
			},
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: tokensCommand,
	}
}

func tokensCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("tokens requires TEXT", 2)
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	text := strings.Join(c.Args().Slice(), " ")

	field := c.String("field")
	if langFlag := c.String("lang"); langFlag != "" {
		lang, err := types.ParseLanguage(langFlag, cfg.PrefixMap())
		if err != nil {
			return err
		}
		names := fieldname.All(fieldname.NewTranslator(), lang)
		switch c.String("kind") {
		case "value":
			field = names.Value
		case "word":
			field = names.Word
		case "edge", "edgeNGram":
			field = names.EdgeNGram
		default:
			return cli.Exit(fmt.Sprintf("unknown field kind %q", c.String("kind")), 2)
		}
	}

	factory, err := analysis.NewFactory(cfg.AnalysisConfig())
	if err != nil {
		return err
	}
	tokens, err := analysis.Analyze(factory.Get(), field, text)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return json.NewEncoder(c.App.Writer).Encode(map[string]interface{}{
			"field":  field,
			"text":   text,
			"tokens": tokens,
		})
	}
	kind, _ := fieldname.Classify(field)
	fmt.Fprintf(c.App.Writer, "field %s (%s)\n", field, kind)
	for _, tok := range tokens {
		fmt.Fprintf(c.App.Writer, "  %-20s [%d,%d) %q\n", tok.Text, tok.Start, tok.End, text[tok.Start:tok.End])
	}
	return nil
}
