package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ToKDL renders cfg in the layout parseKDL reads. Empty optional values are
// omitted so the output can be saved as a project file.
func ToKDL(cfg *Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "version %d\n\n", cfg.Version)

	if cfg.Project.Root != "" {
		fmt.Fprintf(&b, "project {\n    root %s\n}\n\n", quote(cfg.Project.Root))
	}

	a := cfg.Analysis
	b.WriteString("analysis {\n")
	fmt.Fprintf(&b, "    min_gram %d\n", a.MinGram)
	fmt.Fprintf(&b, "    max_gram %d\n", a.MaxGram)
	fmt.Fprintf(&b, "    split_cache_size %d\n", a.SplitCacheSize)
	if a.SegmenterDictionary != "" {
		fmt.Fprintf(&b, "    segmenter_dictionary %s\n", quote(a.SegmenterDictionary))
	}
	b.WriteString("    stemming {\n")
	fmt.Fprintf(&b, "        enabled %t\n", a.Stemming.Enabled)
	fmt.Fprintf(&b, "        min_length %d\n", a.Stemming.MinLength)
	if len(a.Stemming.Exclusions) > 0 {
		fmt.Fprintf(&b, "        exclusions %s\n", quoteAll(a.Stemming.Exclusions))
	}
	b.WriteString("    }\n}\n\n")

	b.WriteString("matching {\n")
	fmt.Fprintf(&b, "    workers %d\n", cfg.Matching.Workers)
	if len(cfg.Matching.DefaultLanguages) > 0 {
		fmt.Fprintf(&b, "    default_languages %s\n", quoteAll(cfg.Matching.DefaultLanguages))
	}
	b.WriteString("}\n\n")

	l := cfg.Labels
	b.WriteString("labels {\n")
	if l.Path != "" {
		fmt.Fprintf(&b, "    path %s\n", quote(l.Path))
	}
	if l.Store != "" {
		fmt.Fprintf(&b, "    store %s\n", quote(l.Store))
	}
	fmt.Fprintf(&b, "    watch %t\n", l.Watch)
	fmt.Fprintf(&b, "    watch_debounce_ms %d\n", l.WatchDebounceMs)
	b.WriteString("}\n")

	if len(cfg.Prefixes) > 0 {
		names := make([]string, 0, len(cfg.Prefixes))
		for name := range cfg.Prefixes {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\nprefixes {\n")
		for _, name := range names {
			fmt.Fprintf(&b, "    %s %s\n", name, quote(cfg.Prefixes[name]))
		}
		b.WriteString("}\n")
	}

	return b.String()
}

// quote produces a KDL string literal. KDL shares JSON's escapes for the
// characters that appear in paths, IRIs and language patterns.
func quote(s string) string {
	return strconv.Quote(s)
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return strings.Join(quoted, " ")
}
