package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from dir/.shortform.kdl. A missing
// file is not an error and yields a nil config.
func LoadKDL(dir string) (*Config, error) {
	kdlPath := filepath.Join(dir, FileName)

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadKDLFile(kdlPath)
}

// LoadKDLFile parses the configuration file at path. Relative paths inside
// the file are resolved against the file's directory.
func LoadKDLFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if cfg.Project.Root != "" && !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(dir, cfg.Project.Root))
	} else if cfg.Project.Root == "" {
		cfg.Project.Root = absOrSelf(dir)
	}
	cfg.Labels.Path = resolvePath(dir, cfg.Labels.Path)
	cfg.Labels.Store = resolvePath(dir, cfg.Labels.Store)
	cfg.Analysis.SegmenterDictionary = resolvePathList(dir, cfg.Analysis.SegmenterDictionary)

	return cfg, nil
}

// parseKDL reads a configuration document such as:
//
//	analysis {
//	    min_gram 1
//	    max_gram 20
//	    stemming { enabled true; min_length 3; exclusions "data" "news" }
//	}
//	matching { workers 4; default_languages "localName" "en@**" }
//	labels { path "labels.toml"; watch true }
//	prefixes { ex "http://example.org/" }
func parseKDL(content string) (*Config, error) {
	cfg := Default()
	cfg.Project.Root = ""

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "version":
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
			}
		case "analysis":
			parseAnalysis(cfg, n)
		case "matching":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Matching.Workers = v
					}
				case "default_languages":
					cfg.Matching.DefaultLanguages = collectStringArgs(cn)
					cfg.languagesSet = true
				}
			}
		case "labels":
			for _, cn := range n.Children {
				assignSimpleString(cn, "path", func(v string) { cfg.Labels.Path = v })
				assignSimpleString(cn, "store", func(v string) { cfg.Labels.Store = v })
				switch nodeName(cn) {
				case "watch":
					if v, ok := firstBoolArg(cn); ok {
						cfg.Labels.Watch = v
					}
				case "watch_debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Labels.WatchDebounceMs = v
					}
				}
			}
		case "prefixes":
			for _, cn := range n.Children { // prefixes { ex "http://example.org/" }
				if iri, ok := firstStringArg(cn); ok {
					cfg.Prefixes[nodeName(cn)] = iri
				}
			}
		default:
			log.Printf("WARNING: unknown section '%s' in KDL config", nodeName(n))
		}
	}

	return cfg, nil
}

func parseAnalysis(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		assignSimpleString(cn, "segmenter_dictionary", func(v string) { cfg.Analysis.SegmenterDictionary = v })
		switch nodeName(cn) {
		case "min_gram":
			if v, ok := firstIntArg(cn); ok {
				cfg.Analysis.MinGram = v
			}
		case "max_gram":
			if v, ok := firstIntArg(cn); ok {
				cfg.Analysis.MaxGram = v
			}
		case "split_cache_size":
			if v, ok := firstIntArg(cn); ok {
				cfg.Analysis.SplitCacheSize = v
			}
		case "stemming":
			// stemming true | stemming { enabled true ... }
			if v, ok := firstBoolArg(cn); ok {
				cfg.Analysis.Stemming.Enabled = v
			}
			for _, sn := range cn.Children {
				switch nodeName(sn) {
				case "enabled":
					if v, ok := firstBoolArg(sn); ok {
						cfg.Analysis.Stemming.Enabled = v
					}
				case "min_length":
					if v, ok := firstIntArg(sn); ok {
						cfg.Analysis.Stemming.MinLength = v
					}
				case "exclusions":
					cfg.Analysis.Stemming.Exclusions = collectStringArgs(sn)
				}
			}
		}
	}
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(dir, p))
}

func resolvePathList(dir, list string) string {
	if list == "" {
		return ""
	}
	parts := strings.Split(list, ",")
	for i, p := range parts {
		parts[i] = resolvePath(dir, strings.TrimSpace(p))
	}
	return strings.Join(parts, ",")
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		log.Printf("WARNING: invalid integer value for '%s' in KDL config, got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs accepts both inline arguments (node "a" "b") and block
// form (node { "a"; "b" }) where each child's name is the value.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
