// Package mcp exposes short-form matching as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/shortform/internal/config"
	"github.com/standardbeagle/shortform/internal/display"
	"github.com/standardbeagle/shortform/internal/fieldname"
	"github.com/standardbeagle/shortform/internal/labels"
	"github.com/standardbeagle/shortform/internal/matcher"
	"github.com/standardbeagle/shortform/internal/types"
	"github.com/standardbeagle/shortform/internal/version"
)

// ServerName identifies the server to MCP clients.
const ServerName = "shortform-mcp-server"

// Server answers MCP tool calls against one label source.
type Server struct {
	cfg              *config.Config
	source           labels.Source
	matcher          *matcher.Matcher
	translator       fieldname.Translator
	prefixes         types.PrefixMap
	highlighter      *display.MatchFormatter
	server           *mcp.Server
	diagnosticLogger *DiagnosticLogger // file-based only, stdio belongs to the protocol

	watchWG sync.WaitGroup
}

// Option customises a Server.
type Option func(*Server)

// WithLogger replaces the file-based diagnostic logger.
func WithLogger(dl *DiagnosticLogger) Option {
	return func(s *Server) { s.diagnosticLogger = dl }
}

// WithMatcher replaces the matcher built from cfg.
func WithMatcher(m *matcher.Matcher) Option {
	return func(s *Server) { s.matcher = m }
}

// NewServer builds the server and registers its tools. A nil source serves
// no entities.
func NewServer(cfg *config.Config, source labels.Source, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
		if err := config.ValidateConfig(cfg); err != nil {
			return nil, err
		}
	}
	if source == nil {
		source = labels.NewMemorySource()
	}

	s := &Server{
		cfg:         cfg,
		source:      source,
		translator:  fieldname.NewTranslator(),
		prefixes:    cfg.PrefixMap(),
		highlighter: display.NewMatchFormatter(display.FormatterOptions{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.diagnosticLogger == nil {
		s.diagnosticLogger = NewDiagnosticLogger()
	}
	if s.matcher == nil {
		m, err := matcher.New(cfg.AnalysisConfig())
		if err != nil {
			return nil, err
		}
		s.matcher = m
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.Version,
	}, nil)
	s.registerTools()

	s.diagnosticLogger.Printf("MCP server initialized (build %s)", version.BuildID())
	return s, nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "info",
		Description: "Describe the server and its tools. Use {\"tool\": \"version\"} for build details.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"tool": {
					Type:        "string",
					Description: "Tool name to describe, or 'version'",
				},
			},
		},
	}, s.handleInfo)

	s.server.AddTool(&mcp.Tool{
		Name: "match_short_forms",
		Description: "Find which entity labels match a query and where to highlight them. " +
			"Query words match whole words and word prefixes of each label.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Search strings, e.g. [\"heart dis\"]",
				},
				"languages": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Language patterns such as \"localName\", \"en@rdfs:label\" or \"*@**\". Defaults to the configured default_languages.",
				},
				"entities": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Entity IRIs or CURIEs to match. Defaults to every entity.",
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum number of matching entities to return (0 = all)",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleMatch)

	s.server.AddTool(&mcp.Tool{
		Name:        "field_names",
		Description: "Return the value, word and edge-ngram index field names of a dictionary language.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"language": {
					Type:        "string",
					Description: "\"localName\", \"<tag>@<property IRI or CURIE>\" or \"@<property>\"",
				},
			},
			Required: []string{"language"},
		},
	}, s.handleFieldNames)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_languages",
		Description: "List the dictionary languages present in the label source with entity counts.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleListLanguages)
}

// Start serves the tools on stdio until ctx is done or the client leaves.
// When the source is a label file and watching is configured, the file is
// reloaded on change for as long as the server runs.
func (s *Server) Start(ctx context.Context) error {
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")

	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.watchWG.Wait()
	}()
	s.startWatch(runCtx)

	err := s.server.Run(runCtx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) startWatch(ctx context.Context) {
	fs, ok := s.source.(*labels.FileSource)
	if !ok || !s.cfg.Labels.Watch {
		return
	}

	s.watchWG.Add(1)
	go func() {
		defer s.watchWG.Done()
		err := fs.Watch(ctx, labels.WatchOptions{
			Debounce: time.Duration(s.cfg.Labels.WatchDebounceMs) * time.Millisecond,
			OnReload: func(changed bool, err error) {
				if err != nil {
					s.diagnosticLogger.Errorf("label reload failed: %v", err)
					return
				}
				if changed {
					s.diagnosticLogger.Printf("labels reloaded from %s", fs.Path())
				}
			},
		})
		if err != nil {
			s.diagnosticLogger.Errorf("label watch stopped: %v", err)
		}
	}()
}

// Shutdown releases the diagnostic log. Start must have returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.diagnosticLogger.Printf("MCP server shutdown complete")
	return s.diagnosticLogger.Close()
}

// MCPServer exposes the underlying SDK server, e.g. for in-memory transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
