package mcp

import (
	"context"
	"errors"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/shortform/internal/debug"
	sferrors "github.com/standardbeagle/shortform/internal/errors"
	"github.com/standardbeagle/shortform/internal/fieldname"
	"github.com/standardbeagle/shortform/internal/labels"
	"github.com/standardbeagle/shortform/internal/searchstring"
	"github.com/standardbeagle/shortform/internal/types"
	"github.com/standardbeagle/shortform/internal/version"
)

var errEmptyLanguage = errors.New("language is required")

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params InfoParams
	if err := decodeParams(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("info", "", err)
	}

	switch strings.ToLower(strings.TrimSpace(params.Tool)) {
	case "version":
		return createJSONResponse(map[string]interface{}{
			"server_name":    ServerName,
			"server_version": version.FullInfo(),
			"build_id":       version.BuildID(),
			"go_version":     runtime.Version(),
			"platform":       runtime.GOOS + "/" + runtime.GOARCH,
		})
	case "match_short_forms":
		return createJSONResponse(map[string]interface{}{
			"name":    "match_short_forms",
			"example": map[string]interface{}{"query": []string{"heart dis"}, "languages": []string{"en@rdfs:label"}},
			"notes": []string{
				"each query word matches whole words and word prefixes of a label",
				"positions are byte offsets [start, end) into short_form",
				"an entity without any matching label is omitted",
			},
		})
	case "field_names":
		return createJSONResponse(map[string]interface{}{
			"name":    "field_names",
			"example": map[string]interface{}{"language": "en@rdfs:label"},
		})
	default:
		return createJSONResponse(map[string]interface{}{
			"server": ServerName,
			"tools":  []string{"info", "match_short_forms", "field_names", "list_languages"},
			"analysis": map[string]interface{}{
				"min_gram": s.cfg.Analysis.MinGram,
				"max_gram": s.cfg.Analysis.MaxGram,
				"stemming": s.cfg.Analysis.Stemming.Enabled,
			},
			"default_languages": s.cfg.Matching.DefaultLanguages,
		})
	}
}

func (s *Server) handleMatch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()

	var params MatchParams
	if err := decodeParams(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("match_short_forms", requestID, err)
	}
	debug.LogMCP("[%s] match_short_forms query=%q languages=%q entities=%d\n",
		requestID, []string(params.Query), []string(params.Languages), len(params.Entities))

	resp, err := s.match(ctx, requestID, params)
	if err != nil {
		s.diagnosticLogger.Errorf("[%s] match_short_forms: %v", requestID, err)
		return createErrorResponse("match_short_forms", requestID, err)
	}
	s.diagnosticLogger.Printf("[%s] match_short_forms: %d of %d entities matched",
		requestID, resp.EntitiesMatched, resp.EntitiesSearched)
	return createJSONResponse(resp)
}

// match runs one match_short_forms request. An empty query or an empty
// source is an empty answer, never an error.
func (s *Server) match(ctx context.Context, requestID string, params MatchParams) (*MatchResponse, error) {
	ss := types.SearchStrings(params.Query...)

	ids := make([]types.EntityID, 0, len(params.Entities))
	for _, e := range params.Entities {
		ids = append(ids, types.EntityID(s.prefixes.Expand(strings.TrimSpace(e))))
	}
	entities, err := labels.Collect(ctx, s.source, ids)
	if err != nil {
		return nil, err
	}

	patterns := []string(params.Languages)
	if len(patterns) == 0 {
		patterns = s.cfg.Matching.DefaultLanguages
	}
	langs, err := types.SelectLanguages(s.prefixes.ExpandPatterns(patterns), availableLanguages(entities))
	if err != nil {
		return nil, err
	}

	results, err := s.matcher.MatchEntities(ctx, entities, langs, ss, s.cfg.Matching.Workers)
	if err != nil {
		return nil, err
	}

	resp := &MatchResponse{
		RequestID:        requestID,
		Tokens:           searchstring.Sorted(s.matcher.Tokens(ss)),
		Languages:        make([]string, 0, langs.Len()),
		EntitiesSearched: len(entities),
		EntitiesMatched:  len(results),
		Matches:          []MatchItem{},
	}
	for _, l := range langs.Languages() {
		resp.Languages = append(resp.Languages, l.Key())
	}

	if params.Limit > 0 && len(results) > params.Limit {
		results = results[:params.Limit]
		resp.Truncated = true
	}
	for _, em := range results {
		for _, m := range em.Matches {
			resp.Matches = append(resp.Matches, MatchItem{
				Entity:      em.Entity,
				Language:    m.Language.Key(),
				ShortForm:   m.ShortForm,
				Highlighted: s.highlighter.Highlight(m),
				Positions:   m.Positions,
			})
		}
	}
	return resp, nil
}

// availableLanguages lists the languages of entities in first-seen order.
func availableLanguages(entities []types.EntityShortForms) []types.DictionaryLanguage {
	set := types.NewLanguageSet()
	for _, esf := range entities {
		for _, l := range esf.Languages() {
			set.Add(l)
		}
	}
	return set.Languages()
}

func (s *Server) handleFieldNames(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params FieldNamesParams
	if err := decodeParams(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("field_names", "", err)
	}
	if strings.TrimSpace(params.Language) == "" {
		return createErrorResponse("field_names", "", errEmptyLanguage)
	}

	lang, err := types.ParseLanguage(params.Language, s.prefixes)
	if err != nil {
		return createErrorResponse("field_names", "", err)
	}

	names := fieldname.All(s.translator, lang)
	return createJSONResponse(FieldNamesResponse{
		Language:       lang.Key(),
		LocalNameField: s.translator.LocalNameFieldName(),
		Value:          names.Value,
		Word:           names.Word,
		EdgeNGram:      names.EdgeNGram,
	})
}

func (s *Server) handleListLanguages(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entities, err := labels.Collect(ctx, s.source, nil)
	if err != nil {
		return createErrorResponse("list_languages", "", err)
	}

	counts := make(map[types.DictionaryLanguage]int)
	for _, esf := range entities {
		for _, l := range esf.Languages() {
			counts[l]++
		}
	}
	out := make([]LanguageCount, 0, len(counts))
	for _, l := range availableLanguages(entities) {
		out = append(out, LanguageCount{Language: l.Key(), Entities: counts[l]})
	}
	return createJSONResponse(map[string]interface{}{
		"entities":  len(entities),
		"languages": out,
	})
}

// errorKind classifies err for clients that branch on failure type.
func errorKind(err error) string {
	switch {
	case sferrors.IsAnalysisFailure(err):
		return string(sferrors.ErrorTypeAnalysis)
	case errors.Is(err, sferrors.ErrEntityNotFound):
		return string(sferrors.ErrorTypeEntityNotFound)
	case errors.Is(err, types.ErrInvalidLanguage), errors.Is(err, types.ErrEmptyAnnotationProperty):
		return "language"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return ""
	}
}
