package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/shortform/internal/types"
)

// MatchItem is one highlighted short form in a match_short_forms response.
type MatchItem struct {
	Entity      types.EntityID                 `json:"entity"`
	Language    string                         `json:"language"`
	ShortForm   string                         `json:"short_form"`
	Highlighted string                         `json:"highlighted"`
	Positions   []types.ShortFormMatchPosition `json:"positions"`
}

// MatchResponse is the match_short_forms result.
type MatchResponse struct {
	RequestID        string      `json:"request_id"`
	Tokens           []string    `json:"tokens"`
	Languages        []string    `json:"languages"`
	EntitiesSearched int         `json:"entities_searched"`
	EntitiesMatched  int         `json:"entities_matched"`
	Truncated        bool        `json:"truncated,omitempty"`
	Matches          []MatchItem `json:"matches"`
}

// FieldNamesResponse is the field_names result.
type FieldNamesResponse struct {
	Language       string `json:"language"`
	LocalNameField string `json:"local_name_field"`
	Value          string `json:"value"`
	Word           string `json:"word"`
	EdgeNGram      string `json:"edge_ngram"`
}

// LanguageCount reports how many entities carry a language.
type LanguageCount struct {
	Language string `json:"language"`
	Entities int    `json:"entities"`
}

// createJSONResponse creates a standardized JSON response for MCP tools
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createErrorResponse reports a tool failure inside the result with IsError
// set, so the client sees it as a failed call rather than an empty answer.
func createErrorResponse(operation, requestID string, err error) (*mcp.CallToolResult, error) {
	errorData := map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	}
	if requestID != "" {
		errorData["request_id"] = requestID
	}
	if kind := errorKind(err); kind != "" {
		errorData["kind"] = kind
	}

	response, marshalErr := createJSONResponse(errorData)
	if marshalErr != nil {
		return nil, marshalErr
	}
	response.IsError = true
	return response, nil
}
