package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StringList accepts either a JSON array of strings or a single string, so
// {"query": "heart"} and {"query": ["heart"]} mean the same thing.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a string or an array of strings: %w", err)
	}
	*l = StringList(many)
	return nil
}

// MatchParams are the arguments of match_short_forms.
type MatchParams struct {
	Query     StringList `json:"query"`
	Languages StringList `json:"languages,omitempty"` // patterns; config default_languages when empty
	Entities  StringList `json:"entities,omitempty"`  // IRIs or CURIEs; every entity when empty
	Limit     int        `json:"limit,omitempty"`     // max entities returned, 0 = all
}

// FieldNamesParams are the arguments of field_names.
type FieldNamesParams struct {
	Language string `json:"language"`
}

// InfoParams are the arguments of info.
type InfoParams struct {
	Tool string `json:"tool,omitempty"`
}

// decodeParams unmarshals raw tool arguments; an absent body is an empty object.
func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}
