package types

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyPositions  = errors.New("short form match requires at least one position")
	ErrInvalidPosition = errors.New("invalid short form match position")
)

// ShortFormMatchPosition is a half-open byte span [Start, End) of a short
// form that should be highlighted.
type ShortFormMatchPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewPosition validates 0 <= start < end.
func NewPosition(start, end int) (ShortFormMatchPosition, error) {
	if start < 0 || end <= start {
		return ShortFormMatchPosition{}, fmt.Errorf("%w: [%d,%d)", ErrInvalidPosition, start, end)
	}
	return ShortFormMatchPosition{Start: start, End: end}, nil
}

// Within reports whether the span fits inside text.
func (p ShortFormMatchPosition) Within(text string) bool {
	return p.Start >= 0 && p.Start < p.End && p.End <= len(text)
}

// Text returns the highlighted slice of shortForm. The position must be
// Within shortForm.
func (p ShortFormMatchPosition) Text(shortForm string) string {
	return shortForm[p.Start:p.End]
}

func (p ShortFormMatchPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.Start, p.End)
}

// SortPositions orders positions by start, then end.
func SortPositions(positions []ShortFormMatchPosition) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Start != positions[j].Start {
			return positions[i].Start < positions[j].Start
		}
		return positions[i].End < positions[j].End
	})
}

// ShortFormMatch records which spans of one short form matched a query.
// Positions are never empty, are unique and sorted by start.
type ShortFormMatch struct {
	Entity    EntityID                 `json:"entity"`
	ShortForm string                   `json:"short_form"`
	Language  DictionaryLanguage       `json:"language"`
	Positions []ShortFormMatchPosition `json:"positions"`
}

// NewShortFormMatch deduplicates and sorts positions and checks that each
// lies within shortForm.
func NewShortFormMatch(entity EntityID, shortForm string, lang DictionaryLanguage, positions []ShortFormMatchPosition) (ShortFormMatch, error) {
	if len(positions) == 0 {
		return ShortFormMatch{}, ErrEmptyPositions
	}

	seen := make(map[ShortFormMatchPosition]struct{}, len(positions))
	unique := make([]ShortFormMatchPosition, 0, len(positions))
	for _, p := range positions {
		if !p.Within(shortForm) {
			return ShortFormMatch{}, fmt.Errorf("%w: %s outside %q", ErrInvalidPosition, p, shortForm)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	SortPositions(unique)

	return ShortFormMatch{
		Entity:    entity,
		ShortForm: shortForm,
		Language:  lang,
		Positions: unique,
	}, nil
}

// HighlightedTexts returns the matched slices of the short form in position order.
func (m ShortFormMatch) HighlightedTexts() []string {
	out := make([]string, len(m.Positions))
	for i, p := range m.Positions {
		out[i] = p.Text(m.ShortForm)
	}
	return out
}
