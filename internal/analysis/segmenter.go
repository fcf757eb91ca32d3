package analysis

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/huichen/sego"
)

// Segmenter splits a run of CJK text, which carries no spaces, into words.
// Returned spans are relative to run.
type Segmenter interface {
	Segment(run string) []Span
}

// RuneSegmenter emits one span per rune. It is used when no dictionary is
// configured.
type RuneSegmenter struct{}

// Segment splits run into single runes.
func (RuneSegmenter) Segment(run string) []Span {
	spans := make([]Span, 0, utf8.RuneCountInString(run))
	for i, r := range run {
		spans = append(spans, Span{Start: i, End: i + utf8.RuneLen(r), CJK: true})
	}
	return spans
}

// DictionarySegmenter segments CJK runs with a sego dictionary. The loaded
// dictionary is read-only, so one segmenter serves every analyzer session.
type DictionarySegmenter struct {
	seg sego.Segmenter
}

// NewDictionarySegmenter loads the comma separated dictionary files.
func NewDictionarySegmenter(dictionaries string) (*DictionarySegmenter, error) {
	files := strings.Split(dictionaries, ",")
	for _, f := range files {
		// sego aborts the process on a missing file; check up front
		if _, err := os.Stat(strings.TrimSpace(f)); err != nil {
			return nil, fmt.Errorf("segmenter dictionary: %w", err)
		}
	}

	ds := &DictionarySegmenter{}
	ds.seg.LoadDictionary(dictionaries)
	return ds, nil
}

// Segment splits run into dictionary words.
func (ds *DictionarySegmenter) Segment(run string) []Span {
	segments := ds.seg.Segment([]byte(run))
	spans := make([]Span, 0, len(segments))
	for _, s := range segments {
		if s.End() <= s.Start() {
			continue
		}
		spans = append(spans, Span{Start: s.Start(), End: s.End(), CJK: true})
	}
	return spans
}
