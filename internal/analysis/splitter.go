package analysis

import (
	"sync"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) of a word in the split text.
// CJK marks runs of ideographic or kana script that still need segmenting.
type Span struct {
	Start int
	End   int
	CJK   bool
}

// Len returns the span width in bytes.
func (s Span) Len() int { return s.End - s.Start }

// WordSplitter splits short forms into words and reports where each word
// sits in the original text.
// Handles: whitespace and punctuation, camelCase, PascalCase, acronyms
// (HTTPServer -> HTTP Server), letter/digit boundaries and separator
// characters such as _ - . / :.
//
// Thread-safe: the split cache is guarded and bounded.
type WordSplitter struct {
	cache     sync.Map // text -> []Span
	cacheKeys []string // insertion order for eviction
	maxSize   int
	mu        sync.Mutex
}

// DefaultSplitCacheSize bounds the number of cached split results.
const DefaultSplitCacheSize = 1000

// NewWordSplitter creates a splitter with the default cache size.
func NewWordSplitter() *WordSplitter {
	return NewWordSplitterWithSize(DefaultSplitCacheSize)
}

// NewWordSplitterWithSize creates a splitter caching up to cacheSize results.
// A size of zero disables the cache.
func NewWordSplitterWithSize(cacheSize int) *WordSplitter {
	if cacheSize < 0 {
		cacheSize = 0
	}
	return &WordSplitter{
		cacheKeys: make([]string, 0, cacheSize),
		maxSize:   cacheSize,
	}
}

// boundary tells the split loop what kind of transition it is looking at.
type boundary uint8

const (
	boundaryNone boundary = iota
	boundaryBefore  // new word starts at the current rune
	boundaryAcronym // new word starts at the previous rune
)

// prolongedSoundMark belongs to the Common script but only occurs in kana.
const prolongedSoundMark = '\u30fc'

func isCJK(r rune) bool {
	return r == prolongedSoundMark || unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// transition inspects the runes around position i of a word in progress.
// wordRunes counts the runes already in the word.
func transition(prevPrev, prev, ch rune, wordRunes int) boundary {
	if wordRunes == 0 {
		return boundaryNone
	}
	// lowercase to uppercase (camelCase)
	if unicode.IsLower(prev) && unicode.IsUpper(ch) {
		return boundaryBefore
	}
	// end of an acronym: HTTPServer splits before the S
	if wordRunes >= 2 && unicode.IsUpper(prevPrev) && unicode.IsUpper(prev) && unicode.IsLower(ch) {
		return boundaryAcronym
	}
	if (unicode.IsLetter(prev) && unicode.IsDigit(ch)) ||
		(unicode.IsDigit(prev) && unicode.IsLetter(ch)) {
		return boundaryBefore
	}
	return boundaryNone
}

// Split returns the word spans of text in order. The returned slice is
// shared with the cache and must not be modified.
func (ws *WordSplitter) Split(text string) []Span {
	if text == "" {
		return nil
	}
	if ws.maxSize > 0 {
		if cached, ok := ws.cache.Load(text); ok {
			return cached.([]Span)
		}
	}

	spans := splitSpans(text)

	if ws.maxSize > 0 {
		ws.store(text, spans)
	}
	return spans
}

// Words returns the words of text as substrings of the original text.
func (ws *WordSplitter) Words(text string) []string {
	spans := ws.Split(text)
	words := make([]string, 0, len(spans))
	for _, s := range spans {
		words = append(words, text[s.Start:s.End])
	}
	return words
}

func (ws *WordSplitter) store(text string, spans []Span) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if _, loaded := ws.cache.LoadOrStore(text, spans); loaded {
		return
	}
	ws.cacheKeys = append(ws.cacheKeys, text)
	if len(ws.cacheKeys) > ws.maxSize {
		evict := len(ws.cacheKeys) - ws.maxSize
		for _, k := range ws.cacheKeys[:evict] {
			ws.cache.Delete(k)
		}
		ws.cacheKeys = append(ws.cacheKeys[:0], ws.cacheKeys[evict:]...)
	}
}

// splitSpans does the actual work. CJK runs are emitted as single spans
// flagged CJK; the analyzer segments them afterwards.
func splitSpans(text string) []Span {
	spans := make([]Span, 0, 8)

	start := -1
	cjk := false
	wordRunes := 0
	var prev, prevPrev rune
	prevIdx := 0

	flush := func(end int) {
		if start >= 0 && end > start {
			spans = append(spans, Span{Start: start, End: end, CJK: cjk})
		}
		start = -1
		cjk = false
		wordRunes = 0
		prev, prevPrev = 0, 0
	}

	for i, ch := range text {
		switch {
		case ch == utf8.RuneError:
			flush(i)
			continue
		case !isWordRune(ch):
			flush(i)
			continue
		case isCJK(ch):
			if start >= 0 && !cjk {
				flush(i)
			}
			if start < 0 {
				start, cjk = i, true
			}
			wordRunes++
			prevPrev, prev, prevIdx = prev, ch, i
			continue
		}

		if cjk {
			// marks keep combining with the CJK run
			if unicode.IsMark(ch) {
				wordRunes++
				prevPrev, prev, prevIdx = prev, ch, i
				continue
			}
			flush(i)
		}

		if start < 0 {
			start = i
		} else {
			switch transition(prevPrev, prev, ch, wordRunes) {
			case boundaryBefore:
				flush(i)
				start = i
			case boundaryAcronym:
				keep := prev
				flush(prevIdx)
				start = prevIdx
				wordRunes = 1
				prev = keep
			}
		}

		wordRunes++
		prevPrev, prev, prevIdx = prev, ch, i
	}
	flush(len(text))

	return spans
}
