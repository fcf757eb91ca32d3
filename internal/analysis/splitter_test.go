package analysis

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordSplitter_Split(t *testing.T) {
	ws := NewWordSplitter()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"single word", "heart", []string{"heart"}},
		{"camelCase", "hasPart", []string{"has", "Part"}},
		{"PascalCase", "HasPart", []string{"Has", "Part"}},
		{"acronym", "HTTPServer", []string{"HTTP", "Server"}},
		{"acronym in middle", "XMLHttpRequest", []string{"XML", "Http", "Request"}},
		{"all caps", "DNA", []string{"DNA"}},
		{"digits", "ICD10Code", []string{"ICD", "10", "Code"}},
		{"snake_case", "part_of", []string{"part", "of"}},
		{"kebab-case", "part-of", []string{"part", "of"}},
		{"curie", "obo:BFO_0000050", []string{"obo", "BFO", "0000050"}},
		{"path", "a/b.c", []string{"a", "b", "c"}},
		{"spaces", "Heart  Disease", []string{"Heart", "Disease"}},
		{"punctuation", "heart (organ)", []string{"heart", "organ"}},
		{"leading separator", "_private", []string{"private"}},
		{"accented", "Crème brûlée", []string{"Crème", "brûlée"}},
		{"combining mark", "Cre\u0300me", []string{"Cre\u0300me"}},
		{"cjk run", "心脏病", []string{"心脏病"}},
		{"cjk then latin", "東京Tower", []string{"東京", "Tower"}},
		{"kana with prolonged mark", "タワー", []string{"タワー"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ws.Words(tt.input))
		})
	}
}

func TestWordSplitter_Offsets(t *testing.T) {
	ws := NewWordSplitter()

	spans := ws.Split("hasPart")
	assert.Equal(t, []Span{{Start: 0, End: 3}, {Start: 3, End: 7}}, spans)

	spans = ws.Split("Heart Disease")
	assert.Equal(t, []Span{{Start: 0, End: 5}, {Start: 6, End: 13}}, spans)

	// byte offsets past multi-byte runes
	text := "é part"
	spans = ws.Split(text)
	assert.Equal(t, []Span{{Start: 0, End: 2}, {Start: 3, End: 7}}, spans)
	assert.Equal(t, "part", text[spans[1].Start:spans[1].End])

	spans = ws.Split("東京Tower")
	assert.Equal(t, []Span{{Start: 0, End: 6, CJK: true}, {Start: 6, End: 11}}, spans)
}

func TestWordSplitter_SpansWithinText(t *testing.T) {
	ws := NewWordSplitterWithSize(0)
	inputs := []string{"", "a", "aB", "A1b2C3", "--x--", "\xff\xfeab", "日本語テキスト", "x́y"}
	for _, in := range inputs {
		prevEnd := 0
		for _, s := range ws.Split(in) {
			assert.True(t, s.Start >= prevEnd && s.Start < s.End && s.End <= len(in), "%q: bad span %+v", in, s)
			prevEnd = s.End
		}
	}
}

func TestWordSplitter_Cache(t *testing.T) {
	ws := NewWordSplitterWithSize(2)

	first := ws.Split("hasPart")
	again := ws.Split("hasPart")
	assert.Equal(t, first, again)

	ws.Split("partOf")
	ws.Split("isA")

	ws.mu.Lock()
	assert.Len(t, ws.cacheKeys, 2)
	ws.mu.Unlock()
	_, ok := ws.cache.Load("hasPart")
	assert.False(t, ok, "oldest entry should be evicted")
	assert.Equal(t, []string{"has", "Part"}, ws.Words("hasPart"))
}

func TestWordSplitter_Concurrent(t *testing.T) {
	ws := NewWordSplitterWithSize(4)
	inputs := []string{"hasPart", "partOf", "HTTPServer", "Heart Disease", "ICD10Code", "regulates"}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				in := inputs[i%len(inputs)]
				assert.Equal(t, splitSpans(in), ws.Split(in))
			}
		}()
	}
	wg.Wait()
}
