package analysis

import (
	"fmt"
	"unicode/utf8"

	"github.com/standardbeagle/shortform/internal/debug"
	"github.com/standardbeagle/shortform/internal/fieldname"
)

const (
	DefaultMinGram = 1
	DefaultMaxGram = 20
)

// StemmingConfig controls porter2 stemming of whole words.
type StemmingConfig struct {
	Enabled    bool
	MinLength  int
	Exclusions []string
}

// Config is the read-only configuration shared by every session of a
// Factory. Zero values select defaults.
type Config struct {
	MinGram             int
	MaxGram             int
	Stemming            StemmingConfig
	SegmenterDictionary string
	SplitCacheSize      int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		MinGram:        DefaultMinGram,
		MaxGram:        DefaultMaxGram,
		Stemming:       StemmingConfig{MinLength: DefaultStemMinLength},
		SplitCacheSize: DefaultSplitCacheSize,
	}
}

func (c Config) withDefaults() Config {
	if c.MinGram == 0 {
		c.MinGram = DefaultMinGram
	}
	if c.MaxGram == 0 {
		c.MaxGram = DefaultMaxGram
	}
	return c
}

// Validate reports gram bounds that no edge-ngram field could satisfy.
func (c Config) Validate() error {
	if c.MinGram < 1 {
		return fmt.Errorf("min gram must be at least 1, got %d", c.MinGram)
	}
	if c.MaxGram < c.MinGram {
		return fmt.Errorf("max gram %d is below min gram %d", c.MaxGram, c.MinGram)
	}
	return nil
}

// pipeline is the state shared read-only by all sessions of one factory.
type pipeline struct {
	cfg       Config
	splitter  *WordSplitter
	stemmer   *Stemmer
	segmenter Segmenter
}

// IndexingFactory builds IndexingAnalyzer sessions.
type IndexingFactory struct {
	p *pipeline
}

var _ Factory = (*IndexingFactory)(nil)

// NewFactory validates cfg and prepares the shared pipeline, loading the
// segmenter dictionary when one is configured.
func NewFactory(cfg Config) (*IndexingFactory, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stemmer := NewStemmerFromConfig(cfg.Stemming)
	if err := stemmer.Validate(); err != nil {
		return nil, err
	}

	var segmenter Segmenter = RuneSegmenter{}
	if cfg.SegmenterDictionary != "" {
		ds, err := NewDictionarySegmenter(cfg.SegmenterDictionary)
		if err != nil {
			return nil, err
		}
		segmenter = ds
	}

	debug.LogAnalysis("factory ready: grams %d..%d, stemming=%v, dictionary=%q\n",
		cfg.MinGram, cfg.MaxGram, stemmer.IsEnabled(), cfg.SegmenterDictionary)

	return &IndexingFactory{p: &pipeline{
		cfg:       cfg,
		splitter:  NewWordSplitterWithSize(cfg.SplitCacheSize),
		stemmer:   stemmer,
		segmenter: segmenter,
	}}, nil
}

// MustNewFactory is NewFactory that panics on invalid configuration.
func MustNewFactory(cfg Config) *IndexingFactory {
	f, err := NewFactory(cfg)
	if err != nil {
		panic(err)
	}
	return f
}

// Get returns a fresh session.
func (f *IndexingFactory) Get() Analyzer {
	return f.Session()
}

// Session is Get with the concrete type.
func (f *IndexingFactory) Session() *IndexingAnalyzer {
	return &IndexingAnalyzer{p: f.p, norm: NewNormalizer()}
}

// Splitter exposes the shared word splitter.
func (f *IndexingFactory) Splitter() *WordSplitter { return f.p.splitter }

// Stemmer exposes the shared stemmer.
func (f *IndexingFactory) Stemmer() *Stemmer { return f.p.stemmer }

// Config returns the effective configuration.
func (f *IndexingFactory) Config() Config { return f.p.cfg }

// IndexingAnalyzer shapes tokens by field kind:
//
//	value.*      one token, the whole normalised text
//	word.*       normalised words, stemmed when enabled
//	localName    same as word.*
//	edgeNGram.*  normalised prefixes of every word, MinGram..MaxGram runes
//
// Field names it does not recognise are analysed as words. Offsets always
// refer to the original text.
type IndexingAnalyzer struct {
	p    *pipeline
	norm *Normalizer
	open bool
}

var _ Analyzer = (*IndexingAnalyzer)(nil)

// TokenStream analyses text for field. The previous stream of this session
// must be closed first.
func (a *IndexingAnalyzer) TokenStream(field, text string) (TokenStream, error) {
	if a.open {
		return nil, ErrStreamInUse
	}

	var tokens []Token
	kind, _ := fieldname.Classify(field)
	switch kind {
	case fieldname.KindValue:
		tokens = a.keyword(text)
	case fieldname.KindEdgeNGram:
		tokens = a.edgeNGrams(text)
	default:
		tokens = a.words(text, true)
	}

	a.open = true
	return newSliceStream(tokens, func() { a.open = false }), nil
}

// Words returns the normalised, unstemmed words of text. Query tokenisation
// uses it so query terms are shaped like indexed ones.
func (a *IndexingAnalyzer) Words(text string) []Token {
	return a.words(text, false)
}

// Normalize folds s the same way indexed terms are folded.
func (a *IndexingAnalyzer) Normalize(s string) string {
	return a.norm.Normalize(s)
}

// Stem applies the configured stemmer to an already normalised word.
func (a *IndexingAnalyzer) Stem(word string) string {
	return a.p.stemmer.Stem(word)
}

func (a *IndexingAnalyzer) keyword(text string) []Token {
	if text == "" {
		return nil
	}
	norm := a.norm.Normalize(text)
	if norm == "" {
		return nil
	}
	return []Token{{Text: norm, Start: 0, End: len(text)}}
}

// wordSpans splits text and segments CJK runs.
func (a *IndexingAnalyzer) wordSpans(text string) []Span {
	spans := a.p.splitter.Split(text)
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if !s.CJK {
			out = append(out, s)
			continue
		}
		for _, seg := range a.p.segmenter.Segment(text[s.Start:s.End]) {
			out = append(out, Span{Start: s.Start + seg.Start, End: s.Start + seg.End, CJK: true})
		}
	}
	return out
}

func (a *IndexingAnalyzer) words(text string, stem bool) []Token {
	spans := a.wordSpans(text)
	tokens := make([]Token, 0, len(spans))
	for _, s := range spans {
		term := a.norm.Normalize(text[s.Start:s.End])
		if term == "" {
			continue
		}
		if stem {
			term = a.p.stemmer.Stem(term)
		}
		tokens = append(tokens, Token{Text: term, Start: s.Start, End: s.End})
	}
	return tokens
}

// edgeNGrams emits, for every word, its prefixes of MinGram..MaxGram runes.
// Each fragment reports the word start and the end of its last rune.
func (a *IndexingAnalyzer) edgeNGrams(text string) []Token {
	minGram, maxGram := a.p.cfg.MinGram, a.p.cfg.MaxGram
	spans := a.wordSpans(text)
	tokens := make([]Token, 0, len(spans)*4)
	for _, s := range spans {
		word := text[s.Start:s.End]
		n := 0
		for i, r := range word {
			n++
			if n < minGram {
				continue
			}
			if n > maxGram {
				break
			}
			end := i + utf8.RuneLen(r)
			frag := a.norm.Normalize(word[:end])
			if frag == "" {
				continue
			}
			tokens = append(tokens, Token{Text: frag, Start: s.Start, End: s.Start + end})
		}
	}
	return tokens
}
