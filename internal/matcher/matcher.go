// Package matcher finds which short forms of an entity match a query and
// where each match should be highlighted.
//
// Every requested language of an entity is analysed twice: once under its
// edge-ngram field, so query prefixes hit, and once under its word field, so
// whole words hit. The offsets of every analyzer token whose text is a query
// token are collected, deduplicated and sorted into one ShortFormMatch per
// language. A language with no hit yields nothing, and analyzer failures
// stop the whole call.
package matcher

import (
	"fmt"
	"iter"

	"github.com/standardbeagle/shortform/internal/analysis"
	"github.com/standardbeagle/shortform/internal/debug"
	sferrors "github.com/standardbeagle/shortform/internal/errors"
	"github.com/standardbeagle/shortform/internal/fieldname"
	"github.com/standardbeagle/shortform/internal/searchstring"
	"github.com/standardbeagle/shortform/internal/types"
)

// Matcher is stateless and safe for concurrent use as long as its
// collaborators are.
type Matcher struct {
	tokenizer  searchstring.Tokenizer
	translator fieldname.Translator
	factory    analysis.Factory
}

// NewMatcher wires a matcher to its collaborators.
func NewMatcher(tok searchstring.Tokenizer, tr fieldname.Translator, af analysis.Factory) *Matcher {
	return &Matcher{
		tokenizer:  tok,
		translator: tr,
		factory:    af,
	}
}

// New builds a matcher on the default analyzer pipeline for cfg.
func New(cfg analysis.Config) (*Matcher, error) {
	factory, err := analysis.NewFactory(cfg)
	if err != nil {
		return nil, err
	}
	return NewMatcher(searchstring.NewTokenizer(factory), fieldname.NewTranslator(), factory), nil
}

// Tokens normalises search strings the way Matches does.
func (m *Matcher) Tokens(ss []types.SearchString) map[string]struct{} {
	return m.tokenizer.TokenizedSearchStrings(ss)
}

// Matches lazily yields the matches of esf's short forms in the requested
// languages, in the entity's entry order. Search strings are tokenised once
// per iteration. On analyzer failure the error is yielded once and the
// sequence ends.
func (m *Matcher) Matches(esf types.EntityShortForms, langs *types.LanguageSet, ss []types.SearchString) iter.Seq2[types.ShortFormMatch, error] {
	return func(yield func(types.ShortFormMatch, error) bool) {
		tokens := m.tokenizer.TokenizedSearchStrings(ss)
		for match, err := range m.matchTokens(esf, langs, tokens) {
			if !yield(match, err) || err != nil {
				return
			}
		}
	}
}

// FindMatches collects Matches. On failure it returns no partial result.
func (m *Matcher) FindMatches(esf types.EntityShortForms, langs *types.LanguageSet, ss []types.SearchString) ([]types.ShortFormMatch, error) {
	return collect(m.Matches(esf, langs, ss))
}

func collect(seq iter.Seq2[types.ShortFormMatch, error]) ([]types.ShortFormMatch, error) {
	var matches []types.ShortFormMatch
	for match, err := range seq {
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// matchTokens does the work of Matches for an already tokenised query.
// An empty token set matches nothing and runs no analysis.
func (m *Matcher) matchTokens(esf types.EntityShortForms, langs *types.LanguageSet, tokens map[string]struct{}) iter.Seq2[types.ShortFormMatch, error] {
	return func(yield func(types.ShortFormMatch, error) bool) {
		if len(tokens) == 0 {
			return
		}
		for _, entry := range esf.Entries() {
			if !langs.Contains(entry.Language) {
				continue
			}
			match, ok, err := m.matchEntry(esf.Entity(), entry, tokens)
			if err != nil {
				debug.LogMatch("analysis failed for %s [%s]: %v\n", esf.Entity(), entry.Language, err)
				yield(types.ShortFormMatch{}, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(match, nil) {
				return
			}
		}
	}
}

// matchEntry unions the edge-ngram and word passes over one short form.
func (m *Matcher) matchEntry(entity types.EntityID, entry types.ShortFormEntry, tokens map[string]struct{}) (types.ShortFormMatch, bool, error) {
	lang, text := entry.Language, entry.ShortForm
	fields := [...]string{
		m.translator.EdgeNGramFieldName(lang),
		m.translator.WordFieldName(lang),
	}

	positions := make(map[types.ShortFormMatchPosition]struct{})
	for _, field := range fields {
		if err := m.collectPositions(field, text, tokens, positions); err != nil {
			return types.ShortFormMatch{}, false, err.WithEntity(string(entity)).WithText(text)
		}
	}
	if len(positions) == 0 {
		return types.ShortFormMatch{}, false, nil
	}

	list := make([]types.ShortFormMatchPosition, 0, len(positions))
	for p := range positions {
		list = append(list, p)
	}
	match, err := types.NewShortFormMatch(entity, text, lang, list)
	if err != nil {
		return types.ShortFormMatch{}, false, sferrors.NewAnalysisError("offsets", fields[1], err).
			WithEntity(string(entity)).WithText(text)
	}
	return match, true, nil
}

// collectPositions runs one analyzer pass on a fresh session and adds the
// offsets of every token found in tokens. The stream is closed on every
// path.
func (m *Matcher) collectPositions(field, text string, tokens map[string]struct{}, positions map[types.ShortFormMatchPosition]struct{}) (aerr *sferrors.AnalysisError) {
	ts, err := m.factory.Get().TokenStream(field, text)
	if err != nil {
		return sferrors.NewAnalysisError("open", field, err)
	}
	defer func() {
		if cerr := ts.Close(); cerr != nil && aerr == nil {
			aerr = sferrors.NewAnalysisError("close", field, cerr)
		}
	}()

	for ts.Next() {
		tok := ts.Token()
		if _, ok := tokens[tok.Text]; !ok {
			continue
		}
		p := types.ShortFormMatchPosition{Start: tok.Start, End: tok.End}
		if !p.Within(text) {
			return sferrors.NewAnalysisError("offsets", field,
				fmt.Errorf("%w: token %q at %s outside text of length %d", types.ErrInvalidPosition, tok.Text, p, len(text)))
		}
		positions[p] = struct{}{}
	}
	if err := ts.Err(); err != nil {
		return sferrors.NewAnalysisError("tokenize", field, err)
	}
	return nil
}
