// Package analysis turns short-form text into field-specific token streams.
//
// The same analyzer is used when labels are indexed and when a query is
// matched against them, so every Analyzer here is deterministic for a given
// (field, text) pair. Token shaping is chosen from the field name alone: exact
// value fields, whole-word fields and edge-ngram (prefix) fields.
package analysis

import (
	"errors"
)

var (
	// ErrStreamClosed is reported by Next on a stream that was already closed.
	ErrStreamClosed = errors.New("token stream closed")
	// ErrStreamInUse is returned when a session opens a second stream before
	// closing the first.
	ErrStreamInUse = errors.New("analyzer session already has an open token stream")
)

// Token is one analysed term. Start and End are byte offsets into the
// analysed text; Text is the normalised term and may differ from
// text[Start:End].
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// TokenStream iterates the tokens of one (field, text) pass.
//
// Next returns false at the end of the stream; Err then tells a clean end
// (nil) from a failure. Close must be called on every exit path.
type TokenStream interface {
	Next() bool
	Token() Token
	Err() error
	Close() error
}

// Analyzer opens token streams. A session holds at most one open stream.
type Analyzer interface {
	TokenStream(field, text string) (TokenStream, error)
}

// Factory hands out fresh, independently scoped analyzer sessions. It is
// safe for concurrent use; the sessions it returns are not.
type Factory interface {
	Get() Analyzer
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func() Analyzer

// Get calls f.
func (f FactoryFunc) Get() Analyzer { return f() }

// Collect drains a stream and closes it.
func Collect(ts TokenStream) (tokens []Token, err error) {
	defer func() {
		if cerr := ts.Close(); err == nil {
			err = cerr
		}
	}()
	for ts.Next() {
		tokens = append(tokens, ts.Token())
	}
	return tokens, ts.Err()
}

// Analyze opens a stream on a and collects it.
func Analyze(a Analyzer, field, text string) ([]Token, error) {
	ts, err := a.TokenStream(field, text)
	if err != nil {
		return nil, err
	}
	return Collect(ts)
}

// sliceStream replays precomputed tokens.
type sliceStream struct {
	tokens  []Token
	pos     int
	cur     Token
	err     error
	closed  bool
	onClose func()
}

func newSliceStream(tokens []Token, onClose func()) *sliceStream {
	return &sliceStream{tokens: tokens, onClose: onClose}
}

func (s *sliceStream) Next() bool {
	if s.closed {
		s.err = ErrStreamClosed
		return false
	}
	if s.pos >= len(s.tokens) {
		return false
	}
	s.cur = s.tokens[s.pos]
	s.pos++
	return true
}

func (s *sliceStream) Token() Token { return s.cur }

func (s *sliceStream) Err() error { return s.err }

func (s *sliceStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.tokens = nil
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}
