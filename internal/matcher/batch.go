package matcher

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/shortform/internal/debug"
	"github.com/standardbeagle/shortform/internal/types"
)

// EntityMatches groups the matches of one entity.
type EntityMatches struct {
	Entity  types.EntityID         `json:"entity"`
	Matches []types.ShortFormMatch `json:"matches"`
}

// MatchEntities matches many entities in parallel with at most workers
// goroutines (GOMAXPROCS when workers <= 0). The query is tokenised once.
//
// Only entities with at least one match are returned, in input order. The
// first failure cancels the remaining work and is returned alone. A
// cancelled ctx stops the batch between entities.
func (m *Matcher) MatchEntities(ctx context.Context, entities []types.EntityShortForms, langs *types.LanguageSet, ss []types.SearchString, workers int) ([]EntityMatches, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()

	tokens := m.tokenizer.TokenizedSearchStrings(ss)
	results := make([][]types.ShortFormMatch, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, esf := range entities {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches, err := collect(m.matchTokens(esf, langs, tokens))
			if err != nil {
				return fmt.Errorf("matching %s: %w", esf.Entity(), err)
			}
			results[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]EntityMatches, 0, len(entities))
	for i, matches := range results {
		if len(matches) == 0 {
			continue
		}
		out = append(out, EntityMatches{Entity: entities[i].Entity(), Matches: matches})
	}

	debug.LogMatch("matched %d/%d entities with %d tokens using %d workers in %v\n",
		len(out), len(entities), len(tokens), workers, time.Since(start))
	return out, nil
}
