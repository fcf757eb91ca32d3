package matcher

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	sferrors "github.com/standardbeagle/shortform/internal/errors"
	"github.com/standardbeagle/shortform/internal/types"
)

func batchEntities(n int) []types.EntityShortForms {
	entities := make([]types.EntityShortForms, 0, n)
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("heart part %d", i)
		if i%3 == 0 {
			label = fmt.Sprintf("lung lobe %d", i)
		}
		entities = append(entities, types.NewEntityShortForms(types.EntityID(fmt.Sprintf("ex:e%d", i))).
			With(enLabel, label))
	}
	return entities
}

func TestMatchEntities_PreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := newTestMatcher(t)
	entities := batchEntities(30)

	results, err := m.MatchEntities(context.Background(), entities, types.NewLanguageSet(enLabel), types.SearchStrings("hea"), 4)
	require.NoError(t, err)
	require.Len(t, results, 20)

	prev := -1
	for _, r := range results {
		var idx int
		_, scanErr := fmt.Sscanf(string(r.Entity), "ex:e%d", &idx)
		require.NoError(t, scanErr)
		assert.Greater(t, idx, prev, "results keep input order")
		assert.NotZero(t, idx%3, "entities without matches are dropped")
		prev = idx

		require.Len(t, r.Matches, 1)
		assert.Equal(t, []types.ShortFormMatchPosition{{Start: 0, End: 3}}, r.Matches[0].Positions)
	}
}

func TestMatchEntities_SameAsSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := newTestMatcher(t)
	entities := batchEntities(12)
	langs := types.NewLanguageSet(enLabel)
	ss := types.SearchStrings("part", "lo")

	results, err := m.MatchEntities(context.Background(), entities, langs, ss, 0)
	require.NoError(t, err)

	var want []EntityMatches
	for _, esf := range entities {
		matches, err := m.FindMatches(esf, langs, ss)
		require.NoError(t, err)
		if len(matches) > 0 {
			want = append(want, EntityMatches{Entity: esf.Entity(), Matches: matches})
		}
	}
	assert.Equal(t, want, results)
}

func TestMatchEntities_FailureCancels(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFaultyFactory(func(field, text string) bool { return text == "heart part 4" })
	m := f.matcher()

	results, err := m.MatchEntities(context.Background(), batchEntities(50), types.NewLanguageSet(enLabel), types.SearchStrings("part"), 2)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, sferrors.IsAnalysisFailure(err))
	assert.Contains(t, err.Error(), "ex:e4")

	opened, closed := f.counts()
	assert.Equal(t, opened, closed)
}

func TestMatchEntities_CancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := newTestMatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := m.MatchEntities(ctx, batchEntities(10), types.NewLanguageSet(enLabel), types.SearchStrings("part"), 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestMatchEntities_Empty(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := newTestMatcher(t)
	results, err := m.MatchEntities(context.Background(), nil, types.NewLanguageSet(enLabel), types.SearchStrings("part"), 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}
