package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIndexRejectsMismatchedDimension(t *testing.T) {
	_, err := NewIndex(2, [][]float64{{1, 0}, {1, 0, 0}})
	require.Error(t, err)

	_, err = NewIndex(-1, nil)
	require.Error(t, err)
}

func TestNewIndexCopiesVectors(t *testing.T) {
	v := []float64{1, 0}
	idx, err := NewIndex(2, [][]float64{v})
	require.NoError(t, err)

	v[0] = 0
	hit, ok := idx.Best([]float64{1, 0})
	require.True(t, ok)
	require.InDelta(t, 1.0, hit.Score, 1e-12)
}

func TestSearchOrdersByScoreAndKeepsTiesStable(t *testing.T) {
	idx, err := NewIndex(2, [][]float64{
		{0, 1},
		{1, 0},
		{0.6, 0.8},
		{1, 0},
	})
	require.NoError(t, err)

	hits := idx.Search([]float64{1, 0}, 3)
	require.Equal(t, []Hit{
		{Index: 1, Score: 1},
		{Index: 3, Score: 1},
		{Index: 2, Score: 0.6},
	}, hits)
}

func TestBestPrefersFirstOccurrence(t *testing.T) {
	idx, err := NewIndex(2, [][]float64{{0, 1}, {1, 0}, {1, 0}})
	require.NoError(t, err)

	hit, ok := idx.Best([]float64{1, 0})
	require.True(t, ok)
	require.Equal(t, 1, hit.Index)

	hit, ok = idx.Best([]float64{0, 0})
	require.True(t, ok)
	require.Equal(t, Hit{Index: 0, Score: 0}, hit)
}

func TestBestOnEmptyIndex(t *testing.T) {
	idx, err := NewIndex(0, nil)
	require.NoError(t, err)
	_, ok := idx.Best(nil)
	require.False(t, ok)
	require.Empty(t, idx.Search(nil, 1))
}

func TestScoresAreClamped(t *testing.T) {
	idx, err := NewIndex(1, [][]float64{{1.0000001}, {-1}})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0}, idx.Scores([]float64{1}))
}
