package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.2/3, Mean(scores(0.5, 0.6, -0.9)), 1e-12)
	assert.InDelta(t, 0.7, Mean(scores(0.7)), 1e-12)
	assert.True(t, math.IsNaN(Mean(scores())))
}

func TestMeanOrderInvariant(t *testing.T) {
	t.Parallel()

	a := Mean(scores(0.1, -0.4, 0.9, 0.3))
	b := Mean(scores(0.9, 0.3, 0.1, -0.4))
	c := Mean(scores(-0.4, 0.9, 0.3, 0.1))

	assert.InDelta(t, a, b, 1e-12)
	assert.InDelta(t, a, c, 1e-12)
}

func TestMeanHugeScores(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1e308, Mean(scores(1e308, 1e308)))
	assert.Equal(t, math.MaxFloat64, Mean(scores(math.MaxFloat64, math.MaxFloat64)))
	assert.InDelta(t, 0, Mean(scores(math.MaxFloat64, -math.MaxFloat64)), 1e-12)
}

func TestWeightedMeanHugeScores(t *testing.T) {
	t.Parallel()

	mean, total := WeightedMean([]PostScore{
		{PostID: 1, Mean: 1e308, Count: 3},
		{PostID: 2, Mean: 1e308, Count: 4},
	})
	assert.False(t, math.IsInf(mean, 0))
	assert.InEpsilon(t, 1e308, mean, 1e-12)
	assert.Equal(t, 7, total)
}

func TestWeightedMean(t *testing.T) {
	t.Parallel()

	t.Run("posts without comments are skipped", func(t *testing.T) {
		t.Parallel()

		mean, total := WeightedMean([]PostScore{
			{PostID: 1, Mean: 1.0, Count: 2},
			{PostID: 2, Mean: math.NaN(), Count: 0},
			{PostID: 3, Mean: -1.0, Count: 3},
		})
		assert.InDelta(t, -0.2, mean, 1e-12)
		assert.Equal(t, 5, total)
	})

	t.Run("no comments anywhere", func(t *testing.T) {
		t.Parallel()

		mean, total := WeightedMean([]PostScore{{PostID: 1}, {PostID: 2}})
		assert.Equal(t, 0.0, mean)
		assert.Equal(t, 0, total)

		mean, total = WeightedMean(nil)
		assert.Equal(t, 0.0, mean)
		assert.Equal(t, 0, total)
	})
}

func TestSummarizeOverall(t *testing.T) {
	t.Parallel()

	s := SummarizeOverall(DefaultThresholds, []PostScore{
		{PostID: 1, Mean: 1.0, Count: 2},
		{PostID: 2, Count: 0},
		{PostID: 3, Mean: -1.0, Count: 3},
	})
	assert.InDelta(t, -0.2, s.Score, 1e-12)
	assert.Equal(t, Mixed, s.Label)
	assert.Equal(t, 5, s.Count)

	s = SummarizeOverall(DefaultThresholds, []PostScore{{PostID: 1, Count: 0}})
	assert.Equal(t, Summary{Score: 0, Label: NoComments}, s)

	s = SummarizeOverall(DefaultThresholds, []PostScore{
		{PostID: 1, Mean: 0.8, Count: 4},
		{PostID: 2, Mean: 0.1, Count: 1},
	})
	assert.Equal(t, Positive, s.Label)
}
