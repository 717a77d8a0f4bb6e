package losses

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/trainkit/pkg/errdefs"
)

func call(t *testing.T, l Loss, yTrue, yPred [][]float32) []float32 {
	t.Helper()
	out, err := l.Call(yTrue, yPred)
	require.NoError(t, err, l.Name())
	return out
}

func TestReductions(t *testing.T) {
	yTrue := [][]float32{{0, 1}, {0, 0}}
	yPred := [][]float32{{1, 1}, {1, 0}}

	assert.Equal(t, []float32{0.5, 0.5}, call(t, NewMeanSquaredError(None), yTrue, yPred))
	assert.Equal(t, []float32{1}, call(t, NewMeanSquaredError(Sum), yTrue, yPred))
	assert.Equal(t, []float32{0.5}, call(t, NewMeanSquaredError(SumOverBatchSize), yTrue, yPred))
	assert.Equal(t, []float32{0.5}, call(t, NewMeanSquaredError(Auto), yTrue, yPred))
	assert.Equal(t, []float32{0.5}, call(t, NewMeanAbsoluteError(Auto), yTrue, yPred))
}

func TestZeroReductionIsAuto(t *testing.T) {
	assert.Equal(t, Auto, NewPoisson(0).Reduction())
	assert.Equal(t, Auto, NewSparseCategoricalCrossentropy(false, 0).Reduction())
	assert.Equal(t, "sum_over_batch_size", SumOverBatchSize.String())
}

func TestEmptyBatch(t *testing.T) {
	assert.Equal(t, []float32{0}, call(t, NewMeanSquaredError(Auto), nil, nil))
	assert.Empty(t, call(t, NewMeanSquaredError(None), nil, nil))
}

func TestLossValues(t *testing.T) {
	cosine, err := NewCosineSimilarity(-1, Auto)
	require.NoError(t, err)

	testCases := []struct {
		loss     Loss
		yTrue    []float32
		yPred    []float32
		expected float64
	}{
		{NewBinaryCrossentropy(false, 0, Auto), []float32{1}, []float32{0.5}, math.Ln2},
		{NewBinaryCrossentropy(true, 0, Auto), []float32{1}, []float32{0}, math.Ln2},
		{NewCategoricalCrossentropy(false, 0, Auto), []float32{0, 1, 0}, []float32{0.05, 0.95, 0}, -math.Log(0.95)},
		{NewCategoricalHinge(Auto), []float32{0, 1, 0}, []float32{0.3, 0.5, 0.2}, 0.8},
		{cosine, []float32{1, 0}, []float32{2, 0}, -1},
		{NewHinge(Auto), []float32{0, 1}, []float32{0.5, 0.5}, 1.0},
		{NewSquaredHinge(Auto), []float32{0, 1}, []float32{0.5, 0.5}, 1.25},
		{NewHuber(1, Auto), []float32{0, 0}, []float32{0.5, 2}, 0.8125},
		{NewKLDivergence(Auto), []float32{0.5, 0.5}, []float32{0.5, 0.5}, 0},
		{NewLogCosh(Auto), []float32{0}, []float32{1}, math.Log(math.Cosh(1))},
		{NewMeanAbsolutePercentageError(Auto), []float32{2}, []float32{1}, 50},
		{NewMeanSquaredLogarithmicError(Auto), []float32{0}, []float32{math.E - 1}, 1},
		{NewPoisson(Auto), []float32{1}, []float32{1}, 1},
	}
	for _, tc := range testCases {
		out := call(t, tc.loss, [][]float32{tc.yTrue}, [][]float32{tc.yPred})
		require.Len(t, out, 1, tc.loss.Name())
		assert.InDelta(t, tc.expected, out[0], 1e-4, tc.loss.Name())
	}
}

func TestLabelSmoothing(t *testing.T) {
	plain := call(t, NewBinaryCrossentropy(false, 0, Auto), [][]float32{{1}}, [][]float32{{0.9}})
	smoothed := call(t, NewBinaryCrossentropy(false, 0.2, Auto), [][]float32{{1}}, [][]float32{{0.9}})
	assert.Greater(t, smoothed[0], plain[0])
}

func TestSparseCategoricalCrossentropy(t *testing.T) {
	l := NewSparseCategoricalCrossentropy(false, None)
	out := call(t, l, [][]float32{{1}, {0}}, [][]float32{{0.05, 0.95, 0}, {0.5, 0.25, 0.25}})
	assert.InDelta(t, -math.Log(0.95), out[0], 1e-5)
	assert.InDelta(t, math.Ln2, out[1], 1e-5)

	logits := NewSparseCategoricalCrossentropy(true, Auto)
	out = call(t, logits, [][]float32{{0}}, [][]float32{{0, 0}})
	assert.InDelta(t, math.Ln2, out[0], 1e-5)

	_, err := l.Call([][]float32{{3}}, [][]float32{{0.5, 0.5}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = l.Call([][]float32{{0, 1}}, [][]float32{{0.5, 0.5}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestShapeMismatch(t *testing.T) {
	l := NewMeanSquaredError(Auto)
	_, err := l.Call([][]float32{{1}}, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = l.Call([][]float32{{1, 2}}, [][]float32{{1}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCosineSimilarityAxis(t *testing.T) {
	_, err := NewCosineSimilarity(1, Auto)
	assert.NoError(t, err)
	_, err = NewCosineSimilarity(0, Auto)
	assert.ErrorIs(t, err, errdefs.ErrInvalidConfig)
}
