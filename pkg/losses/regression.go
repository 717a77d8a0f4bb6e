package losses

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/menta2k/trainkit/pkg/errdefs"
)

func NewMeanAbsoluteError(reduction Reduction) Loss {
	return newRowLoss("mean_absolute_error", reduction, func(yTrue, yPred []float32) float32 {
		return mean(yTrue, func(i int) float32 {
			return math32.Abs(yTrue[i] - yPred[i])
		})
	})
}

// NewMeanAbsolutePercentageError returns 100 * mean(|yTrue - yPred| / |yTrue|)
func NewMeanAbsolutePercentageError(reduction Reduction) Loss {
	return newRowLoss("mean_absolute_percentage_error", reduction, func(yTrue, yPred []float32) float32 {
		return 100 * mean(yTrue, func(i int) float32 {
			return math32.Abs(yTrue[i]-yPred[i]) / math32.Max(math32.Abs(yTrue[i]), epsilon)
		})
	})
}

func NewMeanSquaredError(reduction Reduction) Loss {
	return newRowLoss("mean_squared_error", reduction, func(yTrue, yPred []float32) float32 {
		return mean(yTrue, func(i int) float32 {
			d := yTrue[i] - yPred[i]
			return d * d
		})
	})
}

func NewMeanSquaredLogarithmicError(reduction Reduction) Loss {
	return newRowLoss("mean_squared_logarithmic_error", reduction, func(yTrue, yPred []float32) float32 {
		return mean(yTrue, func(i int) float32 {
			d := math32.Log1p(math32.Max(yPred[i], epsilon)) - math32.Log1p(math32.Max(yTrue[i], epsilon))
			return d * d
		})
	})
}

// NewHuber is quadratic for errors below delta and linear above
func NewHuber(delta float32, reduction Reduction) Loss {
	return newRowLoss("huber_loss", reduction, func(yTrue, yPred []float32) float32 {
		return mean(yTrue, func(i int) float32 {
			e := math32.Abs(yPred[i] - yTrue[i])
			if e <= delta {
				return 0.5 * e * e
			}
			return delta*e - 0.5*delta*delta
		})
	})
}

// NewLogCosh returns mean(log(cosh(yPred - yTrue))), computed without
// overflowing for large errors
func NewLogCosh(reduction Reduction) Loss {
	return newRowLoss("log_cosh", reduction, func(yTrue, yPred []float32) float32 {
		return mean(yTrue, func(i int) float32 {
			x := yPred[i] - yTrue[i]
			return x + softplus(-2*x) - math32.Ln2
		})
	})
}

// NewCosineSimilarity returns the negated cosine similarity of each example,
// so that minimising the loss maximises the similarity. axis selects the
// dimension along which the similarity is computed; only the last axis of a
// [][]float32 batch, -1 or 1, is supported.
func NewCosineSimilarity(axis int, reduction Reduction) (Loss, error) {
	if axis != -1 && axis != 1 {
		return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "cosine similarity axis %d, only -1 and 1 are supported", axis)
	}
	return newRowLoss("cosine_similarity", reduction, func(yTrue, yPred []float32) float32 {
		nt, np := l2norm(yTrue), l2norm(yPred)
		var dot float32
		for i := range yTrue {
			dot += (yTrue[i] / nt) * (yPred[i] / np)
		}
		return -dot
	}), nil
}

func softplus(x float32) float32 {
	return math32.Max(x, 0) + math32.Log1p(math32.Exp(-math32.Abs(x)))
}

func l2norm(v []float32) float32 {
	var s float32
	for _, x := range v {
		s += x * x
	}
	return math32.Sqrt(math32.Max(s, 1e-12))
}
