package losses

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// NewBinaryCrossentropy returns the binary crossentropy. With fromLogits the
// predictions are logits, otherwise probabilities. A labelSmoothing in (0,1]
// squeezes the labels towards 0.5.
func NewBinaryCrossentropy(fromLogits bool, labelSmoothing float32, reduction Reduction) Loss {
	return newRowLoss("binary_crossentropy", reduction, func(yTrue, yPred []float32) float32 {
		return mean(yTrue, func(i int) float32 {
			y := yTrue[i]*(1-labelSmoothing) + 0.5*labelSmoothing
			if fromLogits {
				x := yPred[i]
				return math32.Max(x, 0) - x*y + math32.Log1p(math32.Exp(-math32.Abs(x)))
			}
			p := clip(yPred[i], epsilon, 1-epsilon)
			return -(y*math32.Log(p) + (1-y)*math32.Log(1-p))
		})
	})
}

// NewCategoricalCrossentropy returns the crossentropy between one-hot labels
// and a predicted distribution
func NewCategoricalCrossentropy(fromLogits bool, labelSmoothing float32, reduction Reduction) Loss {
	return newRowLoss("categorical_crossentropy", reduction, func(yTrue, yPred []float32) float32 {
		probs := probabilities(yPred, fromLogits)
		n := float32(len(yTrue))
		var loss float32
		for i, t := range yTrue {
			y := t*(1-labelSmoothing) + labelSmoothing/n
			loss -= y * math32.Log(clip(probs[i], epsilon, 1-epsilon))
		}
		return loss
	})
}

// NewKLDivergence returns the Kullback-Leibler divergence of yPred from yTrue
func NewKLDivergence(reduction Reduction) Loss {
	return newRowLoss("kl_divergence", reduction, func(yTrue, yPred []float32) float32 {
		var loss float32
		for i := range yTrue {
			t := clip(yTrue[i], epsilon, 1)
			p := clip(yPred[i], epsilon, 1)
			loss += t * math32.Log(t/p)
		}
		return loss
	})
}

// NewPoisson returns mean(yPred - yTrue * log(yPred))
func NewPoisson(reduction Reduction) Loss {
	return newRowLoss("poisson", reduction, func(yTrue, yPred []float32) float32 {
		return mean(yTrue, func(i int) float32 {
			return yPred[i] - yTrue[i]*math32.Log(yPred[i]+epsilon)
		})
	})
}

// sparseCategorical takes one class index per example in yTrue
type sparseCategorical struct {
	fromLogits bool
	reduction  Reduction
}

// NewSparseCategoricalCrossentropy returns the crossentropy between integer
// labels and a predicted distribution. Each row of yTrue holds one class
// index stored as a float.
func NewSparseCategoricalCrossentropy(fromLogits bool, reduction Reduction) Loss {
	if reduction == 0 {
		reduction = Auto
	}
	return &sparseCategorical{fromLogits: fromLogits, reduction: reduction}
}

func (l *sparseCategorical) Name() string { return "sparse_categorical_crossentropy" }

func (l *sparseCategorical) Reduction() Reduction { return l.reduction }

func (l *sparseCategorical) Call(yTrue, yPred [][]float32) ([]float32, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s: batch sizes %d and %d", l.Name(), len(yTrue), len(yPred))
	}
	values := make([]float32, len(yTrue))
	for i := range yTrue {
		if len(yTrue[i]) != 1 {
			return nil, errors.Wrapf(ErrShapeMismatch, "%s: example %d needs one label, got %d", l.Name(), i, len(yTrue[i]))
		}
		class := int(yTrue[i][0])
		if class < 0 || class >= len(yPred[i]) {
			return nil, errors.Wrapf(ErrShapeMismatch, "%s: example %d label %d out of %d classes", l.Name(), i, class, len(yPred[i]))
		}
		probs := probabilities(yPred[i], l.fromLogits)
		values[i] = -math32.Log(clip(probs[class], epsilon, 1-epsilon))
	}
	return reduce(values, l.reduction), nil
}

// probabilities applies a softmax to logits, or rescales probabilities so
// they sum to one
func probabilities(pred []float32, fromLogits bool) []float32 {
	out := make([]float32, len(pred))
	if len(pred) == 0 {
		return out
	}
	if fromLogits {
		hi := pred[0]
		for _, v := range pred[1:] {
			hi = math32.Max(hi, v)
		}
		var total float32
		for i, v := range pred {
			out[i] = math32.Exp(v - hi)
			total += out[i]
		}
		for i := range out {
			out[i] /= total
		}
		return out
	}
	var total float32
	for _, v := range pred {
		total += v
	}
	for i, v := range pred {
		if total == 0 {
			out[i] = v
			continue
		}
		out[i] = v / total
	}
	return out
}
