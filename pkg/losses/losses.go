// Package losses implements loss functions over batches of examples. A batch
// is a [][]float32 with one row per example; each loss reduces a row to a
// single value and then applies its Reduction over the batch.
package losses

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ErrShapeMismatch is returned by Call when yTrue and yPred do not line up
var ErrShapeMismatch = errors.New("shape mismatch")

// epsilon is the fuzz factor used to clip probabilities and divisors
const epsilon float32 = 1e-7

// Reduction selects how per-example losses are combined
type Reduction int

const (
	// Auto resolves to SumOverBatchSize
	Auto Reduction = iota + 1
	// None returns the per-example losses
	None
	// Sum adds the per-example losses
	Sum
	// SumOverBatchSize averages the per-example losses
	SumOverBatchSize
)

func (r Reduction) String() string {
	switch r {
	case Auto:
		return "auto"
	case None:
		return "none"
	case Sum:
		return "sum"
	case SumOverBatchSize:
		return "sum_over_batch_size"
	}
	return fmt.Sprintf("Reduction(%d)", int(r))
}

// Loss computes a loss over a batch
type Loss interface {
	// Name returns the loss name, eg "mean_squared_error"
	Name() string

	// Reduction returns the reduction applied by Call
	Reduction() Reduction

	// Call returns one value per example for None, a single value otherwise
	Call(yTrue, yPred [][]float32) ([]float32, error)
}

// rowFunc computes the loss of one example
type rowFunc func(yTrue, yPred []float32) float32

// rowLoss is a Loss whose rows have the same length in yTrue and yPred
type rowLoss struct {
	name      string
	reduction Reduction
	fn        rowFunc
}

func newRowLoss(name string, reduction Reduction, fn rowFunc) *rowLoss {
	if reduction == 0 {
		reduction = Auto
	}
	return &rowLoss{name: name, reduction: reduction, fn: fn}
}

func (l *rowLoss) Name() string { return l.name }

func (l *rowLoss) Reduction() Reduction { return l.reduction }

func (l *rowLoss) Call(yTrue, yPred [][]float32) ([]float32, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s: batch sizes %d and %d", l.name, len(yTrue), len(yPred))
	}
	values := make([]float32, len(yTrue))
	for i := range yTrue {
		if len(yTrue[i]) != len(yPred[i]) {
			return nil, errors.Wrapf(ErrShapeMismatch, "%s: example %d has %d labels and %d predictions", l.name, i, len(yTrue[i]), len(yPred[i]))
		}
		values[i] = l.fn(yTrue[i], yPred[i])
	}
	return reduce(values, l.reduction), nil
}

func reduce(values []float32, reduction Reduction) []float32 {
	if reduction == None {
		return values
	}
	var total float32
	for _, v := range values {
		total += v
	}
	if reduction == Sum {
		return []float32{total}
	}
	if len(values) == 0 {
		return []float32{0}
	}
	return []float32{total / float32(len(values))}
}

func mean(row []float32, fn func(i int) float32) float32 {
	if len(row) == 0 {
		return 0
	}
	var s float32
	for i := range row {
		s += fn(i)
	}
	return s / float32(len(row))
}

func clip(x, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, x))
}
