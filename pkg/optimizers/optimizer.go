// Package optimizers implements gradient based optimizers. Each optimizer
// holds its hyper-parameters, a learning rate that is either a constant or a
// schedule, and the slot state for one flat parameter vector.
//
// Optimizers are stateful and must not be shared between goroutines.
package optimizers

import (
	"github.com/pkg/errors"

	"github.com/menta2k/trainkit/pkg/schedules"
)

// ErrShapeMismatch is returned by Apply when weights and gradients differ in
// length, or when the parameter vector changes size between steps
var ErrShapeMismatch = errors.New("shape mismatch")

// Optimizer updates a parameter vector from its gradient
type Optimizer interface {
	// Name returns the optimizer name, eg "Adam"
	Name() string

	// LearningRate returns the learning rate exactly as it was passed to the
	// constructor, a schedules.Constant or a schedule
	LearningRate() schedules.LearningRate

	// Iterations returns the number of updates applied so far
	Iterations() int64

	// Apply performs one update of weights in place
	Apply(weights, grads []float32) error
}

type base struct {
	lr         schedules.LearningRate
	iterations int64
	size       int
}

func newBase(lr schedules.LearningRate, fallback schedules.Constant) base {
	if lr == nil {
		lr = fallback
	}
	return base{lr: lr, size: -1}
}

func (b *base) LearningRate() schedules.LearningRate {
	return b.lr
}

func (b *base) Iterations() int64 {
	return b.iterations
}

// begin validates the shapes of an update and returns the learning rate for
// the current iteration. first is true on the first update, when the slots
// must be allocated.
func (b *base) begin(weights, grads []float32) (lr float32, first bool, err error) {
	if len(weights) != len(grads) {
		return 0, false, errors.Wrapf(ErrShapeMismatch, "%d weights and %d gradients", len(weights), len(grads))
	}
	if b.size >= 0 && b.size != len(weights) {
		return 0, false, errors.Wrapf(ErrShapeMismatch, "optimizer was created for %d weights, got %d", b.size, len(weights))
	}
	first = b.size < 0
	b.size = len(weights)
	return b.lr.At(b.iterations), first, nil
}

func (b *base) end() {
	b.iterations++
}

func filled(n int, v float32) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = v
	}
	return s
}
