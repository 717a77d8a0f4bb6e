package optimizers

import (
	"github.com/chewxy/math32"

	"github.com/menta2k/trainkit/pkg/schedules"
)

// RMSpropParams holds the hyper-parameters of RMSprop
type RMSpropParams struct {
	Rho      float32
	Momentum float32
	Epsilon  float32
	Centered bool
}

// DefaultRMSpropParams returns rho 0.9, no momentum, epsilon 1e-7, uncentered
func DefaultRMSpropParams() RMSpropParams {
	return RMSpropParams{Rho: 0.9, Momentum: 0, Epsilon: 1e-7, Centered: false}
}

// RMSprop divides the gradient by a running average of its magnitude.
// Centered also subtracts the squared running mean of the gradient.
type RMSprop struct {
	base
	Params   RMSpropParams
	ms       []float32
	mg       []float32
	momentum []float32
}

// NewRMSprop creates an RMSprop optimizer
func NewRMSprop(lr schedules.LearningRate, params RMSpropParams) *RMSprop {
	return &RMSprop{base: newBase(lr, schedules.DefaultLearningRate), Params: params}
}

func (o *RMSprop) Name() string { return "RMSprop" }

func (o *RMSprop) Apply(weights, grads []float32) error {
	lr, first, err := o.begin(weights, grads)
	if err != nil {
		return err
	}
	if first {
		o.ms = make([]float32, len(weights))
		o.mg = make([]float32, len(weights))
		o.momentum = make([]float32, len(weights))
	}

	p := o.Params
	for i, g := range grads {
		o.ms[i] = p.Rho*o.ms[i] + (1-p.Rho)*g*g
		denom := o.ms[i]
		if p.Centered {
			o.mg[i] = p.Rho*o.mg[i] + (1-p.Rho)*g
			denom -= o.mg[i] * o.mg[i]
		}
		step := lr * g / math32.Sqrt(denom+p.Epsilon)
		if p.Momentum > 0 {
			o.momentum[i] = p.Momentum*o.momentum[i] + step
			step = o.momentum[i]
		}
		weights[i] -= step
	}
	o.end()
	return nil
}
