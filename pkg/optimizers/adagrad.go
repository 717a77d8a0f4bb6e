package optimizers

import (
	"github.com/chewxy/math32"

	"github.com/menta2k/trainkit/pkg/schedules"
)

// AdadeltaParams holds the hyper-parameters of Adadelta
type AdadeltaParams struct {
	Rho     float32
	Epsilon float32
}

// DefaultAdadeltaParams returns rho 0.95, epsilon 1e-7
func DefaultAdadeltaParams() AdadeltaParams {
	return AdadeltaParams{Rho: 0.95, Epsilon: 1e-7}
}

// Adadelta scales updates by the ratio of running averages of past updates
// and past gradients
type Adadelta struct {
	base
	Params    AdadeltaParams
	accumGrad []float32
	accumVar  []float32
}

// NewAdadelta creates an Adadelta optimizer
func NewAdadelta(lr schedules.LearningRate, params AdadeltaParams) *Adadelta {
	return &Adadelta{base: newBase(lr, schedules.DefaultLearningRate), Params: params}
}

func (o *Adadelta) Name() string { return "Adadelta" }

func (o *Adadelta) Apply(weights, grads []float32) error {
	lr, first, err := o.begin(weights, grads)
	if err != nil {
		return err
	}
	if first {
		o.accumGrad = make([]float32, len(weights))
		o.accumVar = make([]float32, len(weights))
	}

	rho, eps := o.Params.Rho, o.Params.Epsilon
	for i, g := range grads {
		o.accumGrad[i] = rho*o.accumGrad[i] + (1-rho)*g*g
		delta := math32.Sqrt(o.accumVar[i]+eps) / math32.Sqrt(o.accumGrad[i]+eps) * g
		o.accumVar[i] = rho*o.accumVar[i] + (1-rho)*delta*delta
		weights[i] -= lr * delta
	}
	o.end()
	return nil
}

// AdagradParams holds the hyper-parameters of Adagrad
type AdagradParams struct {
	InitialAccumulatorValue float32
	Epsilon                 float32
}

// DefaultAdagradParams returns initial accumulator 0.1, epsilon 1e-7
func DefaultAdagradParams() AdagradParams {
	return AdagradParams{InitialAccumulatorValue: 0.1, Epsilon: 1e-7}
}

// Adagrad adapts the learning rate of every parameter to the sum of its
// squared gradients
type Adagrad struct {
	base
	Params AdagradParams
	accum  []float32
}

// NewAdagrad creates an Adagrad optimizer
func NewAdagrad(lr schedules.LearningRate, params AdagradParams) *Adagrad {
	return &Adagrad{base: newBase(lr, schedules.DefaultLearningRate), Params: params}
}

func (o *Adagrad) Name() string { return "Adagrad" }

func (o *Adagrad) Apply(weights, grads []float32) error {
	lr, first, err := o.begin(weights, grads)
	if err != nil {
		return err
	}
	if first {
		o.accum = filled(len(weights), o.Params.InitialAccumulatorValue)
	}

	for i, g := range grads {
		o.accum[i] += g * g
		weights[i] -= lr * g / (math32.Sqrt(o.accum[i]) + o.Params.Epsilon)
	}
	o.end()
	return nil
}
