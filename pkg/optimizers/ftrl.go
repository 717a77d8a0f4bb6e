package optimizers

import (
	"github.com/chewxy/math32"

	"github.com/menta2k/trainkit/pkg/schedules"
)

// FtrlParams holds the hyper-parameters of FTRL-Proximal
type FtrlParams struct {
	LearningRatePower                 float32
	InitialAccumulatorValue           float32
	L1RegularizationStrength          float32
	L2RegularizationStrength          float32
	L2ShrinkageRegularizationStrength float32
	Beta                              float32
}

// DefaultFtrlParams returns learning rate power -0.5, initial accumulator 0.1
// and no regularization
func DefaultFtrlParams() FtrlParams {
	return FtrlParams{
		LearningRatePower:       -0.5,
		InitialAccumulatorValue: 0.1,
	}
}

// Ftrl is the Follow The Regularized Leader optimizer
type Ftrl struct {
	base
	Params FtrlParams
	accum  []float32
	linear []float32
}

// NewFtrl creates an FTRL optimizer
func NewFtrl(lr schedules.LearningRate, params FtrlParams) *Ftrl {
	return &Ftrl{base: newBase(lr, schedules.DefaultLearningRate), Params: params}
}

func (o *Ftrl) Name() string { return "Ftrl" }

func (o *Ftrl) Apply(weights, grads []float32) error {
	lr, first, err := o.begin(weights, grads)
	if err != nil {
		return err
	}
	if first {
		o.accum = filled(len(weights), o.Params.InitialAccumulatorValue)
		o.linear = make([]float32, len(weights))
	}

	p := o.Params
	power := -p.LearningRatePower
	l2 := p.L2RegularizationStrength + p.Beta/(2*lr)
	for i, g := range grads {
		shrunk := g + 2*p.L2ShrinkageRegularizationStrength*weights[i]
		newAccum := o.accum[i] + g*g
		o.linear[i] += shrunk - (math32.Pow(newAccum, power)-math32.Pow(o.accum[i], power))/lr*weights[i]
		quadratic := math32.Pow(newAccum, power)/lr + 2*l2
		clipped := math32.Max(-p.L1RegularizationStrength, math32.Min(o.linear[i], p.L1RegularizationStrength))
		weights[i] = (clipped - o.linear[i]) / quadratic
		o.accum[i] = newAccum
	}
	o.end()
	return nil
}
