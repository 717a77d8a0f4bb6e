package optimizers

import "github.com/menta2k/trainkit/pkg/schedules"

// DefaultSGDLearningRate is used when NewSGD is given a nil learning rate
const DefaultSGDLearningRate schedules.Constant = 0.01

// SGDParams holds the hyper-parameters of SGD
type SGDParams struct {
	Momentum float32
	Nesterov bool
}

// DefaultSGDParams returns plain gradient descent without momentum
func DefaultSGDParams() SGDParams {
	return SGDParams{
		Momentum: 0.0,
		Nesterov: false,
	}
}

// SGD is gradient descent with optional (Nesterov) momentum
type SGD struct {
	base
	Params   SGDParams
	velocity []float32
}

// NewSGD creates an SGD optimizer
func NewSGD(lr schedules.LearningRate, params SGDParams) *SGD {
	return &SGD{base: newBase(lr, DefaultSGDLearningRate), Params: params}
}

func (o *SGD) Name() string { return "SGD" }

func (o *SGD) Apply(weights, grads []float32) error {
	lr, first, err := o.begin(weights, grads)
	if err != nil {
		return err
	}
	if first {
		o.velocity = make([]float32, len(weights))
	}

	m := o.Params.Momentum
	for i, g := range grads {
		if m == 0 {
			weights[i] -= lr * g
			continue
		}
		o.velocity[i] = m*o.velocity[i] - lr*g
		if o.Params.Nesterov {
			weights[i] += m*o.velocity[i] - lr*g
		} else {
			weights[i] += o.velocity[i]
		}
	}
	o.end()
	return nil
}
