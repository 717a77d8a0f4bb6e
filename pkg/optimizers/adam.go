package optimizers

import (
	"github.com/chewxy/math32"

	"github.com/menta2k/trainkit/pkg/schedules"
)

// AdamParams holds the hyper-parameters of Adam
type AdamParams struct {
	Beta1   float32
	Beta2   float32
	Epsilon float32
	AMSGrad bool
}

// DefaultAdamParams returns beta1 0.9, beta2 0.999, epsilon 1e-7
func DefaultAdamParams() AdamParams {
	return AdamParams{
		Beta1:   0.9,
		Beta2:   0.999,
		Epsilon: 1e-7,
		AMSGrad: false,
	}
}

// Adam keeps running averages of the gradient and of its square
type Adam struct {
	base
	Params AdamParams
	m      []float32
	v      []float32
	vhat   []float32
}

// NewAdam creates an Adam optimizer
func NewAdam(lr schedules.LearningRate, params AdamParams) *Adam {
	return &Adam{base: newBase(lr, schedules.DefaultLearningRate), Params: params}
}

func (o *Adam) Name() string { return "Adam" }

func (o *Adam) Apply(weights, grads []float32) error {
	lr, first, err := o.begin(weights, grads)
	if err != nil {
		return err
	}
	if first {
		o.m = make([]float32, len(weights))
		o.v = make([]float32, len(weights))
		if o.Params.AMSGrad {
			o.vhat = make([]float32, len(weights))
		}
	}

	p := o.Params
	t := float32(o.iterations + 1)
	lrT := lr * math32.Sqrt(1-math32.Pow(p.Beta2, t)) / (1 - math32.Pow(p.Beta1, t))
	for i, g := range grads {
		o.m[i] = p.Beta1*o.m[i] + (1-p.Beta1)*g
		o.v[i] = p.Beta2*o.v[i] + (1-p.Beta2)*g*g
		v := o.v[i]
		if p.AMSGrad {
			o.vhat[i] = math32.Max(o.vhat[i], o.v[i])
			v = o.vhat[i]
		}
		weights[i] -= lrT * o.m[i] / (math32.Sqrt(v) + p.Epsilon)
	}
	o.end()
	return nil
}

// AdamaxParams holds the hyper-parameters of Adamax
type AdamaxParams struct {
	Beta1   float32
	Beta2   float32
	Epsilon float32
}

// DefaultAdamaxParams returns beta1 0.9, beta2 0.999, epsilon 1e-7
func DefaultAdamaxParams() AdamaxParams {
	return AdamaxParams{Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}
}

// Adamax is the infinity norm variant of Adam
type Adamax struct {
	base
	Params AdamaxParams
	m      []float32
	u      []float32
}

// NewAdamax creates an Adamax optimizer
func NewAdamax(lr schedules.LearningRate, params AdamaxParams) *Adamax {
	return &Adamax{base: newBase(lr, schedules.DefaultLearningRate), Params: params}
}

func (o *Adamax) Name() string { return "Adamax" }

func (o *Adamax) Apply(weights, grads []float32) error {
	lr, first, err := o.begin(weights, grads)
	if err != nil {
		return err
	}
	if first {
		o.m = make([]float32, len(weights))
		o.u = make([]float32, len(weights))
	}

	p := o.Params
	t := float32(o.iterations + 1)
	lrT := lr / (1 - math32.Pow(p.Beta1, t))
	for i, g := range grads {
		o.m[i] = p.Beta1*o.m[i] + (1-p.Beta1)*g
		o.u[i] = math32.Max(p.Beta2*o.u[i], math32.Abs(g))
		weights[i] -= lrT * o.m[i] / (o.u[i] + p.Epsilon)
	}
	o.end()
	return nil
}

// NadamParams holds the hyper-parameters of Nadam
type NadamParams struct {
	Beta1   float32
	Beta2   float32
	Epsilon float32
}

// DefaultNadamParams returns beta1 0.9, beta2 0.999, epsilon 1e-7
func DefaultNadamParams() NadamParams {
	return NadamParams{Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}
}

// Nadam is Adam with Nesterov momentum
type Nadam struct {
	base
	Params NadamParams
	m      []float32
	v      []float32
}

// NewNadam creates a Nadam optimizer
func NewNadam(lr schedules.LearningRate, params NadamParams) *Nadam {
	return &Nadam{base: newBase(lr, schedules.DefaultLearningRate), Params: params}
}

func (o *Nadam) Name() string { return "Nadam" }

func (o *Nadam) Apply(weights, grads []float32) error {
	lr, first, err := o.begin(weights, grads)
	if err != nil {
		return err
	}
	if first {
		o.m = make([]float32, len(weights))
		o.v = make([]float32, len(weights))
	}

	p := o.Params
	t := float32(o.iterations + 1)
	for i, g := range grads {
		o.m[i] = p.Beta1*o.m[i] + (1-p.Beta1)*g
		o.v[i] = p.Beta2*o.v[i] + (1-p.Beta2)*g*g
		mhat := p.Beta1*o.m[i]/(1-math32.Pow(p.Beta1, t+1)) + (1-p.Beta1)*g/(1-math32.Pow(p.Beta1, t))
		vhat := o.v[i] / (1 - math32.Pow(p.Beta2, t))
		weights[i] -= lr * mhat / (math32.Sqrt(vhat) + p.Epsilon)
	}
	o.end()
	return nil
}
