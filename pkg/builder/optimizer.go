package builder

import (
	"context"

	"github.com/menta2k/trainkit/pkg/optimizers"
	"github.com/menta2k/trainkit/pkg/schedules"
	"github.com/menta2k/trainkit/pkg/trainconfig"
)

// BuildOptimizer builds the selected optimizer. Its learning schedule is
// built first and passed as the learning rate; unset hyper-parameters take
// the optimizer defaults.
func BuildOptimizer(ctx context.Context, cfg *trainconfig.Optimizer) (optimizers.Optimizer, error) {
	name, err := cfg.Which()
	if err != nil {
		return nil, invalid(ctx, "%v", err)
	}
	if name == "" {
		return nil, invalid(ctx, "A valid optimizer was not found.")
	}

	switch name {
	case "adadelta":
		c := cfg.Adadelta
		lr, err := buildOptimizerSchedule(ctx, name, c.LearningSchedule)
		if err != nil {
			return nil, err
		}
		p := optimizers.DefaultAdadeltaParams()
		p.Rho = valueOr(c.Rho, p.Rho)
		p.Epsilon = valueOr(c.Epsilon, p.Epsilon)
		debug(ctx, "Building AdaDelta optimizer.")
		return optimizers.NewAdadelta(lr, p), nil

	case "adagrad":
		c := cfg.Adagrad
		lr, err := buildOptimizerSchedule(ctx, name, c.LearningSchedule)
		if err != nil {
			return nil, err
		}
		p := optimizers.DefaultAdagradParams()
		p.InitialAccumulatorValue = valueOr(c.InitialAccumulatorValue, p.InitialAccumulatorValue)
		p.Epsilon = valueOr(c.Epsilon, p.Epsilon)
		debug(ctx, "Building AdaGrad optimizer.")
		return optimizers.NewAdagrad(lr, p), nil

	case "adam":
		c := cfg.Adam
		lr, err := buildOptimizerSchedule(ctx, name, c.LearningSchedule)
		if err != nil {
			return nil, err
		}
		p := optimizers.DefaultAdamParams()
		p.Beta1 = valueOr(c.Beta1, p.Beta1)
		p.Beta2 = valueOr(c.Beta2, p.Beta2)
		p.Epsilon = valueOr(c.Epsilon, p.Epsilon)
		p.AMSGrad = valueOr(c.AMSGrad, p.AMSGrad)
		debug(ctx, "Building Adam optimizer.")
		return optimizers.NewAdam(lr, p), nil

	case "adamax":
		c := cfg.Adamax
		lr, err := buildOptimizerSchedule(ctx, name, c.LearningSchedule)
		if err != nil {
			return nil, err
		}
		p := optimizers.DefaultAdamaxParams()
		p.Beta1 = valueOr(c.Beta1, p.Beta1)
		p.Beta2 = valueOr(c.Beta2, p.Beta2)
		p.Epsilon = valueOr(c.Epsilon, p.Epsilon)
		debug(ctx, "Building AdaMax optimizer.")
		return optimizers.NewAdamax(lr, p), nil

	case "ftrl":
		c := cfg.Ftrl
		lr, err := buildOptimizerSchedule(ctx, name, c.LearningSchedule)
		if err != nil {
			return nil, err
		}
		p := optimizers.DefaultFtrlParams()
		p.LearningRatePower = valueOr(c.LearningRatePower, p.LearningRatePower)
		p.InitialAccumulatorValue = valueOr(c.InitialAccumulatorValue, p.InitialAccumulatorValue)
		p.L1RegularizationStrength = valueOr(c.L1RegularizationStrength, p.L1RegularizationStrength)
		p.L2RegularizationStrength = valueOr(c.L2RegularizationStrength, p.L2RegularizationStrength)
		p.L2ShrinkageRegularizationStrength = valueOr(c.L2ShrinkageRegularizationStrength, p.L2ShrinkageRegularizationStrength)
		p.Beta = valueOr(c.Beta, p.Beta)
		debug(ctx, "Building Ftrl optimizer.")
		return optimizers.NewFtrl(lr, p), nil

	case "nadam":
		c := cfg.Nadam
		lr, err := buildOptimizerSchedule(ctx, name, c.LearningSchedule)
		if err != nil {
			return nil, err
		}
		p := optimizers.DefaultNadamParams()
		p.Beta1 = valueOr(c.Beta1, p.Beta1)
		p.Beta2 = valueOr(c.Beta2, p.Beta2)
		p.Epsilon = valueOr(c.Epsilon, p.Epsilon)
		debug(ctx, "Building Nadam optimizer.")
		return optimizers.NewNadam(lr, p), nil

	case "rmsprop":
		c := cfg.RMSprop
		lr, err := buildOptimizerSchedule(ctx, name, c.LearningSchedule)
		if err != nil {
			return nil, err
		}
		p := optimizers.DefaultRMSpropParams()
		p.Rho = valueOr(c.Rho, p.Rho)
		p.Momentum = valueOr(c.Momentum, p.Momentum)
		p.Epsilon = valueOr(c.Epsilon, p.Epsilon)
		p.Centered = valueOr(c.Centered, p.Centered)
		debug(ctx, "Building RMSProp optimizer.")
		return optimizers.NewRMSprop(lr, p), nil

	case "sgd":
		c := cfg.SGD
		lr, err := buildOptimizerSchedule(ctx, name, c.LearningSchedule)
		if err != nil {
			return nil, err
		}
		p := optimizers.DefaultSGDParams()
		p.Momentum = valueOr(c.Momentum, p.Momentum)
		p.Nesterov = valueOr(c.Nesterov, p.Nesterov)
		debug(ctx, "Building SGD optimizer.")
		return optimizers.NewSGD(lr, p), nil
	}

	return nil, invalid(ctx, "A valid optimizer was not found.")
}

func buildOptimizerSchedule(ctx context.Context, optimizer string, cfg *trainconfig.LearningSchedule) (schedules.LearningRate, error) {
	if cfg == nil {
		return nil, invalid(ctx, "The %s optimizer has no learning_schedule.", optimizer)
	}
	return BuildLearningSchedule(ctx, cfg)
}
