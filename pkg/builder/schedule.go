package builder

import (
	"context"

	"github.com/menta2k/trainkit/pkg/schedules"
	"github.com/menta2k/trainkit/pkg/trainconfig"
)

// BuildLearningSchedule returns a schedules.Constant for a constant learning
// rate and a schedule object otherwise
func BuildLearningSchedule(ctx context.Context, cfg *trainconfig.LearningSchedule) (schedules.LearningRate, error) {
	name, err := cfg.Which()
	if err != nil {
		return nil, invalid(ctx, "%v", err)
	}

	switch name {
	case "constant_learning_rate":
		debug(ctx, "Building constant learning rate.")
		return schedules.Constant(*cfg.ConstantLearningRate), nil

	case "cosine_decay_schedule":
		c := cfg.CosineDecaySchedule
		if c.DecaySteps <= 0 {
			return nil, invalid(ctx, "CosineDecay decay_steps must be positive, got %d.", c.DecaySteps)
		}
		debug(ctx, "Building CosineDecay learning schedule.")
		return &schedules.CosineDecay{
			InitialLearningRate: c.InitialLearningRate,
			DecaySteps:          c.DecaySteps,
			Alpha:               valueOr(c.Alpha, schedules.DefaultCosineDecayAlpha),
		}, nil

	case "cosine_decay_restarts_schedule":
		c := cfg.CosineDecayRestartsSchedule
		if c.FirstDecaySteps <= 0 {
			return nil, invalid(ctx, "CosineDecayRestarts first_decay_steps must be positive, got %d.", c.FirstDecaySteps)
		}
		debug(ctx, "Building CosineDecayRestarts learning schedule.")
		return &schedules.CosineDecayRestarts{
			InitialLearningRate: c.InitialLearningRate,
			FirstDecaySteps:     c.FirstDecaySteps,
			TMul:                valueOr(c.TMul, schedules.DefaultCosineRestartsTMul),
			MMul:                valueOr(c.MMul, schedules.DefaultCosineRestartsMMul),
			Alpha:               valueOr(c.Alpha, schedules.DefaultCosineDecayAlpha),
		}, nil

	case "exponential_decay_schedule":
		c := cfg.ExponentialDecaySchedule
		if c.DecaySteps <= 0 {
			return nil, invalid(ctx, "ExponentialDecay decay_steps must be positive, got %d.", c.DecaySteps)
		}
		debug(ctx, "Building ExponentialDecay learning schedule.")
		return &schedules.ExponentialDecay{
			InitialLearningRate: c.InitialLearningRate,
			DecaySteps:          c.DecaySteps,
			DecayRate:           c.DecayRate,
			Staircase:           valueOr(c.Staircase, schedules.DefaultStaircase),
		}, nil

	case "inverse_time_decay_schedule":
		c := cfg.InverseTimeDecaySchedule
		if c.DecaySteps <= 0 {
			return nil, invalid(ctx, "InverseTimeDecay decay_steps must be positive, got %d.", c.DecaySteps)
		}
		debug(ctx, "Building InverseTimeDecay learning schedule.")
		return &schedules.InverseTimeDecay{
			InitialLearningRate: c.InitialLearningRate,
			DecaySteps:          c.DecaySteps,
			DecayRate:           c.DecayRate,
			Staircase:           valueOr(c.Staircase, schedules.DefaultStaircase),
		}, nil

	case "piecewise_constant_decay_schedule":
		c := cfg.PiecewiseConstantDecaySchedule
		if len(c.Values)-len(c.Boundaries)-1 != 0 {
			return nil, invalid(ctx, "Number of elements in values must be 1 more than those in boundaries.")
		}
		debug(ctx, "Building PiecewiseConstantDecay learning schedule.")
		return &schedules.PiecewiseConstantDecay{
			Boundaries: append([]int64(nil), c.Boundaries...),
			Values:     append([]float32(nil), c.Values...),
		}, nil

	case "polynomial_decay_schedule":
		c := cfg.PolynomialDecaySchedule
		if c.DecaySteps <= 0 {
			return nil, invalid(ctx, "PolynomialDecay decay_steps must be positive, got %d.", c.DecaySteps)
		}
		debug(ctx, "Building PolynomialDecay learning schedule.")
		return &schedules.PolynomialDecay{
			InitialLearningRate: c.InitialLearningRate,
			DecaySteps:          c.DecaySteps,
			EndLearningRate:     valueOr(c.EndLearningRate, schedules.DefaultPolynomialEndLR),
			Power:               valueOr(c.Power, schedules.DefaultPolynomialPower),
			Cycle:               valueOr(c.Cycle, schedules.DefaultPolynomialCycle),
		}, nil
	}

	return nil, invalid(ctx, "A valid learning schedule was not found.")
}
