package builder

import (
	"context"

	"github.com/menta2k/trainkit/pkg/losses"
	"github.com/menta2k/trainkit/pkg/trainconfig"
)

// Loss defaults applied to unset fields
const (
	DefaultFromLogits     = false
	DefaultLabelSmoothing = 0.0
	DefaultCosineAxis     = -1
	DefaultHuberDelta     = 1.0
)

// BuildLossReduction maps a configured reduction to a losses.Reduction.
// An unset reduction resolves to losses.Auto.
func BuildLossReduction(ctx context.Context, r trainconfig.LossReduction) (losses.Reduction, error) {
	switch r {
	case trainconfig.ReductionUnspecified, trainconfig.ReductionAuto:
		return losses.Auto, nil
	case trainconfig.ReductionNone:
		return losses.None, nil
	case trainconfig.ReductionSum:
		return losses.Sum, nil
	case trainconfig.ReductionSumOverBatchSize:
		return losses.SumOverBatchSize, nil
	}
	return 0, invalid(ctx, "Unsupported loss reduction %v.", r)
}

// BuildLoss builds the selected loss with its reduction
func BuildLoss(ctx context.Context, cfg *trainconfig.Loss) (losses.Loss, error) {
	name, err := cfg.Which()
	if err != nil {
		return nil, invalid(ctx, "%v", err)
	}

	switch name {
	case "binary_cross_entropy":
		c := cfg.BinaryCrossEntropy
		reduction, err := BuildLossReduction(ctx, c.Reduction)
		if err != nil {
			return nil, err
		}
		debug(ctx, "Building Binary Cross Entropy Loss.")
		return losses.NewBinaryCrossentropy(
			valueOr(c.FromLogits, DefaultFromLogits),
			valueOr(c.LabelSmoothing, DefaultLabelSmoothing),
			reduction,
		), nil

	case "categorical_cross_entropy":
		c := cfg.CategoricalCrossEntropy
		reduction, err := BuildLossReduction(ctx, c.Reduction)
		if err != nil {
			return nil, err
		}
		debug(ctx, "Building Categorical Cross Entropy Loss.")
		return losses.NewCategoricalCrossentropy(
			valueOr(c.FromLogits, DefaultFromLogits),
			valueOr(c.LabelSmoothing, DefaultLabelSmoothing),
			reduction,
		), nil

	case "cosine_similarity":
		c := cfg.CosineSimilarity
		reduction, err := BuildLossReduction(ctx, c.Reduction)
		if err != nil {
			return nil, err
		}
		axis := valueOr(c.Axis, DefaultCosineAxis)
		loss, err := losses.NewCosineSimilarity(axis, reduction)
		if err != nil {
			return nil, invalid(ctx, "Unsupported cosine similarity axis %d.", axis)
		}
		debug(ctx, "Building Cosine Similarity Loss.")
		return loss, nil

	case "huber":
		c := cfg.Huber
		reduction, err := BuildLossReduction(ctx, c.Reduction)
		if err != nil {
			return nil, err
		}
		debug(ctx, "Building Huber Loss.")
		return losses.NewHuber(valueOr(c.Delta, DefaultHuberDelta), reduction), nil

	case "sparse_categorical_cross_entropy":
		c := cfg.SparseCategoricalCrossEntropy
		reduction, err := BuildLossReduction(ctx, c.Reduction)
		if err != nil {
			return nil, err
		}
		debug(ctx, "Building Sparse Categorical Cross Entropy Loss.")
		return losses.NewSparseCategoricalCrossentropy(valueOr(c.FromLogits, DefaultFromLogits), reduction), nil
	}

	if c, ok := reductionOnly(cfg, name); ok {
		reduction, err := BuildLossReduction(ctx, c.cfg.Reduction)
		if err != nil {
			return nil, err
		}
		debug(ctx, "Building "+c.title+" Loss.")
		return c.build(reduction), nil
	}

	return nil, invalid(ctx, "A valid loss was not provided.")
}

type reductionOnlyLoss struct {
	title string
	cfg   *trainconfig.ReductionLoss
	build func(losses.Reduction) losses.Loss
}

// reductionOnly returns the losses configured by their reduction alone
func reductionOnly(cfg *trainconfig.Loss, name string) (reductionOnlyLoss, bool) {
	switch name {
	case "categorical_hinge":
		return reductionOnlyLoss{"Categorical Hinge", cfg.CategoricalHinge, losses.NewCategoricalHinge}, true
	case "hinge":
		return reductionOnlyLoss{"Hinge", cfg.Hinge, losses.NewHinge}, true
	case "kl_divergence":
		return reductionOnlyLoss{"KL Divergence", cfg.KLDivergence, losses.NewKLDivergence}, true
	case "log_cosh":
		return reductionOnlyLoss{"Log Cosh", cfg.LogCosh, losses.NewLogCosh}, true
	case "mean_absolute_error":
		return reductionOnlyLoss{"Mean Absolute Error", cfg.MeanAbsoluteError, losses.NewMeanAbsoluteError}, true
	case "mean_absolute_percentage_error":
		return reductionOnlyLoss{"Mean Absolute Percentage Error", cfg.MeanAbsolutePercentageError, losses.NewMeanAbsolutePercentageError}, true
	case "mean_squared_error":
		return reductionOnlyLoss{"Mean Squared Error", cfg.MeanSquaredError, losses.NewMeanSquaredError}, true
	case "mean_squared_logarithmic_error":
		return reductionOnlyLoss{"Mean Squared Logarithmic Error", cfg.MeanSquaredLogarithmicError, losses.NewMeanSquaredLogarithmicError}, true
	case "poisson":
		return reductionOnlyLoss{"Poisson", cfg.Poisson, losses.NewPoisson}, true
	case "squared_hinge":
		return reductionOnlyLoss{"Squared Hinge", cfg.SquaredHinge, losses.NewSquaredHinge}, true
	}
	return reductionOnlyLoss{}, false
}
