package trainconfig

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/menta2k/trainkit/pkg/errdefs"
)

type alternative struct {
	name string
	set  bool
}

// which returns the name of the single alternative that is set, "" when none
// is. More than one alternative is an ErrInvalidConfig.
func which(union string, alternatives ...alternative) (string, error) {
	var set []string
	for _, a := range alternatives {
		if a.set {
			set = append(set, a.name)
		}
	}
	switch len(set) {
	case 0:
		return "", nil
	case 1:
		return set[0], nil
	}
	return "", errors.Wrapf(errdefs.ErrInvalidConfig, "%s sets more than one alternative: %s", union, strings.Join(set, ", "))
}

// Which returns the selected schedule
func (s *LearningSchedule) Which() (string, error) {
	if s == nil {
		return "", nil
	}
	return which("learning_schedule",
		alternative{"constant_learning_rate", s.ConstantLearningRate != nil},
		alternative{"cosine_decay_schedule", s.CosineDecaySchedule != nil},
		alternative{"cosine_decay_restarts_schedule", s.CosineDecayRestartsSchedule != nil},
		alternative{"exponential_decay_schedule", s.ExponentialDecaySchedule != nil},
		alternative{"inverse_time_decay_schedule", s.InverseTimeDecaySchedule != nil},
		alternative{"piecewise_constant_decay_schedule", s.PiecewiseConstantDecaySchedule != nil},
		alternative{"polynomial_decay_schedule", s.PolynomialDecaySchedule != nil},
	)
}

// Which returns the selected optimizer
func (o *Optimizer) Which() (string, error) {
	if o == nil {
		return "", nil
	}
	return which("optimizer",
		alternative{"adadelta", o.Adadelta != nil},
		alternative{"adagrad", o.Adagrad != nil},
		alternative{"adam", o.Adam != nil},
		alternative{"adamax", o.Adamax != nil},
		alternative{"ftrl", o.Ftrl != nil},
		alternative{"nadam", o.Nadam != nil},
		alternative{"rmsprop", o.RMSprop != nil},
		alternative{"sgd", o.SGD != nil},
	)
}

// Which returns the selected loss
func (l *Loss) Which() (string, error) {
	if l == nil {
		return "", nil
	}
	return which("loss",
		alternative{"binary_cross_entropy", l.BinaryCrossEntropy != nil},
		alternative{"categorical_cross_entropy", l.CategoricalCrossEntropy != nil},
		alternative{"categorical_hinge", l.CategoricalHinge != nil},
		alternative{"cosine_similarity", l.CosineSimilarity != nil},
		alternative{"hinge", l.Hinge != nil},
		alternative{"huber", l.Huber != nil},
		alternative{"kl_divergence", l.KLDivergence != nil},
		alternative{"log_cosh", l.LogCosh != nil},
		alternative{"mean_absolute_error", l.MeanAbsoluteError != nil},
		alternative{"mean_absolute_percentage_error", l.MeanAbsolutePercentageError != nil},
		alternative{"mean_squared_error", l.MeanSquaredError != nil},
		alternative{"mean_squared_logarithmic_error", l.MeanSquaredLogarithmicError != nil},
		alternative{"poisson", l.Poisson != nil},
		alternative{"sparse_categorical_cross_entropy", l.SparseCategoricalCrossEntropy != nil},
		alternative{"squared_hinge", l.SquaredHinge != nil},
	)
}

// Which returns the selected augmentation
func (a *AugmentationMethod) Which() (string, error) {
	if a == nil {
		return "", nil
	}
	return which("augmentation",
		alternative{"random_horizontal_flip", a.RandomHorizontalFlip != nil},
		alternative{"random_gray_scale", a.RandomGrayScale != nil},
	)
}
