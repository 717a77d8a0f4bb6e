// Package trainconfig defines the configuration messages read by the
// builders. Each variant message is a struct with one pointer field per
// alternative; exactly one of them is expected to be set. Optional scalars
// are pointers, nil meaning "use the registered default".
//
// Keys are normalised with strcase.ToSnake before decoding, so "beta1",
// "beta_1" and "Beta1" all map to the koanf key "beta_1", and
// "l1_regularization_strength" maps to "l_1_regularization_strength".
package trainconfig

// TrainingConfig is the top-level configuration document
type TrainingConfig struct {
	Optimizer     *Optimizer     `koanf:"optimizer" yaml:"optimizer,omitempty"`
	Loss          *Loss          `koanf:"loss" yaml:"loss,omitempty"`
	Preprocessing *Preprocessing `koanf:"preprocessing" yaml:"preprocessing,omitempty"`
}

// LearningSchedule selects a constant learning rate or a decay schedule
type LearningSchedule struct {
	ConstantLearningRate           *float32                        `koanf:"constant_learning_rate" yaml:"constant_learning_rate,omitempty"`
	CosineDecaySchedule            *CosineDecaySchedule            `koanf:"cosine_decay_schedule" yaml:"cosine_decay_schedule,omitempty"`
	CosineDecayRestartsSchedule    *CosineDecayRestartsSchedule    `koanf:"cosine_decay_restarts_schedule" yaml:"cosine_decay_restarts_schedule,omitempty"`
	ExponentialDecaySchedule       *ExponentialDecaySchedule       `koanf:"exponential_decay_schedule" yaml:"exponential_decay_schedule,omitempty"`
	InverseTimeDecaySchedule       *InverseTimeDecaySchedule       `koanf:"inverse_time_decay_schedule" yaml:"inverse_time_decay_schedule,omitempty"`
	PiecewiseConstantDecaySchedule *PiecewiseConstantDecaySchedule `koanf:"piecewise_constant_decay_schedule" yaml:"piecewise_constant_decay_schedule,omitempty"`
	PolynomialDecaySchedule        *PolynomialDecaySchedule        `koanf:"polynomial_decay_schedule" yaml:"polynomial_decay_schedule,omitempty"`
}

type CosineDecaySchedule struct {
	InitialLearningRate float32  `koanf:"initial_learning_rate" yaml:"initial_learning_rate"`
	DecaySteps          int64    `koanf:"decay_steps" yaml:"decay_steps"`
	Alpha               *float32 `koanf:"alpha" yaml:"alpha,omitempty"`
}

type CosineDecayRestartsSchedule struct {
	InitialLearningRate float32  `koanf:"initial_learning_rate" yaml:"initial_learning_rate"`
	FirstDecaySteps     int64    `koanf:"first_decay_steps" yaml:"first_decay_steps"`
	TMul                *float32 `koanf:"t_mul" yaml:"t_mul,omitempty"`
	MMul                *float32 `koanf:"m_mul" yaml:"m_mul,omitempty"`
	Alpha               *float32 `koanf:"alpha" yaml:"alpha,omitempty"`
}

type ExponentialDecaySchedule struct {
	InitialLearningRate float32 `koanf:"initial_learning_rate" yaml:"initial_learning_rate"`
	DecaySteps          int64   `koanf:"decay_steps" yaml:"decay_steps"`
	DecayRate           float32 `koanf:"decay_rate" yaml:"decay_rate"`
	Staircase           *bool   `koanf:"staircase" yaml:"staircase,omitempty"`
}

type InverseTimeDecaySchedule struct {
	InitialLearningRate float32 `koanf:"initial_learning_rate" yaml:"initial_learning_rate"`
	DecaySteps          int64   `koanf:"decay_steps" yaml:"decay_steps"`
	DecayRate           float32 `koanf:"decay_rate" yaml:"decay_rate"`
	Staircase           *bool   `koanf:"staircase" yaml:"staircase,omitempty"`
}

// PiecewiseConstantDecaySchedule needs one more value than boundaries
type PiecewiseConstantDecaySchedule struct {
	Boundaries []int64   `koanf:"boundaries" yaml:"boundaries,flow"`
	Values     []float32 `koanf:"values" yaml:"values,flow"`
}

type PolynomialDecaySchedule struct {
	InitialLearningRate float32  `koanf:"initial_learning_rate" yaml:"initial_learning_rate"`
	DecaySteps          int64    `koanf:"decay_steps" yaml:"decay_steps"`
	EndLearningRate     *float32 `koanf:"end_learning_rate" yaml:"end_learning_rate,omitempty"`
	Power               *float32 `koanf:"power" yaml:"power,omitempty"`
	Cycle               *bool    `koanf:"cycle" yaml:"cycle,omitempty"`
}

// Optimizer selects one optimizer. Every alternative carries its own
// learning schedule.
type Optimizer struct {
	Adadelta *AdadeltaOptimizer `koanf:"adadelta" yaml:"adadelta,omitempty"`
	Adagrad  *AdagradOptimizer  `koanf:"adagrad" yaml:"adagrad,omitempty"`
	Adam     *AdamOptimizer     `koanf:"adam" yaml:"adam,omitempty"`
	Adamax   *AdamaxOptimizer   `koanf:"adamax" yaml:"adamax,omitempty"`
	Ftrl     *FtrlOptimizer     `koanf:"ftrl" yaml:"ftrl,omitempty"`
	Nadam    *NadamOptimizer    `koanf:"nadam" yaml:"nadam,omitempty"`
	RMSprop  *RMSpropOptimizer  `koanf:"rmsprop" yaml:"rmsprop,omitempty"`
	SGD      *SGDOptimizer      `koanf:"sgd" yaml:"sgd,omitempty"`
}

type AdadeltaOptimizer struct {
	LearningSchedule *LearningSchedule `koanf:"learning_schedule" yaml:"learning_schedule,omitempty"`
	Rho              *float32          `koanf:"rho" yaml:"rho,omitempty"`
	Epsilon          *float32          `koanf:"epsilon" yaml:"epsilon,omitempty"`
}

type AdagradOptimizer struct {
	LearningSchedule        *LearningSchedule `koanf:"learning_schedule" yaml:"learning_schedule,omitempty"`
	InitialAccumulatorValue *float32          `koanf:"initial_accumulator_value" yaml:"initial_accumulator_value,omitempty"`
	Epsilon                 *float32          `koanf:"epsilon" yaml:"epsilon,omitempty"`
}

type AdamOptimizer struct {
	LearningSchedule *LearningSchedule `koanf:"learning_schedule" yaml:"learning_schedule,omitempty"`
	Beta1            *float32          `koanf:"beta_1" yaml:"beta_1,omitempty"`
	Beta2            *float32          `koanf:"beta_2" yaml:"beta_2,omitempty"`
	Epsilon          *float32          `koanf:"epsilon" yaml:"epsilon,omitempty"`
	AMSGrad          *bool             `koanf:"amsgrad" yaml:"amsgrad,omitempty"`
}

type AdamaxOptimizer struct {
	LearningSchedule *LearningSchedule `koanf:"learning_schedule" yaml:"learning_schedule,omitempty"`
	Beta1            *float32          `koanf:"beta_1" yaml:"beta_1,omitempty"`
	Beta2            *float32          `koanf:"beta_2" yaml:"beta_2,omitempty"`
	Epsilon          *float32          `koanf:"epsilon" yaml:"epsilon,omitempty"`
}

type FtrlOptimizer struct {
	LearningSchedule                  *LearningSchedule `koanf:"learning_schedule" yaml:"learning_schedule,omitempty"`
	LearningRatePower                 *float32          `koanf:"learning_rate_power" yaml:"learning_rate_power,omitempty"`
	InitialAccumulatorValue           *float32          `koanf:"initial_accumulator_value" yaml:"initial_accumulator_value,omitempty"`
	L1RegularizationStrength          *float32          `koanf:"l_1_regularization_strength" yaml:"l1_regularization_strength,omitempty"`
	L2RegularizationStrength          *float32          `koanf:"l_2_regularization_strength" yaml:"l2_regularization_strength,omitempty"`
	L2ShrinkageRegularizationStrength *float32          `koanf:"l_2_shrinkage_regularization_strength" yaml:"l2_shrinkage_regularization_strength,omitempty"`
	Beta                              *float32          `koanf:"beta" yaml:"beta,omitempty"`
}

type NadamOptimizer struct {
	LearningSchedule *LearningSchedule `koanf:"learning_schedule" yaml:"learning_schedule,omitempty"`
	Beta1            *float32          `koanf:"beta_1" yaml:"beta_1,omitempty"`
	Beta2            *float32          `koanf:"beta_2" yaml:"beta_2,omitempty"`
	Epsilon          *float32          `koanf:"epsilon" yaml:"epsilon,omitempty"`
}

type RMSpropOptimizer struct {
	LearningSchedule *LearningSchedule `koanf:"learning_schedule" yaml:"learning_schedule,omitempty"`
	Rho              *float32          `koanf:"rho" yaml:"rho,omitempty"`
	Momentum         *float32          `koanf:"momentum" yaml:"momentum,omitempty"`
	Epsilon          *float32          `koanf:"epsilon" yaml:"epsilon,omitempty"`
	Centered         *bool             `koanf:"centered" yaml:"centered,omitempty"`
}

type SGDOptimizer struct {
	LearningSchedule *LearningSchedule `koanf:"learning_schedule" yaml:"learning_schedule,omitempty"`
	Momentum         *float32          `koanf:"momentum" yaml:"momentum,omitempty"`
	Nesterov         *bool             `koanf:"nesterov" yaml:"nesterov,omitempty"`
}

// Loss selects one loss function
type Loss struct {
	BinaryCrossEntropy            *CrossEntropyLoss       `koanf:"binary_cross_entropy" yaml:"binary_cross_entropy,omitempty"`
	CategoricalCrossEntropy       *CrossEntropyLoss       `koanf:"categorical_cross_entropy" yaml:"categorical_cross_entropy,omitempty"`
	CategoricalHinge              *ReductionLoss          `koanf:"categorical_hinge" yaml:"categorical_hinge,omitempty"`
	CosineSimilarity              *CosineSimilarityLoss   `koanf:"cosine_similarity" yaml:"cosine_similarity,omitempty"`
	Hinge                         *ReductionLoss          `koanf:"hinge" yaml:"hinge,omitempty"`
	Huber                         *HuberLoss              `koanf:"huber" yaml:"huber,omitempty"`
	KLDivergence                  *ReductionLoss          `koanf:"kl_divergence" yaml:"kl_divergence,omitempty"`
	LogCosh                       *ReductionLoss          `koanf:"log_cosh" yaml:"log_cosh,omitempty"`
	MeanAbsoluteError             *ReductionLoss          `koanf:"mean_absolute_error" yaml:"mean_absolute_error,omitempty"`
	MeanAbsolutePercentageError   *ReductionLoss          `koanf:"mean_absolute_percentage_error" yaml:"mean_absolute_percentage_error,omitempty"`
	MeanSquaredError              *ReductionLoss          `koanf:"mean_squared_error" yaml:"mean_squared_error,omitempty"`
	MeanSquaredLogarithmicError   *ReductionLoss          `koanf:"mean_squared_logarithmic_error" yaml:"mean_squared_logarithmic_error,omitempty"`
	Poisson                       *ReductionLoss          `koanf:"poisson" yaml:"poisson,omitempty"`
	SparseCategoricalCrossEntropy *SparseCrossEntropyLoss `koanf:"sparse_categorical_cross_entropy" yaml:"sparse_categorical_cross_entropy,omitempty"`
	SquaredHinge                  *ReductionLoss          `koanf:"squared_hinge" yaml:"squared_hinge,omitempty"`
}

// ReductionLoss is the message of the losses without parameters
type ReductionLoss struct {
	Reduction LossReduction `koanf:"reduction" yaml:"reduction,omitempty"`
}

type CrossEntropyLoss struct {
	FromLogits     *bool         `koanf:"from_logits" yaml:"from_logits,omitempty"`
	LabelSmoothing *float32      `koanf:"label_smoothing" yaml:"label_smoothing,omitempty"`
	Reduction      LossReduction `koanf:"reduction" yaml:"reduction,omitempty"`
}

type SparseCrossEntropyLoss struct {
	FromLogits *bool         `koanf:"from_logits" yaml:"from_logits,omitempty"`
	Reduction  LossReduction `koanf:"reduction" yaml:"reduction,omitempty"`
}

type CosineSimilarityLoss struct {
	Axis      *int          `koanf:"axis" yaml:"axis,omitempty"`
	Reduction LossReduction `koanf:"reduction" yaml:"reduction,omitempty"`
}

type HuberLoss struct {
	Delta     *float32      `koanf:"delta" yaml:"delta,omitempty"`
	Reduction LossReduction `koanf:"reduction" yaml:"reduction,omitempty"`
}

// Preprocessing describes the resize step and the augmentation pipeline.
// A zero height or width disables resizing.
type Preprocessing struct {
	ImageHeight    int            `koanf:"image_height" yaml:"image_height"`
	ImageWidth     int            `koanf:"image_width" yaml:"image_width"`
	ResizeProtocol ResizeProtocol `koanf:"resize_protocol" yaml:"resize_protocol,omitempty"`
	Augmentations  *Augmentations `koanf:"augmentations" yaml:"augmentations,omitempty"`
}

// Augmentations is an ordered list of augmentation methods
type Augmentations struct {
	AugmentMethod []AugmentationMethod `koanf:"augment_method" yaml:"augment_method"`
}

// AugmentationMethod selects one augmentation
type AugmentationMethod struct {
	RandomHorizontalFlip *RandomHorizontalFlip `koanf:"random_horizontal_flip" yaml:"random_horizontal_flip,omitempty"`
	RandomGrayScale      *RandomGrayScale      `koanf:"random_gray_scale" yaml:"random_gray_scale,omitempty"`
}

type RandomHorizontalFlip struct {
	FlipProbability *float32 `koanf:"flip_probability" yaml:"flip_probability,omitempty"`
}

type RandomGrayScale struct {
	GrayProbability *float32 `koanf:"gray_probability" yaml:"gray_probability,omitempty"`
}
