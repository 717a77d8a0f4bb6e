// Package schedules implements learning rate schedules: functions of the
// training step returning the learning rate to use at that step.
package schedules

import (
	"github.com/chewxy/math32"
)

// LearningRate is accepted wherever a learning rate is expected.
// It is either a Constant or a dynamic schedule.
type LearningRate interface {
	At(step int64) float32
}

// Constant is a fixed learning rate
type Constant float32

// At returns the constant
func (c Constant) At(int64) float32 {
	return float32(c)
}

// Defaults registered for unset schedule parameters
const (
	DefaultCosineDecayAlpha   = 0.0
	DefaultCosineRestartsTMul = 2.0
	DefaultCosineRestartsMMul = 1.0
	DefaultPolynomialEndLR    = 0.0001
	DefaultPolynomialPower    = 1.0
	DefaultStaircase          = false
	DefaultPolynomialCycle    = false
)

// DefaultLearningRate is used by optimizers built without a schedule
const DefaultLearningRate Constant = 0.001

// CosineDecay decays the learning rate along a half cosine over DecaySteps,
// down to Alpha * InitialLearningRate
type CosineDecay struct {
	InitialLearningRate float32
	DecaySteps          int64
	Alpha               float32
}

func (s *CosineDecay) At(step int64) float32 {
	p := float32(min(step, s.DecaySteps)) / float32(s.DecaySteps)
	cosine := 0.5 * (1 + math32.Cos(math32.Pi*p))
	decayed := (1-s.Alpha)*cosine + s.Alpha
	return s.InitialLearningRate * decayed
}

// CosineDecayRestarts is a cosine decay with warm restarts. The period of
// each restart is TMul times the previous one, and its initial learning rate
// is MMul times the previous one.
type CosineDecayRestarts struct {
	InitialLearningRate float32
	FirstDecaySteps     int64
	TMul                float32
	MMul                float32
	Alpha               float32
}

func (s *CosineDecayRestarts) At(step int64) float32 {
	completed := float32(step) / float32(s.FirstDecaySteps)

	var restarts float32
	if s.TMul == 1.0 {
		restarts = math32.Floor(completed)
		completed -= restarts
	} else {
		restarts = math32.Floor(math32.Log(1-completed*(1-s.TMul)) / math32.Log(s.TMul))
		sumR := (1 - math32.Pow(s.TMul, restarts)) / (1 - s.TMul)
		completed = (completed - sumR) / math32.Pow(s.TMul, restarts)
	}

	mFac := math32.Pow(s.MMul, restarts)
	cosine := 0.5 * mFac * (1 + math32.Cos(math32.Pi*completed))
	decayed := (1-s.Alpha)*cosine + s.Alpha
	return s.InitialLearningRate * decayed
}

// ExponentialDecay multiplies the learning rate by DecayRate every
// DecaySteps. With Staircase the decay happens at discrete intervals.
type ExponentialDecay struct {
	InitialLearningRate float32
	DecaySteps          int64
	DecayRate           float32
	Staircase           bool
}

func (s *ExponentialDecay) At(step int64) float32 {
	p := progress(step, s.DecaySteps, s.Staircase)
	return s.InitialLearningRate * math32.Pow(s.DecayRate, p)
}

// InverseTimeDecay divides the learning rate by 1 + DecayRate * step / DecaySteps
type InverseTimeDecay struct {
	InitialLearningRate float32
	DecaySteps          int64
	DecayRate           float32
	Staircase           bool
}

func (s *InverseTimeDecay) At(step int64) float32 {
	p := progress(step, s.DecaySteps, s.Staircase)
	return s.InitialLearningRate / (1 + s.DecayRate*p)
}

// PiecewiseConstantDecay uses Values[0] up to and including Boundaries[0],
// Values[i] in (Boundaries[i-1], Boundaries[i]], and the last value after
// the last boundary. len(Values) is len(Boundaries) + 1.
type PiecewiseConstantDecay struct {
	Boundaries []int64
	Values     []float32
}

func (s *PiecewiseConstantDecay) At(step int64) float32 {
	for i, b := range s.Boundaries {
		if step <= b {
			return s.Values[i]
		}
	}
	return s.Values[len(s.Values)-1]
}

// PolynomialDecay moves the learning rate from InitialLearningRate to
// EndLearningRate over DecaySteps following a polynomial of degree Power.
// With Cycle the decay restarts with a longer period after DecaySteps.
type PolynomialDecay struct {
	InitialLearningRate float32
	DecaySteps          int64
	EndLearningRate     float32
	Power               float32
	Cycle               bool
}

func (s *PolynomialDecay) At(step int64) float32 {
	decaySteps := float32(s.DecaySteps)
	var p float32
	if s.Cycle {
		multiplier := math32.Ceil(float32(step) / decaySteps)
		if step == 0 {
			multiplier = 1
		}
		decaySteps *= multiplier
		p = float32(step) / decaySteps
	} else {
		p = float32(min(step, s.DecaySteps)) / decaySteps
	}
	return (s.InitialLearningRate-s.EndLearningRate)*math32.Pow(1-p, s.Power) + s.EndLearningRate
}

func progress(step, decaySteps int64, staircase bool) float32 {
	p := float32(step) / float32(decaySteps)
	if staircase {
		p = math32.Floor(p)
	}
	return p
}
