package schedules

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = qt.CmpEquals(cmpopts.EquateApprox(1e-4, 1e-7))

func TestConstant(t *testing.T) {
	c := qt.New(t)
	var lr LearningRate = Constant(0.01)
	c.Assert(lr.At(0), approx, float32(0.01))
	c.Assert(lr.At(1_000_000), approx, float32(0.01))
}

func TestCosineDecay(t *testing.T) {
	c := qt.New(t)
	s := &CosineDecay{InitialLearningRate: 0.1, DecaySteps: 100, Alpha: 0.1}

	testCases := []struct {
		step     int64
		expected float32
	}{
		{0, 0.1},
		{50, 0.1 * (0.9*0.5 + 0.1)},
		{100, 0.01},
		{500, 0.01},
	}
	for _, tc := range testCases {
		c.Assert(s.At(tc.step), approx, tc.expected, qt.Commentf("step %d", tc.step))
	}
}

func TestCosineDecayRestarts(t *testing.T) {
	c := qt.New(t)

	s := &CosineDecayRestarts{InitialLearningRate: 1, FirstDecaySteps: 10, TMul: 1, MMul: 0.5}
	c.Assert(s.At(0), approx, float32(1))
	c.Assert(s.At(5), approx, float32(0.5))
	// first restart at half the initial rate
	c.Assert(s.At(10), approx, float32(0.5))
	c.Assert(s.At(15), approx, float32(0.25))

	// doubling periods: restart 1 begins at step 10 and lasts 20 steps
	s = &CosineDecayRestarts{InitialLearningRate: 1, FirstDecaySteps: 10, TMul: 2, MMul: 1}
	c.Assert(s.At(10), approx, float32(1))
	c.Assert(s.At(20), approx, float32(0.5))
}

func TestExponentialDecay(t *testing.T) {
	c := qt.New(t)

	s := &ExponentialDecay{InitialLearningRate: 0.1, DecaySteps: 10, DecayRate: 0.5}
	c.Assert(s.At(10), approx, float32(0.05))
	c.Assert(s.At(5), approx, float32(0.1*0.70710678))

	s.Staircase = true
	c.Assert(s.At(5), approx, float32(0.1))
	c.Assert(s.At(19), approx, float32(0.05))
}

func TestInverseTimeDecay(t *testing.T) {
	c := qt.New(t)

	s := &InverseTimeDecay{InitialLearningRate: 0.01, DecaySteps: 10000, DecayRate: 0.3}
	c.Assert(s.At(0), approx, float32(0.01))
	c.Assert(s.At(10000), approx, float32(0.01/1.3))

	s.Staircase = true
	c.Assert(s.At(9999), approx, float32(0.01))
}

func TestPiecewiseConstantDecay(t *testing.T) {
	c := qt.New(t)

	s := &PiecewiseConstantDecay{
		Boundaries: []int64{10000, 15000, 20000},
		Values:     []float32{0.1, 0.01, 0.0001, 0.00001},
	}
	testCases := []struct {
		step     int64
		expected float32
	}{
		{0, 0.1},
		{10000, 0.1},
		{10001, 0.01},
		{15000, 0.01},
		{20000, 0.0001},
		{20001, 0.00001},
	}
	for _, tc := range testCases {
		c.Assert(s.At(tc.step), qt.Equals, tc.expected, qt.Commentf("step %d", tc.step))
	}
}

func TestPolynomialDecay(t *testing.T) {
	c := qt.New(t)

	s := &PolynomialDecay{InitialLearningRate: 0.1, DecaySteps: 100, EndLearningRate: 0.0, Power: 1}
	c.Assert(s.At(0), approx, float32(0.1))
	c.Assert(s.At(50), approx, float32(0.05))
	c.Assert(s.At(200), approx, float32(0))

	s.Cycle = true
	// second cycle spans 200 steps
	c.Assert(s.At(150), approx, float32(0.025))
}
