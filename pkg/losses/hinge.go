package losses

import "github.com/chewxy/math32"

// NewHinge returns mean(max(1 - yTrue * yPred, 0)). Labels are expected in
// {-1, 1}; binary {0, 1} labels are converted.
func NewHinge(reduction Reduction) Loss {
	return newRowLoss("hinge", reduction, func(yTrue, yPred []float32) float32 {
		y := signedLabels(yTrue)
		return mean(y, func(i int) float32 {
			return math32.Max(1-y[i]*yPred[i], 0)
		})
	})
}

// NewSquaredHinge returns mean(max(1 - yTrue * yPred, 0)^2)
func NewSquaredHinge(reduction Reduction) Loss {
	return newRowLoss("squared_hinge", reduction, func(yTrue, yPred []float32) float32 {
		y := signedLabels(yTrue)
		return mean(y, func(i int) float32 {
			h := math32.Max(1-y[i]*yPred[i], 0)
			return h * h
		})
	})
}

// NewCategoricalHinge returns max(0, neg - pos + 1) where pos is the score of
// the true class and neg the best score among the other classes
func NewCategoricalHinge(reduction Reduction) Loss {
	return newRowLoss("categorical_hinge", reduction, func(yTrue, yPred []float32) float32 {
		var pos, neg float32
		for i := range yTrue {
			pos += yTrue[i] * yPred[i]
			neg = math32.Max(neg, (1-yTrue[i])*yPred[i])
		}
		return math32.Max(0, neg-pos+1)
	})
}

func signedLabels(yTrue []float32) []float32 {
	binary := true
	for _, y := range yTrue {
		if y != 0 && y != 1 {
			binary = false
			break
		}
	}
	if !binary {
		return yTrue
	}
	out := make([]float32, len(yTrue))
	for i, y := range yTrue {
		out[i] = 2*y - 1
	}
	return out
}
