package stormnet

import (
	"math"

	"github.com/dd0wney/stormnet/pkg/bayes"
)

// NoisyOR returns the row generator of a two-state effect whose causes are
// two-state parents with "true" at index 0. suppression[k] is the
// probability that the effect is false when cause k alone is active.
//
// With no active cause the effect is false with probability 1 (the leak);
// otherwise P(false) is the product of the active causes' suppression
// probabilities. Rows are [P(true), P(false)].
func NoisyOR(suppression []float64) bayes.RowFunc {
	q := append([]float64(nil), suppression...)
	return func(parentStates []int) []float64 {
		pFalse := 1.0
		for k, s := range parentStates {
			if s == 0 {
				pFalse *= q[k]
			}
		}
		return []float64{1 - pFalse, pFalse}
	}
}

// NeighborSuppression is the single-cause suppression of a broken
// neighbour joined by an edge of weight w
func NeighborSuppression(p1, w float64) float64 {
	return math.Min(1, p1*w)
}

// breakageRows gives P(true) = k*x for the k-th weather state
func breakageRows(x float64) [][]float64 {
	rows := make([][]float64, len(WeatherStates))
	for i := range WeatherStates {
		p := float64(i+1) * x
		rows[i] = []float64{p, 1 - p}
	}
	return rows
}
