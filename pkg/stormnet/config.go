package stormnet

import (
	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/validation"
)

// DefaultLazyThreshold is the largest cause count for which Evacuee tables
// are materialised eagerly (2^12 rows).
const DefaultLazyThreshold = 12

// Config carries every analysis parameter the builder needs.
type Config struct {
	// P1 scales an edge weight into a neighbour's suppression probability
	P1 float64

	// P2 is the suppression probability of a vertex's own breakage
	P2 float64

	// WeatherPrior maps mild/stormy/extreme to probabilities
	WeatherPrior map[string]float64

	// BaseRates holds x(v) per vertex
	BaseRates map[string]float64

	// LazyThreshold overrides DefaultLazyThreshold when positive
	LazyThreshold int
}

func (c Config) lazyThreshold() int {
	if c.LazyThreshold > 0 {
		return c.LazyThreshold
	}
	return DefaultLazyThreshold
}

// validateRates checks every rate-like parameter and the base rate of
// each vertex. It never clamps.
func (c Config) validateRates(vertices []string) error {
	cv := validation.NewConfigValidator("stormnet.Config").
		Probability("P1", c.P1).
		Probability("P2", c.P2)

	for _, s := range WeatherStates {
		p, ok := c.WeatherPrior[s]
		if !ok {
			continue // reported as a malformed prior by the table
		}
		cv.Probability("WeatherPrior["+s+"]", p)
	}

	for _, v := range vertices {
		x, ok := c.BaseRates[v]
		field := "BaseRates[" + v + "]"
		if !ok {
			cv.Custom(field, func() error { return errMissingRate })
			continue
		}
		cv.RangeFloat(field, x, 0, 1.0/3)
	}
	return cv.Validate()
}

// priorTable builds the Weather CPT; missing or extra states and a sum
// other than one are reported as bayes errors
func (c Config) priorTable() (*bayes.Table, error) {
	return bayes.NewPrior(Weather, c.WeatherPrior)
}
