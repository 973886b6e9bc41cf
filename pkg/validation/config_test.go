package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidator_Probability(t *testing.T) {
	tests := []struct {
		value float64
		ok    bool
	}{
		{0, true},
		{0.5, true},
		{1, true},
		{-0.01, false},
		{1.01, false},
		{math.NaN(), false},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("Config").Probability("P1", tt.value)
		assert.Equal(t, !tt.ok, cv.HasErrors(), "value %v", tt.value)
	}
}

func TestConfigValidator_NonNegativeFloat(t *testing.T) {
	assert.False(t, NewConfigValidator("C").NonNegativeFloat("W", 0).HasErrors())
	assert.True(t, NewConfigValidator("C").NonNegativeFloat("W", -1).HasErrors())
	assert.True(t, NewConfigValidator("C").NonNegativeFloat("W", math.Inf(1)).HasErrors())
	assert.True(t, NewConfigValidator("C").NonNegativeFloat("W", math.NaN()).HasErrors())
}

func TestConfigValidator_SumsTo(t *testing.T) {
	assert.False(t, NewConfigValidator("C").SumsTo("Prior", []float64{0.6, 0.3, 0.1}, 1, 1e-6).HasErrors())
	assert.True(t, NewConfigValidator("C").SumsTo("Prior", []float64{0.6, 0.3}, 1, 1e-6).HasErrors())
}

func TestConfigValidator_CollectsAll(t *testing.T) {
	cv := NewConfigValidator("Config").
		Probability("P1", 2).
		Probability("P2", -1).
		Finite("X", math.Inf(-1)).
		MinInt("Workers", 0, 1).
		Required("Name", "").
		Custom("Rule", func() error { return errors.New("broken") }).
		When(false, func(cv *ConfigValidator) { cv.Probability("Skipped", 5) })

	require.True(t, cv.HasErrors())

	err := cv.Validate()
	require.Error(t, err)
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	require.Len(t, joined.Unwrap(), 6)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "P1", fe.Field)
	assert.Contains(t, err.Error(), "Config.Workers")
	assert.NotContains(t, err.Error(), "Skipped")
}

func TestConfigValidator_NoErrors(t *testing.T) {
	cv := NewConfigValidator("Config").Probability("P", 0.3).MinInt("N", 2, 1)
	assert.NoError(t, cv.Validate())
	assert.False(t, cv.HasErrors())
}

type sample struct {
	Rate   float64 `validate:"gte=0,lte=1"`
	Format string  `validate:"omitempty,oneof=json console"`
	Name   string  `validate:"required"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Rate: 0.5, Name: "x"}))

	err := Struct(sample{Rate: 1.5, Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample.Rate: must not exceed 1")
	assert.Contains(t, err.Error(), "sample.Format: must be one of [json console]")
	assert.Contains(t, err.Error(), "sample.Name: field is required")

	assert.Error(t, Struct(nil))
}
