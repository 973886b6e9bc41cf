package validation

import (
	"errors"
	"fmt"
	"math"
)

// FieldError describes one failed check
type FieldError struct {
	Config string
	Field  string
	Msg    string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Config, e.Field, e.Msg)
}

// ConfigValidator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type ConfigValidator struct {
	errors []error
	name   string
}

// NewConfigValidator creates a new config validator with the given config name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) *ConfigValidator {
	cv.errors = append(cv.errors, &FieldError{Config: cv.name, Field: field, Msg: fmt.Sprintf(format, args...)})
	return cv
}

// Finite validates that a float is neither NaN nor infinite.
func (cv *ConfigValidator) Finite(field string, value float64) *ConfigValidator {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return cv.fail(field, "value %v is not finite", value)
	}
	return cv
}

// RangeFloat validates that a float lies in [min, max]. NaN always fails.
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if !(value >= min && value <= max) {
		return cv.fail(field, "value %v is outside range [%v, %v]", value, min, max)
	}
	return cv
}

// Probability validates that a float lies in [0, 1].
func (cv *ConfigValidator) Probability(field string, value float64) *ConfigValidator {
	return cv.RangeFloat(field, value, 0, 1)
}

// NonNegativeFloat validates that a float is finite and >= 0.
func (cv *ConfigValidator) NonNegativeFloat(field string, value float64) *ConfigValidator {
	if !(value >= 0) || math.IsInf(value, 1) {
		return cv.fail(field, "value %v must be a non-negative finite number", value)
	}
	return cv
}

// SumsTo validates that values add up to target within tol.
func (cv *ConfigValidator) SumsTo(field string, values []float64, target, tol float64) *ConfigValidator {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if math.Abs(sum-target) > tol {
		return cv.fail(field, "values sum to %v, want %v", sum, target)
	}
	return cv
}

// MinInt validates that an int field is at least the minimum value.
func (cv *ConfigValidator) MinInt(field string, value, min int) *ConfigValidator {
	if value < min {
		return cv.fail(field, "value %d is below minimum %d", value, min)
	}
	return cv
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		return cv.fail(field, "required field is empty")
	}
	return cv
}

// Custom applies a custom validation function.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		return cv.fail(field, "%v", err)
	}
	return cv
}

// When conditionally applies validations if the condition is true.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors returns true if any validation errors occurred.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Validate returns nil, or all collected errors joined.
func (cv *ConfigValidator) Validate() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return errors.Join(cv.errors...)
}
