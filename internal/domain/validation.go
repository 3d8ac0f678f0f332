package domain

import (
	"fmt"
	"strings"
)

// Numeric bounds shared by the validating constructors and the wire-document
// checks. Values are inclusive: a field equal to its bound is legal.
const (
	MaxCalories        = 50000.0
	MaxMacroGrams      = 10000.0
	MaxDurationMinutes = 1440.0
	MaxDailyGoal       = 50000.0
)

type ValidationReason string

const (
	ReasonEmptyName     ValidationReason = "empty_name"
	ReasonNegativeValue ValidationReason = "negative_value"
	ReasonExceedsMax    ValidationReason = "exceeds_max"
	ReasonNonPositive   ValidationReason = "non_positive"
	ReasonNoIngredients ValidationReason = "no_ingredients"
)

// ValidationError reports a single rejected field. Construction is atomic:
// the first invalid field aborts the constructor and no entity is produced.
type ValidationError struct {
	Model  string
	Field  string
	Reason ValidationReason
	Value  float64
	Max    float64
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmptyName:
		return fmt.Sprintf("%s: name must not be empty", e.Model)
	case ReasonNegativeValue:
		return fmt.Sprintf("%s: %s must not be negative, got %g", e.Model, e.Field, e.Value)
	case ReasonExceedsMax:
		return fmt.Sprintf("%s: %s exceeds maximum %g, got %g", e.Model, e.Field, e.Max, e.Value)
	case ReasonNonPositive:
		return fmt.Sprintf("%s: %s must be greater than zero, got %g", e.Model, e.Field, e.Value)
	case ReasonNoIngredients:
		return fmt.Sprintf("%s: at least one ingredient is required", e.Model)
	}
	return fmt.Sprintf("%s: invalid %s", e.Model, e.Field)
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Model == t.Model && e.Field == t.Field && e.Reason == t.Reason
}

func checkName(model, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Model: model, Field: "name", Reason: ReasonEmptyName}
	}
	return name, nil
}

func checkRange(model, field string, value, max float64) error {
	if value < 0 {
		return &ValidationError{Model: model, Field: field, Reason: ReasonNegativeValue, Value: value}
	}
	if value > max {
		return &ValidationError{Model: model, Field: field, Reason: ReasonExceedsMax, Value: value, Max: max}
	}
	return nil
}

func checkOptionalRange(model, field string, value *float64, max float64) error {
	if value == nil {
		return nil
	}
	return checkRange(model, field, *value, max)
}

func checkPositive(model, field string, value float64) error {
	if value <= 0 {
		return &ValidationError{Model: model, Field: field, Reason: ReasonNonPositive, Value: value}
	}
	return nil
}
