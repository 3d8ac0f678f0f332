// Package calc holds the pure serving-size and energy math. Nothing here
// suspends or touches storage.
package calc

import (
	"fmt"

	"countme-core/internal/domain"
)

// ServingSizeError rejects a non-positive multiplier. Unlike the estimators,
// scaling never silently defaults.
type ServingSizeError struct {
	Multiplier float64
}

func (e *ServingSizeError) Error() string {
	return fmt.Sprintf("serving multiplier must be greater than zero, got %g", e.Multiplier)
}

// ApplyServingMultiplier returns a copy of ing with quantity, calories and
// every present macro scaled by multiplier. The input is never mutated, so a
// base ingredient can back any number of serving calculations.
func ApplyServingMultiplier(multiplier float64, ing domain.Ingredient) (domain.Ingredient, error) {
	if multiplier <= 0 {
		return domain.Ingredient{}, &ServingSizeError{Multiplier: multiplier}
	}

	out := ing.Clone()
	out.Quantity *= multiplier
	out.Calories *= multiplier
	scale(out.Protein, multiplier)
	scale(out.Carbs, multiplier)
	scale(out.Fats, multiplier)
	return out, nil
}

func scale(v *float64, multiplier float64) {
	if v != nil {
		*v *= multiplier
	}
}
