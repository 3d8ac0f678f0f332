package calc

import (
	"errors"
	"testing"

	"countme-core/internal/domain"
)

func floatp(v float64) *float64 { return &v }

func TestApplyServingMultiplierScalesEverything(t *testing.T) {
	base := domain.Ingredient{
		Name:     "Oats",
		Quantity: 50,
		Unit:     "g",
		Calories: 190,
		Protein:  floatp(6.5),
		Carbs:    floatp(33),
	}

	scaled, err := ApplyServingMultiplier(2, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scaled.Quantity != 100 || scaled.Calories != 380 {
		t.Fatalf("quantity/calories not scaled: %g / %g", scaled.Quantity, scaled.Calories)
	}
	if *scaled.Protein != 13 || *scaled.Carbs != 66 {
		t.Fatalf("macros not scaled: %g / %g", *scaled.Protein, *scaled.Carbs)
	}
	if scaled.Fats != nil {
		t.Fatal("absent macro should stay nil")
	}
	if scaled.Unit != "g" || scaled.Name != "Oats" {
		t.Fatalf("identity fields should not change: %+v", scaled)
	}
}

func TestApplyServingMultiplierDoesNotMutateInput(t *testing.T) {
	base := domain.Ingredient{Name: "Rice", Quantity: 100, Unit: "g", Calories: 130, Protein: floatp(2.7)}

	if _, err := ApplyServingMultiplier(3, base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.Quantity != 100 || base.Calories != 130 {
		t.Fatalf("input mutated: %+v", base)
	}
	if *base.Protein != 2.7 {
		t.Fatalf("input macro mutated through shared pointer: %g", *base.Protein)
	}
}

func TestApplyServingMultiplierRejectsNonPositive(t *testing.T) {
	for _, m := range []float64{0, -1, -0.25} {
		_, err := ApplyServingMultiplier(m, domain.Ingredient{Name: "X", Quantity: 1, Unit: "g"})
		var serr *ServingSizeError
		if !errors.As(err, &serr) {
			t.Fatalf("multiplier %g: expected serving size error, got %v", m, err)
		}
		if serr.Multiplier != m {
			t.Fatalf("error should carry the rejected multiplier, got %g", serr.Multiplier)
		}
	}
}

func TestApplyServingMultiplierFractional(t *testing.T) {
	scaled, err := ApplyServingMultiplier(0.5, domain.Ingredient{Name: "Bread", Quantity: 2, Unit: "slice", Calories: 160})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scaled.Quantity != 1 || scaled.Calories != 80 {
		t.Fatalf("half serving wrong: %g / %g", scaled.Quantity, scaled.Calories)
	}
}
