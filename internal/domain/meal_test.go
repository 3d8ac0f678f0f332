package domain

import (
	"errors"
	"testing"
)

func burritoBowl(t *testing.T, servings float64) *CustomMeal {
	t.Helper()
	meal, err := NewCustomMeal(NewCustomMealInput{
		UserID:        "user-1",
		Name:          "Burrito Bowl",
		ServingsCount: servings,
		Ingredients: []NewIngredientInput{
			{Name: "Rice", Quantity: 200, Unit: "g", Calories: 400, Protein: floatp(8)},
			{Name: "Beans", Quantity: 100, Unit: "g", Calories: 160, Protein: floatp(12)},
		},
	})
	if err != nil {
		t.Fatalf("new meal: %v", err)
	}
	return meal
}

func TestCustomMealAggregates(t *testing.T) {
	meal := burritoBowl(t, 4)

	if got := meal.TotalCalories(); got != 560 {
		t.Fatalf("total calories: %g", got)
	}
	if got := meal.TotalProtein(); got != 20 {
		t.Fatalf("total protein: %g", got)
	}
	if got := meal.PerServingCalories(); got == nil || *got != 140 {
		t.Fatalf("per-serving calories: %v", got)
	}
	if got := meal.PerServingProtein(); got == nil || *got != 5 {
		t.Fatalf("per-serving protein: %v", got)
	}
}

func TestCustomMealSingleServingHasNoPerServing(t *testing.T) {
	meal := burritoBowl(t, 0) // defaults to 1
	if meal.ServingsCount != 1 {
		t.Fatalf("servings should default to 1, got %g", meal.ServingsCount)
	}
	if meal.PerServingCalories() != nil {
		t.Fatal("per-serving is undefined for a single serving")
	}
}

func TestNewCustomMealValidation(t *testing.T) {
	_, err := NewCustomMeal(NewCustomMealInput{UserID: "u", Name: "Empty"})
	if !errors.Is(err, &ValidationError{Model: "CustomMeal", Field: "ingredients", Reason: ReasonNoIngredients}) {
		t.Fatalf("empty meal should be rejected, got %v", err)
	}

	_, err = NewCustomMeal(NewCustomMealInput{
		UserID: "u", Name: "Bad",
		Ingredients: []NewIngredientInput{
			{Name: "Rice", Quantity: 200, Unit: "g", Calories: 400},
			{Name: "Beans", Quantity: 0, Unit: "g", Calories: 160},
		},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("failing ingredient should abort construction, got %v", err)
	}

	if _, err := NewCustomMeal(NewCustomMealInput{
		UserID: "u", Name: "Bad", ServingsCount: -2,
		Ingredients: []NewIngredientInput{{Name: "Rice", Quantity: 1, Unit: "g", Calories: 1}},
	}); err == nil {
		t.Fatal("negative servings should be rejected")
	}
}

func TestSnapshotIsIndependentOfLaterEdits(t *testing.T) {
	meal := burritoBowl(t, 4)

	item, err := meal.Snapshot("log-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if item.Calories != 140 {
		t.Fatalf("snapshot should hold one serving, got %g", item.Calories)
	}
	if item.LogID != "log-1" || item.UserID != "user-1" {
		t.Fatalf("snapshot identity wrong: %+v", item)
	}

	ing, err := NewIngredient(NewIngredientInput{Name: "Cheese", Quantity: 50, Unit: "g", Calories: 200})
	if err != nil {
		t.Fatalf("new ingredient: %v", err)
	}
	meal.AddIngredient(*ing)

	if item.Calories != 140 {
		t.Fatalf("later edits must not reach the logged item, got %g", item.Calories)
	}
}

func TestSnapshotLeavesAbsentMacrosNil(t *testing.T) {
	// Burrito bowl ingredients carry protein only.
	meal := burritoBowl(t, 4)

	item, err := meal.Snapshot("log-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if item.Protein == nil || *item.Protein != 5 {
		t.Fatalf("expected per-serving protein 5, got %v", item.Protein)
	}
	if item.Carbs != nil {
		t.Errorf("no ingredient carries carbs, snapshot should keep them nil, got %g", *item.Carbs)
	}
	if item.Fats != nil {
		t.Errorf("no ingredient carries fats, snapshot should keep them nil, got %g", *item.Fats)
	}

	bare, err := NewCustomMeal(NewCustomMealInput{
		UserID: "user-1", Name: "Black Coffee",
		Ingredients: []NewIngredientInput{{Name: "Coffee", Quantity: 250, Unit: "ml", Calories: 2}},
	})
	if err != nil {
		t.Fatalf("new meal: %v", err)
	}
	item, err = bare.Snapshot("log-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if item.Protein != nil || item.Carbs != nil || item.Fats != nil {
		t.Errorf("meal without macro data should snapshot with all macros nil, got %+v", item)
	}
}

func TestSnapshotStillValidatesThePortion(t *testing.T) {
	meal, err := NewCustomMeal(NewCustomMealInput{
		UserID: "u", Name: "Absurd", ServingsCount: 1,
		Ingredients: []NewIngredientInput{
			{Name: "A", Quantity: 1, Unit: "kg", Calories: 30000},
			{Name: "B", Quantity: 1, Unit: "kg", Calories: 30000},
		},
	})
	if err != nil {
		t.Fatalf("new meal: %v", err)
	}
	if _, err := meal.Snapshot("log-1"); err == nil {
		t.Fatal("a portion over the calorie ceiling must be rejected")
	}

	meal.ServingsCount = 2
	item, err := meal.Snapshot("log-1")
	if err != nil {
		t.Fatalf("half portion should pass: %v", err)
	}
	if item.Calories != 30000 {
		t.Fatalf("half portion calories: %g", item.Calories)
	}
}

func TestIngredientCloneDoesNotAlias(t *testing.T) {
	ing, err := NewIngredient(NewIngredientInput{
		Name: "Milk", Quantity: 250, Unit: "ml", Calories: 120, Protein: floatp(8),
	})
	if err != nil {
		t.Fatalf("new ingredient: %v", err)
	}
	clone := ing.Clone()
	*clone.Protein = 99
	if *ing.Protein != 8 {
		t.Fatalf("clone aliases the original: %g", *ing.Protein)
	}
}
