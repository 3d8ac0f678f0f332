package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"countme-core/internal/domain"
)

func newMealFixture(t *testing.T) (*MealService, *TrackingService, *fakeRecorder) {
	t.Helper()
	st := newTestStore(t)
	rec := &fakeRecorder{}
	tracking := NewTrackingService(st, rec)
	return NewMealService(st, rec, tracking), tracking, rec
}

func burritoBowlRequest() *domain.CreateMealRequest {
	return &domain.CreateMealRequest{
		Name:          "Burrito Bowl",
		ServingsCount: 4,
		Ingredients: []domain.CreateIngredientInput{
			{Name: "Rice", Quantity: 400, Unit: "g", Calories: 400, Protein: floatp(8)},
			{Name: "Beans", Quantity: 200, Unit: "g", Calories: 160, Protein: floatp(12)},
		},
	}
}

func TestCreateMealComputesAggregates(t *testing.T) {
	svc, _, _ := newMealFixture(t)
	ctx := context.Background()

	meal, err := svc.Create(ctx, "user-1", burritoBowlRequest())
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	if got := meal.TotalCalories(); got != 560 {
		t.Errorf("expected total 560 calories, got %v", got)
	}
	perServing := meal.PerServingCalories()
	if perServing == nil || *perServing != 140 {
		t.Errorf("expected 140 calories per serving, got %v", perServing)
	}
	if got := meal.TotalProtein(); got != 20 {
		t.Errorf("expected total 20g protein, got %v", got)
	}
}

func TestPerServingUndefinedForSingleServing(t *testing.T) {
	svc, _, _ := newMealFixture(t)
	ctx := context.Background()

	req := burritoBowlRequest()
	req.ServingsCount = 0 // defaults to 1
	meal, err := svc.Create(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	if meal.ServingsCount != 1 {
		t.Errorf("expected servings default of 1, got %v", meal.ServingsCount)
	}
	if meal.PerServingCalories() != nil {
		t.Error("expected per-serving undefined for a single serving")
	}
}

func TestCreateMealRequiresIngredients(t *testing.T) {
	svc, _, _ := newMealFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", &domain.CreateMealRequest{Name: "Empty", ServingsCount: 2})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for empty meal, got %v", err)
	}
}

func TestCreateMealNamesFailingIngredient(t *testing.T) {
	svc, _, _ := newMealFixture(t)
	ctx := context.Background()

	req := burritoBowlRequest()
	req.Ingredients[1].Quantity = 0

	_, err := svc.Create(ctx, "user-1", req)
	if err == nil {
		t.Fatal("expected non-positive quantity rejected")
	}
	if got := err.Error(); !errors.As(err, new(*domain.ValidationError)) || got == "" {
		t.Fatalf("expected wrapped validation error, got %v", err)
	}
}

func TestLoggedMealSnapshotIsIndependent(t *testing.T) {
	svc, tracking, _ := newMealFixture(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	meal, err := svc.Create(ctx, "user-1", burritoBowlRequest())
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	item, err := svc.Log(ctx, "user-1", meal.ID, day)
	if err != nil {
		t.Fatalf("log meal: %v", err)
	}
	if item.Calories != 140 {
		t.Errorf("expected one serving of 140 calories logged, got %v", item.Calories)
	}
	if item.Name != "Burrito Bowl" {
		t.Errorf("expected snapshot named after the meal, got %q", item.Name)
	}

	// Editing the meal afterwards must not change the logged entry.
	if _, err := svc.AddIngredient(ctx, "user-1", meal.ID, &domain.AddIngredientRequest{
		CreateIngredientInput: domain.CreateIngredientInput{Name: "Cheese", Quantity: 100, Unit: "g", Calories: 400},
	}); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}

	log, err := tracking.LogForDate(ctx, "user-1", day)
	if err != nil {
		t.Fatalf("fetch log: %v", err)
	}
	if len(log.Foods) != 1 {
		t.Fatalf("expected 1 logged entry, got %d", len(log.Foods))
	}
	if log.Foods[0].Calories != 140 {
		t.Errorf("expected logged snapshot unchanged at 140, got %v", log.Foods[0].Calories)
	}
}

func TestAddIngredientWithServingMultiplier(t *testing.T) {
	svc, _, _ := newMealFixture(t)
	ctx := context.Background()

	meal, err := svc.Create(ctx, "user-1", burritoBowlRequest())
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	updated, err := svc.AddIngredient(ctx, "user-1", meal.ID, &domain.AddIngredientRequest{
		CreateIngredientInput: domain.CreateIngredientInput{
			Name: "Salsa", Quantity: 50, Unit: "g", Calories: 30, Protein: floatp(1),
		},
		ServingMultiplier: 2,
	})
	if err != nil {
		t.Fatalf("add ingredient: %v", err)
	}

	added := updated.Ingredients[len(updated.Ingredients)-1]
	if added.Quantity != 100 || added.Calories != 60 {
		t.Errorf("expected quantity and calories doubled, got %v / %v", added.Quantity, added.Calories)
	}
	if added.Protein == nil || *added.Protein != 2 {
		t.Errorf("expected protein doubled, got %v", added.Protein)
	}

	_, err = svc.AddIngredient(ctx, "user-1", meal.ID, &domain.AddIngredientRequest{
		CreateIngredientInput: domain.CreateIngredientInput{Name: "Lime", Quantity: 1, Unit: "piece", Calories: 5},
		ServingMultiplier:     -1,
	})
	if err == nil {
		t.Error("expected negative multiplier rejected")
	}
}

func TestMealOwnership(t *testing.T) {
	svc, _, _ := newMealFixture(t)
	ctx := context.Background()

	meal, err := svc.Create(ctx, "user-1", burritoBowlRequest())
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	if _, err := svc.Get(ctx, "user-2", meal.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner on foreign get, got %v", err)
	}
	if err := svc.Delete(ctx, "user-2", meal.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner on foreign delete, got %v", err)
	}
	if _, err := svc.Log(ctx, "user-2", meal.ID, time.Now()); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner on foreign log, got %v", err)
	}
}

func TestDeleteMealRemovesIngredients(t *testing.T) {
	svc, _, _ := newMealFixture(t)
	ctx := context.Background()

	meal, err := svc.Create(ctx, "user-1", burritoBowlRequest())
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", meal.ID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}

	meals, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(meals) != 0 {
		t.Errorf("expected no meals after delete, got %d", len(meals))
	}
}
