package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"countme-core/internal/domain"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", time.UTC)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedLog(t *testing.T, s *Store, userID string, at time.Time) *domain.DailyLog {
	t.Helper()
	log, err := domain.NewDailyLog(domain.NewDailyLogInput{UserID: userID, Date: at}, s.Location())
	if err != nil {
		t.Fatalf("new daily log: %v", err)
	}
	if err := s.PutDailyLog(context.Background(), log); err != nil {
		t.Fatalf("put daily log: %v", err)
	}
	return log
}

func seedFood(t *testing.T, s *Store, userID, logID, name string, calories float64) *domain.FoodItem {
	t.Helper()
	item, err := domain.NewFoodItem(domain.NewFoodItemInput{
		UserID: userID, LogID: logID, Name: name, Calories: calories,
	})
	if err != nil {
		t.Fatalf("new food item: %v", err)
	}
	if err := s.PutFood(context.Background(), item); err != nil {
		t.Fatalf("put food item: %v", err)
	}
	return item
}

func TestDailyLogByDateNormalizesToCalendarDay(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	morning := time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)
	log := seedLog(t, s, "user-1", morning)

	nearMidnight := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	got, err := s.DailyLogByDate(ctx, "user-1", nearMidnight)
	if err != nil {
		t.Fatalf("fetch same day: %v", err)
	}
	if got.ID != log.ID {
		t.Fatalf("same calendar day resolved to a different log: %s vs %s", got.ID, log.ID)
	}

	nextDay := time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC)
	if _, err := s.DailyLogByDate(ctx, "user-1", nextDay); !errors.Is(err, ErrNotFound) {
		t.Fatalf("next day should have no log, got %v", err)
	}
	if _, err := s.DailyLogByDate(ctx, "user-2", morning); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user should have no log, got %v", err)
	}
}

func TestDailyLogRoundTripLoadsChildren(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	log := seedLog(t, s, "user-1", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	goal := 2200.0
	if err := log.SetGoal(&goal); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if err := s.PutDailyLog(ctx, log); err != nil {
		t.Fatalf("update daily log: %v", err)
	}

	protein := 31.0
	food, err := domain.NewFoodItem(domain.NewFoodItemInput{
		UserID: "user-1", LogID: log.ID, Name: "Chicken Breast", Calories: 165, Protein: &protein,
	})
	if err != nil {
		t.Fatalf("new food item: %v", err)
	}
	if err := s.PutFood(ctx, food); err != nil {
		t.Fatalf("put food: %v", err)
	}

	duration := 30.0
	exercise, err := domain.NewExerciseItem(domain.NewExerciseItemInput{
		UserID: "user-1", LogID: log.ID, Name: "Running", CaloriesBurned: 300, DurationMinutes: &duration,
	})
	if err != nil {
		t.Fatalf("new exercise item: %v", err)
	}
	if err := s.PutExercise(ctx, exercise); err != nil {
		t.Fatalf("put exercise: %v", err)
	}

	got, err := s.DailyLogByID(ctx, log.ID)
	if err != nil {
		t.Fatalf("fetch log: %v", err)
	}
	if got.Goal == nil || *got.Goal != 2200 {
		t.Fatalf("goal not preserved: %v", got.Goal)
	}
	if len(got.Foods) != 1 || got.Foods[0].Name != "Chicken Breast" {
		t.Fatalf("foods not loaded: %+v", got.Foods)
	}
	if got.Foods[0].Protein == nil || *got.Foods[0].Protein != 31 {
		t.Fatalf("food protein not preserved: %v", got.Foods[0].Protein)
	}
	if len(got.Exercises) != 1 || got.Exercises[0].CaloriesBurned != 300 {
		t.Fatalf("exercises not loaded: %+v", got.Exercises)
	}
	if got.Exercises[0].DurationMinutes == nil || *got.Exercises[0].DurationMinutes != 30 {
		t.Fatalf("exercise duration not preserved: %v", got.Exercises[0].DurationMinutes)
	}
}

func TestDeleteDailyLogCascadesToChildren(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	log := seedLog(t, s, "user-1", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	food := seedFood(t, s, "user-1", log.ID, "Toast", 120)
	exercise, err := domain.NewExerciseItem(domain.NewExerciseItemInput{
		UserID: "user-1", LogID: log.ID, Name: "Walking", CaloriesBurned: 90,
	})
	if err != nil {
		t.Fatalf("new exercise item: %v", err)
	}
	if err := s.PutExercise(ctx, exercise); err != nil {
		t.Fatalf("put exercise: %v", err)
	}

	if err := s.DeleteDailyLog(ctx, log.ID); err != nil {
		t.Fatalf("delete log: %v", err)
	}
	if _, err := s.FoodByID(ctx, food.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("food should cascade with its log, got %v", err)
	}
	if _, err := s.ExerciseByID(ctx, exercise.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("exercise should cascade with its log, got %v", err)
	}
}

func TestPutMealReplacesIngredientsWholesale(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	meal, err := domain.NewCustomMeal(domain.NewCustomMealInput{
		UserID: "user-1",
		Name:   "Stir Fry",
		Ingredients: []domain.NewIngredientInput{
			{Name: "Noodles", Quantity: 200, Unit: "g", Calories: 280},
			{Name: "Tofu", Quantity: 100, Unit: "g", Calories: 80},
		},
	})
	if err != nil {
		t.Fatalf("new meal: %v", err)
	}
	if err := s.PutMeal(ctx, meal); err != nil {
		t.Fatalf("put meal: %v", err)
	}

	meal.Ingredients = meal.Ingredients[:1]
	if err := s.PutMeal(ctx, meal); err != nil {
		t.Fatalf("re-put meal: %v", err)
	}

	got, err := s.MealByID(ctx, meal.ID)
	if err != nil {
		t.Fatalf("fetch meal: %v", err)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].Name != "Noodles" {
		t.Fatalf("ingredients not replaced wholesale: %+v", got.Ingredients)
	}
}

func TestDeleteMeal(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	meal, err := domain.NewCustomMeal(domain.NewCustomMealInput{
		UserID: "user-1",
		Name:   "Oatmeal",
		Ingredients: []domain.NewIngredientInput{
			{Name: "Oats", Quantity: 50, Unit: "g", Calories: 190},
		},
	})
	if err != nil {
		t.Fatalf("new meal: %v", err)
	}
	if err := s.PutMeal(ctx, meal); err != nil {
		t.Fatalf("put meal: %v", err)
	}
	if err := s.DeleteMeal(ctx, meal.ID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	if _, err := s.MealByID(ctx, meal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted meal still readable, got %v", err)
	}
	if err := s.DeleteMeal(ctx, meal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should report not found, got %v", err)
	}
}

func TestExportApplyRemoteRoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	log := seedLog(t, s, "user-1", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	food := seedFood(t, s, "user-1", log.ID, "Banana", 105)

	doc, err := s.Export(ctx, domain.EntityFood, food.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	foodDoc, ok := doc.(*domain.FoodDocument)
	if !ok {
		t.Fatalf("export returned %T", doc)
	}
	if foodDoc.Calories != 105 || foodDoc.UserID != "user-1" {
		t.Fatalf("exported document wrong: %+v", foodDoc)
	}

	// A newer remote revision of the same item.
	foodDoc.Calories = 210
	foodDoc.LastModified = foodDoc.LastModified.Add(time.Minute)
	if err := s.ApplyRemote(ctx, foodDoc); err != nil {
		t.Fatalf("apply remote: %v", err)
	}

	got, err := s.FoodByID(ctx, food.ID)
	if err != nil {
		t.Fatalf("fetch food: %v", err)
	}
	if got.Calories != 210 {
		t.Fatalf("remote revision not applied: %g", got.Calories)
	}
	if got.SyncStatus != domain.SyncStatusSynced {
		t.Fatalf("restored item should be synced, got %s", got.SyncStatus)
	}
}

func TestPendingAndMarkSynced(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	log := seedLog(t, s, "user-1", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	food := seedFood(t, s, "user-1", log.ID, "Rice", 200)

	pending, err := s.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending entries, got %d", len(pending))
	}
	// Parents come first so a restart can re-upload in FK order.
	if pending[0].Entity != domain.EntityDailyLog || pending[0].ID != log.ID {
		t.Fatalf("log should be listed first: %+v", pending)
	}
	if pending[1].Entity != domain.EntityFood || pending[1].ID != food.ID {
		t.Fatalf("food should be listed second: %+v", pending)
	}

	if err := s.MarkSynced(ctx, domain.EntityDailyLog, log.ID, log.LastModified); err != nil {
		t.Fatalf("mark log synced: %v", err)
	}
	if err := s.MarkSynced(ctx, domain.EntityFood, food.ID, food.LastModified); err != nil {
		t.Fatalf("mark food synced: %v", err)
	}

	pending, err = s.Pending(ctx)
	if err != nil {
		t.Fatalf("pending after sync: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("nothing should remain pending, got %+v", pending)
	}

	got, err := s.FoodByID(ctx, food.ID)
	if err != nil {
		t.Fatalf("fetch food: %v", err)
	}
	if !got.LastModified.Equal(food.LastModified) {
		t.Fatalf("mark synced must not advance last_modified: %v vs %v", got.LastModified, food.LastModified)
	}

	if err := s.MarkSynced(ctx, domain.EntityFood, "missing", food.LastModified); err != nil {
		t.Fatalf("marking a missing row should be a no-op, got %v", err)
	}
}

func TestMarkSyncedSkipsMutatedRow(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	log := seedLog(t, s, "user-1", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	food := seedFood(t, s, "user-1", log.ID, "Rice", 200)
	exported := food.LastModified

	// The row changes after export, before the upload's bookkeeping lands.
	food.Calories = 250
	food.Touch(exported.Add(time.Second))
	if err := s.PutFood(ctx, food); err != nil {
		t.Fatalf("update food: %v", err)
	}

	if err := s.MarkSynced(ctx, domain.EntityFood, food.ID, exported); err != nil {
		t.Fatalf("mark synced: %v", err)
	}

	got, err := s.FoodByID(ctx, food.ID)
	if err != nil {
		t.Fatalf("fetch food: %v", err)
	}
	if got.SyncStatus == domain.SyncStatusSynced {
		t.Fatal("row mutated after export must stay pending")
	}

	if err := s.MarkSynced(ctx, domain.EntityFood, food.ID, got.LastModified); err != nil {
		t.Fatalf("mark synced with current stamp: %v", err)
	}
	got, err = s.FoodByID(ctx, food.ID)
	if err != nil {
		t.Fatalf("fetch food: %v", err)
	}
	if got.SyncStatus != domain.SyncStatusSynced {
		t.Fatalf("expected row synced after marking its current revision, got %s", got.SyncStatus)
	}
}

func TestOnChangePublishesMutations(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	var changes []Change
	s.OnChange(func(c Change) { changes = append(changes, c) })

	log := seedLog(t, s, "user-1", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	food := seedFood(t, s, "user-1", log.ID, "Egg", 78)
	if err := s.DeleteFood(ctx, food.ID); err != nil {
		t.Fatalf("delete food: %v", err)
	}

	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d: %+v", len(changes), changes)
	}
	if changes[0].Entity != domain.EntityDailyLog || changes[0].Op != ChangePut {
		t.Fatalf("first change should be the log put: %+v", changes[0])
	}
	if changes[1].Entity != domain.EntityFood || changes[1].ID != food.ID || changes[1].Op != ChangePut {
		t.Fatalf("second change should be the food put: %+v", changes[1])
	}
	last := changes[2]
	if last.Op != ChangeDelete || last.ID != food.ID || last.UserID != "user-1" {
		t.Fatalf("delete change wrong: %+v", last)
	}
}
