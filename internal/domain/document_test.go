package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func rawFoodDoc(t *testing.T, mutate func(*FoodDocument)) []byte {
	t.Helper()
	doc := &FoodDocument{
		ID:           "food-1",
		UserID:       "user-1",
		LogID:        "log-1",
		Name:         "Apple",
		Calories:     95,
		LastModified: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(doc)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestDecodeDocumentAcceptsValidRecord(t *testing.T) {
	doc, err := DecodeDocument(EntityFood, rawFoodDoc(t, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	food, ok := doc.(*FoodDocument)
	if !ok {
		t.Fatalf("wrong document type %T", doc)
	}
	item := food.Item()
	if item.SyncStatus != SyncStatusSynced {
		t.Fatalf("restored item should be synced, got %s", item.SyncStatus)
	}
}

func TestDecodeDocumentRejectsTamperedRecords(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*FoodDocument)
	}{
		{"over max calories", func(d *FoodDocument) { d.Calories = 99999 }},
		{"negative calories", func(d *FoodDocument) { d.Calories = -5 }},
		{"over max protein", func(d *FoodDocument) { d.Protein = floatp(10001) }},
		{"missing id", func(d *FoodDocument) { d.ID = "" }},
		{"missing owner", func(d *FoodDocument) { d.UserID = "" }},
		{"blank name", func(d *FoodDocument) { d.Name = "   " }},
		{"zero last_modified", func(d *FoodDocument) { d.LastModified = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeDocument(EntityFood, rawFoodDoc(t, tc.mutate)); err == nil {
				t.Fatal("tampered record should be rejected")
			}
		})
	}
}

func TestDecodeDocumentRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeDocument(EntityFood, []byte(`{"id":`)); err == nil {
		t.Fatal("truncated JSON should be rejected")
	}
	if _, err := DecodeDocument(EntityType("unknown"), rawFoodDoc(t, nil)); err == nil {
		t.Fatal("unknown collection should be rejected")
	}
}

func TestDecodeMealDocumentChecksIngredients(t *testing.T) {
	meal := &MealDocument{
		ID:            "meal-1",
		UserID:        "user-1",
		Name:          "Bowl",
		ServingsCount: 2,
		Ingredients: []IngredientDocument{
			{ID: "ing-1", Name: "Rice", Quantity: 100, Unit: "g", Calories: 130},
		},
		LastModified: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(meal)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := DecodeDocument(EntityMeal, raw); err != nil {
		t.Fatalf("valid meal rejected: %v", err)
	}

	meal.Ingredients[0].Unit = "  "
	raw, _ = json.Marshal(meal)
	if _, err := DecodeDocument(EntityMeal, raw); err == nil {
		t.Fatal("blank ingredient unit should be rejected")
	}

	meal.Ingredients = nil
	raw, _ = json.Marshal(meal)
	if _, err := DecodeDocument(EntityMeal, raw); err == nil {
		t.Fatal("meal without ingredients should be rejected")
	}
}

func TestNewExerciseItemDurationBounds(t *testing.T) {
	if _, err := NewExerciseItem(NewExerciseItemInput{
		Name: "Hike", CaloriesBurned: 800, DurationMinutes: floatp(1440),
	}); err != nil {
		t.Fatalf("duration at the bound should be accepted: %v", err)
	}
	if _, err := NewExerciseItem(NewExerciseItemInput{
		Name: "Hike", CaloriesBurned: 800, DurationMinutes: floatp(1441),
	}); err == nil {
		t.Fatal("duration over a full day should be rejected")
	}
}
