package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CustomMeal is a user-defined recipe: an ordered list of ingredients plus a
// servings count. Aggregates are derived, never stored.
type CustomMeal struct {
	SyncMeta
	ID            string
	Name          string
	ServingsCount float64
	Ingredients   []Ingredient
}

type NewCustomMealInput struct {
	UserID        string
	Name          string
	ServingsCount float64 // 0 means the default of 1
	Ingredients   []NewIngredientInput
}

// NewCustomMeal validates the meal and every ingredient. A failing ingredient
// aborts the whole construction with an error naming its position.
func NewCustomMeal(in NewCustomMealInput) (*CustomMeal, error) {
	name, err := checkName("CustomMeal", in.Name)
	if err != nil {
		return nil, err
	}
	servings := in.ServingsCount
	if servings == 0 {
		servings = 1
	}
	if err := checkPositive("CustomMeal", "servingsCount", servings); err != nil {
		return nil, err
	}
	if len(in.Ingredients) == 0 {
		return nil, &ValidationError{Model: "CustomMeal", Field: "ingredients", Reason: ReasonNoIngredients}
	}

	meal := &CustomMeal{
		ID:            uuid.New().String(),
		Name:          name,
		ServingsCount: servings,
	}
	for i, ingIn := range in.Ingredients {
		ing, err := NewIngredient(ingIn)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		ing.MealID = meal.ID
		meal.Ingredients = append(meal.Ingredients, *ing)
	}

	meal.UserID = in.UserID
	meal.Touch(time.Now())
	return meal, nil
}

func (m *CustomMeal) EntityType() EntityType { return EntityMeal }

// AddIngredient appends an already-constructed ingredient and records the
// mutation for sync.
func (m *CustomMeal) AddIngredient(ing Ingredient) {
	ing.MealID = m.ID
	m.Ingredients = append(m.Ingredients, ing)
	m.Touch(time.Now())
}

func (m *CustomMeal) TotalCalories() float64 {
	var total float64
	for _, ing := range m.Ingredients {
		total += ing.Calories
	}
	return total
}

func (m *CustomMeal) TotalProtein() float64 {
	return m.sumOptional(func(i Ingredient) *float64 { return i.Protein })
}

func (m *CustomMeal) TotalCarbs() float64 {
	return m.sumOptional(func(i Ingredient) *float64 { return i.Carbs })
}

func (m *CustomMeal) TotalFats() float64 {
	return m.sumOptional(func(i Ingredient) *float64 { return i.Fats })
}

func (m *CustomMeal) sumOptional(field func(Ingredient) *float64) float64 {
	total, _ := m.sumPresent(field)
	return total
}

// sumPresent reports whether any ingredient carries the field at all, so
// absent macro data stays distinguishable from a zero total.
func (m *CustomMeal) sumPresent(field func(Ingredient) *float64) (float64, bool) {
	var total float64
	present := false
	for _, ing := range m.Ingredients {
		if v := field(ing); v != nil {
			total += *v
			present = true
		}
	}
	return total, present
}

// PerServingCalories is defined only when the meal is split into more than one
// serving; otherwise it returns nil rather than repeating the total.
func (m *CustomMeal) PerServingCalories() *float64 { return m.perServing(m.TotalCalories()) }
func (m *CustomMeal) PerServingProtein() *float64  { return m.perServing(m.TotalProtein()) }
func (m *CustomMeal) PerServingCarbs() *float64    { return m.perServing(m.TotalCarbs()) }
func (m *CustomMeal) PerServingFats() *float64     { return m.perServing(m.TotalFats()) }

func (m *CustomMeal) perServing(total float64) *float64 {
	if m.ServingsCount <= 1 {
		return nil
	}
	v := total / m.ServingsCount
	return &v
}

// Snapshot materializes one logged portion of the meal as an independent
// FoodItem: per-serving amounts when the meal has multiple servings, totals
// otherwise. A macro no ingredient carries stays nil on the item rather than
// becoming an explicit zero. The item goes through the validating constructor,
// so a portion that still exceeds the calorie ceiling is rejected, and later
// edits to the meal never reach the logged item.
func (m *CustomMeal) Snapshot(logID string) (*FoodItem, error) {
	calories := m.TotalCalories()
	protein, hasProtein := m.sumPresent(func(i Ingredient) *float64 { return i.Protein })
	carbs, hasCarbs := m.sumPresent(func(i Ingredient) *float64 { return i.Carbs })
	fats, hasFats := m.sumPresent(func(i Ingredient) *float64 { return i.Fats })
	if m.ServingsCount > 1 {
		calories /= m.ServingsCount
		protein /= m.ServingsCount
		carbs /= m.ServingsCount
		fats /= m.ServingsCount
	}

	in := NewFoodItemInput{
		UserID:   m.UserID,
		LogID:    logID,
		Name:     m.Name,
		Calories: calories,
	}
	if hasProtein {
		in.Protein = &protein
	}
	if hasCarbs {
		in.Carbs = &carbs
	}
	if hasFats {
		in.Fats = &fats
	}
	return NewFoodItem(in)
}

// MealDocument is the wire form of a CustomMeal; ingredients travel inline.
type MealDocument struct {
	ID            string               `json:"id" validate:"required"`
	UserID        string               `json:"user_id" validate:"required"`
	Name          string               `json:"name" validate:"required"`
	ServingsCount float64              `json:"servings_count" validate:"gt=0"`
	Ingredients   []IngredientDocument `json:"ingredients" validate:"min=1,dive"`
	LastModified  time.Time            `json:"last_modified"`
}

func (d *MealDocument) Collection() EntityType { return EntityMeal }
func (d *MealDocument) DocID() string          { return d.ID }
func (d *MealDocument) DocOwner() string       { return d.UserID }
func (d *MealDocument) DocModified() time.Time { return d.LastModified }

func (m *CustomMeal) Document() *MealDocument {
	doc := &MealDocument{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		ServingsCount: m.ServingsCount,
		LastModified:  m.LastModified,
	}
	for i := range m.Ingredients {
		doc.Ingredients = append(doc.Ingredients, m.Ingredients[i].Document())
	}
	return doc
}

// Item restores a CustomMeal from an already-validated document.
func (d *MealDocument) Item() *CustomMeal {
	meal := &CustomMeal{
		SyncMeta: SyncMeta{
			UserID:       d.UserID,
			LastModified: d.LastModified,
			SyncStatus:   SyncStatusSynced,
		},
		ID:            d.ID,
		Name:          d.Name,
		ServingsCount: d.ServingsCount,
	}
	for _, ing := range d.Ingredients {
		meal.Ingredients = append(meal.Ingredients, ing.item(d.ID))
	}
	return meal
}
