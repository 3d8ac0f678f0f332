package domain

import (
	"time"

	"github.com/google/uuid"
)

// FoodItem is one logged food on a daily log. Items created from a CustomMeal
// are snapshots: later edits to the meal never change them.
type FoodItem struct {
	SyncMeta
	ID       string
	LogID    string
	Name     string
	Calories float64
	Protein  *float64
	Carbs    *float64
	Fats     *float64
}

type NewFoodItemInput struct {
	UserID   string
	LogID    string
	Name     string
	Calories float64
	Protein  *float64
	Carbs    *float64
	Fats     *float64
}

// NewFoodItem validates every field and returns either a fully-populated item
// or a *ValidationError naming the offending field. Fields are stored exactly
// as given, never rounded or clamped.
func NewFoodItem(in NewFoodItemInput) (*FoodItem, error) {
	name, err := checkName("FoodItem", in.Name)
	if err != nil {
		return nil, err
	}
	if err := checkRange("FoodItem", "calories", in.Calories, MaxCalories); err != nil {
		return nil, err
	}
	if err := checkOptionalRange("FoodItem", "protein", in.Protein, MaxMacroGrams); err != nil {
		return nil, err
	}
	if err := checkOptionalRange("FoodItem", "carbohydrates", in.Carbs, MaxMacroGrams); err != nil {
		return nil, err
	}
	if err := checkOptionalRange("FoodItem", "fats", in.Fats, MaxMacroGrams); err != nil {
		return nil, err
	}

	item := &FoodItem{
		ID:       uuid.New().String(),
		LogID:    in.LogID,
		Name:     name,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
	}
	item.UserID = in.UserID
	item.Touch(time.Now())
	return item, nil
}

func (f *FoodItem) EntityType() EntityType { return EntityFood }

// FoodDocument is the wire form of a FoodItem. The validate tags mirror the
// constructor's range checks so a tampered remote record is rejected before
// the trusted restore path runs.
type FoodDocument struct {
	ID           string    `json:"id" validate:"required"`
	UserID       string    `json:"user_id" validate:"required"`
	LogID        string    `json:"log_id" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Calories     float64   `json:"calories" validate:"gte=0,lte=50000"`
	Protein      *float64  `json:"protein_g,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Carbs        *float64  `json:"carbs_g,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Fats         *float64  `json:"fats_g,omitempty" validate:"omitempty,gte=0,lte=10000"`
	LastModified time.Time `json:"last_modified"`
}

func (d *FoodDocument) Collection() EntityType { return EntityFood }
func (d *FoodDocument) DocID() string          { return d.ID }
func (d *FoodDocument) DocOwner() string       { return d.UserID }
func (d *FoodDocument) DocModified() time.Time { return d.LastModified }

// Document converts the item to its wire form.
func (f *FoodItem) Document() *FoodDocument {
	return &FoodDocument{
		ID:           f.ID,
		UserID:       f.UserID,
		LogID:        f.LogID,
		Name:         f.Name,
		Calories:     f.Calories,
		Protein:      f.Protein,
		Carbs:        f.Carbs,
		Fats:         f.Fats,
		LastModified: f.LastModified,
	}
}

// Item restores a FoodItem from an already-validated document. Trusted path:
// only reachable through DecodeDocument, which has run the equivalent range
// checks. A restored item is considered in sync with the remote copy.
func (d *FoodDocument) Item() *FoodItem {
	return &FoodItem{
		SyncMeta: SyncMeta{
			UserID:       d.UserID,
			LastModified: d.LastModified,
			SyncStatus:   SyncStatusSynced,
		},
		ID:       d.ID,
		LogID:    d.LogID,
		Name:     d.Name,
		Calories: d.Calories,
		Protein:  d.Protein,
		Carbs:    d.Carbs,
		Fats:     d.Fats,
	}
}
