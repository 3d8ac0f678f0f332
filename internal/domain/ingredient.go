package domain

import "github.com/google/uuid"

// Ingredient is a component of a CustomMeal. Ingredients are cascade-owned:
// deleting the meal deletes them. They carry no sync metadata of their own and
// travel inside their meal's document.
type Ingredient struct {
	ID       string
	MealID   string
	Name     string
	Quantity float64
	Unit     string
	Calories float64
	Protein  *float64
	Carbs    *float64
	Fats     *float64
}

type NewIngredientInput struct {
	Name     string
	Quantity float64
	Unit     string
	Calories float64
	Protein  *float64
	Carbs    *float64
	Fats     *float64
}

func NewIngredient(in NewIngredientInput) (*Ingredient, error) {
	name, err := checkName("Ingredient", in.Name)
	if err != nil {
		return nil, err
	}
	if err := checkPositive("Ingredient", "quantity", in.Quantity); err != nil {
		return nil, err
	}
	unit, err := checkName("Ingredient", in.Unit)
	if err != nil {
		return nil, &ValidationError{Model: "Ingredient", Field: "unit", Reason: ReasonEmptyName}
	}
	if err := checkRange("Ingredient", "calories", in.Calories, MaxCalories); err != nil {
		return nil, err
	}
	if err := checkOptionalRange("Ingredient", "protein", in.Protein, MaxMacroGrams); err != nil {
		return nil, err
	}
	if err := checkOptionalRange("Ingredient", "carbohydrates", in.Carbs, MaxMacroGrams); err != nil {
		return nil, err
	}
	if err := checkOptionalRange("Ingredient", "fats", in.Fats, MaxMacroGrams); err != nil {
		return nil, err
	}

	return &Ingredient{
		ID:       uuid.New().String(),
		Name:     name,
		Quantity: in.Quantity,
		Unit:     unit,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
	}, nil
}

// Clone returns a deep copy: the optional fields get fresh pointers so the
// copy never aliases the original.
func (i Ingredient) Clone() Ingredient {
	out := i
	out.Protein = cloneFloat(i.Protein)
	out.Carbs = cloneFloat(i.Carbs)
	out.Fats = cloneFloat(i.Fats)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

type IngredientDocument struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Quantity float64  `json:"quantity" validate:"gt=0"`
	Unit     string   `json:"unit" validate:"required"`
	Calories float64  `json:"calories" validate:"gte=0,lte=50000"`
	Protein  *float64 `json:"protein_g,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Carbs    *float64 `json:"carbs_g,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Fats     *float64 `json:"fats_g,omitempty" validate:"omitempty,gte=0,lte=10000"`
}

func (i *Ingredient) Document() IngredientDocument {
	return IngredientDocument{
		ID:       i.ID,
		Name:     i.Name,
		Quantity: i.Quantity,
		Unit:     i.Unit,
		Calories: i.Calories,
		Protein:  i.Protein,
		Carbs:    i.Carbs,
		Fats:     i.Fats,
	}
}

func (d IngredientDocument) item(mealID string) Ingredient {
	return Ingredient{
		ID:       d.ID,
		MealID:   mealID,
		Name:     d.Name,
		Quantity: d.Quantity,
		Unit:     d.Unit,
		Calories: d.Calories,
		Protein:  d.Protein,
		Carbs:    d.Carbs,
		Fats:     d.Fats,
	}
}
