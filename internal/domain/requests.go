package domain

// API request shapes. Tags cover presence and format only; range rules live
// in the validating constructors, which every request must pass through.

type LogFoodRequest struct {
	Name     string   `json:"name" validate:"required"`
	Calories float64  `json:"calories"`
	Protein  *float64 `json:"protein_g,omitempty"`
	Carbs    *float64 `json:"carbs_g,omitempty"`
	Fats     *float64 `json:"fats_g,omitempty"`
}

type LogExerciseRequest struct {
	Name            string   `json:"name" validate:"required"`
	CaloriesBurned  float64  `json:"calories_burned"`
	DurationMinutes *float64 `json:"duration_min,omitempty"`
}

type SetGoalRequest struct {
	Goal *float64 `json:"goal"`
}

type CreateMealRequest struct {
	Name          string                  `json:"name" validate:"required"`
	ServingsCount float64                 `json:"servings_count"`
	Ingredients   []CreateIngredientInput `json:"ingredients" validate:"min=1,dive"`
}

type CreateIngredientInput struct {
	Name     string   `json:"name" validate:"required"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit" validate:"required"`
	Calories float64  `json:"calories"`
	Protein  *float64 `json:"protein_g,omitempty"`
	Carbs    *float64 `json:"carbs_g,omitempty"`
	Fats     *float64 `json:"fats_g,omitempty"`
}

type AddIngredientRequest struct {
	CreateIngredientInput
	// ServingMultiplier scales the ingredient before it is added; zero means
	// no scaling.
	ServingMultiplier float64 `json:"serving_multiplier,omitempty"`
}

type LogMealRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type EstimateEnergyRequest struct {
	Sex           string  `json:"sex" validate:"required,oneof=male female"`
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	AgeYears      int     `json:"age_years"`
	ActivityLevel string  `json:"activity_level,omitempty"`
}

type EstimateExerciseRequest struct {
	MET             float64 `json:"met"`
	WeightKg        float64 `json:"weight_kg"`
	DurationMinutes float64 `json:"duration_min"`
}
