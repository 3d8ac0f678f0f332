package domain

// NutritionSearchResult is one hit from the external nutrition search API.
// Results are suggestions, not validated entities; they only become a
// FoodItem by going through the validating constructor.
type NutritionSearchResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Calories    float64  `json:"calories"`
	ServingSize *float64 `json:"serving_size,omitempty"`
	ServingUnit string   `json:"serving_unit,omitempty"`
	BrandName   string   `json:"brand_name,omitempty"`
	Protein     *float64 `json:"protein_g,omitempty"`
	Carbs       *float64 `json:"carbs_g,omitempty"`
	Fats        *float64 `json:"fats_g,omitempty"`
}
