package handler

import (
	"encoding/json"
	"net/http"

	"countme-core/internal/domain"
	"countme-core/internal/middleware"
	"countme-core/internal/service"
	"countme-core/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type MealHandler struct {
	service  *service.MealService
	validate *validator.Validate
}

func NewMealHandler(service *service.MealService) *MealHandler {
	return &MealHandler{
		service:  service,
		validate: validator.New(),
	}
}

// mealView adds the derived totals to the meal's wire form.
type mealView struct {
	*domain.MealDocument
	TotalCalories      float64  `json:"total_calories"`
	TotalProtein       float64  `json:"total_protein_g"`
	TotalCarbs         float64  `json:"total_carbs_g"`
	TotalFats          float64  `json:"total_fats_g"`
	PerServingCalories *float64 `json:"per_serving_calories,omitempty"`
	PerServingProtein  *float64 `json:"per_serving_protein_g,omitempty"`
	PerServingCarbs    *float64 `json:"per_serving_carbs_g,omitempty"`
	PerServingFats     *float64 `json:"per_serving_fats_g,omitempty"`
}

func viewMeal(meal *domain.CustomMeal) *mealView {
	return &mealView{
		MealDocument:       meal.Document(),
		TotalCalories:      meal.TotalCalories(),
		TotalProtein:       meal.TotalProtein(),
		TotalCarbs:         meal.TotalCarbs(),
		TotalFats:          meal.TotalFats(),
		PerServingCalories: meal.PerServingCalories(),
		PerServingProtein:  meal.PerServingProtein(),
		PerServingCarbs:    meal.PerServingCarbs(),
		PerServingFats:     meal.PerServingFats(),
	}
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)
	meal, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create meal")
		return
	}
	response.Created(w, viewMeal(meal))
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	meals, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to list meals")
		return
	}

	views := make([]*mealView, 0, len(meals))
	for _, meal := range meals {
		views = append(views, viewMeal(meal))
	}
	response.Success(w, views)
}

func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	mealID := mux.Vars(r)["id"]
	if mealID == "" {
		response.BadRequest(w, "Meal ID is required")
		return
	}

	userID := middleware.GetUserID(r)
	meal, err := h.service.Get(r.Context(), userID, mealID)
	if err != nil {
		writeServiceError(w, err, "Meal not found")
		return
	}
	response.Success(w, viewMeal(meal))
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mealID := mux.Vars(r)["id"]
	if mealID == "" {
		response.BadRequest(w, "Meal ID is required")
		return
	}

	userID := middleware.GetUserID(r)
	if err := h.service.Delete(r.Context(), userID, mealID); err != nil {
		writeServiceError(w, err, "Failed to delete meal")
		return
	}
	response.Success(w, map[string]string{"message": "Meal deleted"})
}

func (h *MealHandler) AddIngredient(w http.ResponseWriter, r *http.Request) {
	mealID := mux.Vars(r)["id"]
	if mealID == "" {
		response.BadRequest(w, "Meal ID is required")
		return
	}

	var req domain.AddIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)
	meal, err := h.service.AddIngredient(r.Context(), userID, mealID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to add ingredient")
		return
	}
	response.Success(w, viewMeal(meal))
}

func (h *MealHandler) Log(w http.ResponseWriter, r *http.Request) {
	mealID := mux.Vars(r)["id"]
	if mealID == "" {
		response.BadRequest(w, "Meal ID is required")
		return
	}

	var req domain.LogMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	at, err := h.service.ParseDate(req.Date)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}

	userID := middleware.GetUserID(r)
	item, err := h.service.Log(r.Context(), userID, mealID, at)
	if err != nil {
		writeServiceError(w, err, "Failed to log meal")
		return
	}
	response.Created(w, item.Document())
}
