package handler

import (
	"encoding/json"
	"net/http"

	"countme-core/internal/calc"
	"countme-core/internal/domain"
	"countme-core/pkg/response"

	"github.com/go-playground/validator/v10"
)

// EnergyHandler serves stateless energy estimates. Nothing here touches the
// store; the client decides whether to turn an estimate into a goal or entry.
type EnergyHandler struct {
	validate *validator.Validate
}

func NewEnergyHandler() *EnergyHandler {
	return &EnergyHandler{validate: validator.New()}
}

func (h *EnergyHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateEnergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	bmr := calc.BasalMetabolicRate(req.Sex, req.WeightKg, req.HeightCm, req.AgeYears)
	if bmr == 0 {
		response.BadRequest(w, "Measurements must be positive")
		return
	}

	result := map[string]float64{"bmr": bmr}
	if req.ActivityLevel != "" {
		tdee := calc.TotalDailyEnergyExpenditure(bmr, req.ActivityLevel)
		if tdee == 0 {
			response.BadRequest(w, "Unknown activity level")
			return
		}
		result["tdee"] = tdee
	}
	response.Success(w, result)
}

func (h *EnergyHandler) EstimateExercise(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	calories := calc.ExerciseCalories(req.MET, req.WeightKg, req.DurationMinutes)
	if calories == 0 {
		response.BadRequest(w, "MET, weight and duration must be positive")
		return
	}
	response.Success(w, map[string]float64{"calories_burned": calories})
}
