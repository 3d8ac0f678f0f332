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

type TrackingHandler struct {
	service  *service.TrackingService
	validate *validator.Validate
}

func NewTrackingHandler(service *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// dailyLogView is the wire shape of a daily log with its derived totals.
type dailyLogView struct {
	ID                    string                     `json:"id"`
	Date                  string                     `json:"date"`
	Goal                  *float64                   `json:"goal,omitempty"`
	Foods                 []*domain.FoodDocument     `json:"foods"`
	Exercises             []*domain.ExerciseDocument `json:"exercises"`
	TotalCalories         float64                    `json:"total_calories"`
	TotalExerciseCalories float64                    `json:"total_exercise_calories"`
	NetCalories           float64                    `json:"net_calories"`
	RemainingCalories     *float64                   `json:"remaining_calories,omitempty"`
}

func viewDailyLog(log *domain.DailyLog) *dailyLogView {
	view := &dailyLogView{
		ID:                    log.ID,
		Date:                  log.Date.Format("2006-01-02"),
		Goal:                  log.Goal,
		Foods:                 make([]*domain.FoodDocument, 0, len(log.Foods)),
		Exercises:             make([]*domain.ExerciseDocument, 0, len(log.Exercises)),
		TotalCalories:         log.TotalCalories(),
		TotalExerciseCalories: log.TotalExerciseCalories(),
		NetCalories:           log.NetCalories(),
		RemainingCalories:     log.RemainingCalories(),
	}
	for i := range log.Foods {
		view.Foods = append(view.Foods, log.Foods[i].Document())
	}
	for i := range log.Exercises {
		view.Exercises = append(view.Exercises, log.Exercises[i].Document())
	}
	return view
}

func (h *TrackingHandler) GetDailyLog(w http.ResponseWriter, r *http.Request) {
	at, err := h.service.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}
	userID := middleware.GetUserID(r)

	log, err := h.service.LogForDate(r.Context(), userID, at)
	if err != nil {
		writeServiceError(w, err, "Failed to load daily log")
		return
	}
	response.Success(w, viewDailyLog(log))
}

func (h *TrackingHandler) LogFood(w http.ResponseWriter, r *http.Request) {
	at, err := h.service.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var req domain.LogFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)
	item, err := h.service.LogFood(r.Context(), userID, at, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to log food")
		return
	}
	response.Created(w, item.Document())
}

func (h *TrackingHandler) LogExercise(w http.ResponseWriter, r *http.Request) {
	at, err := h.service.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var req domain.LogExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)
	item, err := h.service.LogExercise(r.Context(), userID, at, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to log exercise")
		return
	}
	response.Created(w, item.Document())
}

func (h *TrackingHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	at, err := h.service.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var req domain.SetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	userID := middleware.GetUserID(r)
	log, err := h.service.SetGoal(r.Context(), userID, at, req.Goal)
	if err != nil {
		writeServiceError(w, err, "Failed to set goal")
		return
	}
	response.Success(w, viewDailyLog(log))
}

func (h *TrackingHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	foodID := mux.Vars(r)["id"]
	if foodID == "" {
		response.BadRequest(w, "Food ID is required")
		return
	}

	var req domain.LogFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)
	item, err := h.service.UpdateFood(r.Context(), userID, foodID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to update food")
		return
	}
	response.Success(w, item.Document())
}

func (h *TrackingHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	foodID := mux.Vars(r)["id"]
	if foodID == "" {
		response.BadRequest(w, "Food ID is required")
		return
	}

	userID := middleware.GetUserID(r)
	if err := h.service.DeleteFood(r.Context(), userID, foodID); err != nil {
		writeServiceError(w, err, "Failed to delete food")
		return
	}
	response.Success(w, map[string]string{"message": "Food entry deleted"})
}

func (h *TrackingHandler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID := mux.Vars(r)["id"]
	if exerciseID == "" {
		response.BadRequest(w, "Exercise ID is required")
		return
	}

	userID := middleware.GetUserID(r)
	if err := h.service.DeleteExercise(r.Context(), userID, exerciseID); err != nil {
		writeServiceError(w, err, "Failed to delete exercise")
		return
	}
	response.Success(w, map[string]string{"message": "Exercise entry deleted"})
}
