package service

import (
	"context"
	"errors"
	"time"

	"countme-core/internal/domain"
	"countme-core/internal/store"
	"countme-core/internal/sync"
)

// ChangeRecorder records a local mutation for later upload. Satisfied by the
// sync engine; tests substitute their own.
type ChangeRecorder interface {
	Enqueue(entity domain.EntityType, entityID string, kind sync.OpKind)
}

// TrackingService owns the daily log lifecycle: fetch-or-create per calendar
// day, food and exercise entries, and the calorie goal.
type TrackingService struct {
	store *store.Store
	queue ChangeRecorder
}

func NewTrackingService(st *store.Store, queue ChangeRecorder) *TrackingService {
	return &TrackingService{
		store: st,
		queue: queue,
	}
}

// ParseDate interprets a 2006-01-02 date string in the store's timezone. An
// empty string means now.
func (s *TrackingService) ParseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", raw, s.store.Location())
}

// LogForDate returns the user's log for the calendar day containing at,
// creating an empty one on first access. Two timestamps on the same day always
// resolve to the same log.
func (s *TrackingService) LogForDate(ctx context.Context, userID string, at time.Time) (*domain.DailyLog, error) {
	log, err := s.store.DailyLogByDate(ctx, userID, at)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	log, err = domain.NewDailyLog(domain.NewDailyLogInput{UserID: userID, Date: at}, s.store.Location())
	if err != nil {
		return nil, err
	}
	if err := s.store.PutDailyLog(ctx, log); err != nil {
		return nil, err
	}
	s.record(domain.EntityDailyLog, log.ID, sync.OpUpsert)
	return log, nil
}

// LogFood validates and appends a food entry to the day's log.
func (s *TrackingService) LogFood(ctx context.Context, userID string, at time.Time, req *domain.LogFoodRequest) (*domain.FoodItem, error) {
	log, err := s.LogForDate(ctx, userID, at)
	if err != nil {
		return nil, err
	}

	item, err := domain.NewFoodItem(domain.NewFoodItemInput{
		UserID:   userID,
		LogID:    log.ID,
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.PutFood(ctx, item); err != nil {
		return nil, err
	}
	s.record(domain.EntityFood, item.ID, sync.OpUpsert)
	return item, nil
}

// LogExercise validates and appends an exercise entry to the day's log.
func (s *TrackingService) LogExercise(ctx context.Context, userID string, at time.Time, req *domain.LogExerciseRequest) (*domain.ExerciseItem, error) {
	log, err := s.LogForDate(ctx, userID, at)
	if err != nil {
		return nil, err
	}

	item, err := domain.NewExerciseItem(domain.NewExerciseItemInput{
		UserID:          userID,
		LogID:           log.ID,
		Name:            req.Name,
		CaloriesBurned:  req.CaloriesBurned,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.PutExercise(ctx, item); err != nil {
		return nil, err
	}
	s.record(domain.EntityExercise, item.ID, sync.OpUpsert)
	return item, nil
}

// SetGoal replaces the day's calorie goal; nil clears it.
func (s *TrackingService) SetGoal(ctx context.Context, userID string, at time.Time, goal *float64) (*domain.DailyLog, error) {
	log, err := s.LogForDate(ctx, userID, at)
	if err != nil {
		return nil, err
	}
	if err := log.SetGoal(goal); err != nil {
		return nil, err
	}
	if err := s.store.PutDailyLog(ctx, log); err != nil {
		return nil, err
	}
	s.record(domain.EntityDailyLog, log.ID, sync.OpUpsert)
	return log, nil
}

// UpdateFood re-validates the replacement fields and writes them under the
// existing entry's identity.
func (s *TrackingService) UpdateFood(ctx context.Context, userID, foodID string, req *domain.LogFoodRequest) (*domain.FoodItem, error) {
	existing, err := s.store.FoodByID(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotOwner
	}

	item, err := domain.NewFoodItem(domain.NewFoodItemInput{
		UserID:   userID,
		LogID:    existing.LogID,
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
	})
	if err != nil {
		return nil, err
	}
	item.ID = existing.ID

	if err := s.store.PutFood(ctx, item); err != nil {
		return nil, err
	}
	s.record(domain.EntityFood, item.ID, sync.OpUpsert)
	return item, nil
}

func (s *TrackingService) DeleteFood(ctx context.Context, userID, foodID string) error {
	item, err := s.store.FoodByID(ctx, foodID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	if err := s.store.DeleteFood(ctx, foodID); err != nil {
		return err
	}
	s.record(domain.EntityFood, foodID, sync.OpDelete)
	return nil
}

func (s *TrackingService) DeleteExercise(ctx context.Context, userID, exerciseID string) error {
	item, err := s.store.ExerciseByID(ctx, exerciseID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	if err := s.store.DeleteExercise(ctx, exerciseID); err != nil {
		return err
	}
	s.record(domain.EntityExercise, exerciseID, sync.OpDelete)
	return nil
}

func (s *TrackingService) record(entity domain.EntityType, id string, kind sync.OpKind) {
	if s.queue != nil {
		s.queue.Enqueue(entity, id, kind)
	}
}
