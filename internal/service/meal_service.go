package service

import (
	"context"
	"time"

	"countme-core/internal/calc"
	"countme-core/internal/domain"
	"countme-core/internal/store"
	"countme-core/internal/sync"
)

// MealService manages reusable custom meals and logging them onto daily logs.
type MealService struct {
	store    *store.Store
	queue    ChangeRecorder
	tracking *TrackingService
}

func NewMealService(st *store.Store, queue ChangeRecorder, tracking *TrackingService) *MealService {
	return &MealService{
		store:    st,
		queue:    queue,
		tracking: tracking,
	}
}

// ParseDate interprets a 2006-01-02 date string in the store's timezone.
func (s *MealService) ParseDate(raw string) (time.Time, error) {
	return s.tracking.ParseDate(raw)
}

func (s *MealService) Create(ctx context.Context, userID string, req *domain.CreateMealRequest) (*domain.CustomMeal, error) {
	in := domain.NewCustomMealInput{
		UserID:        userID,
		Name:          req.Name,
		ServingsCount: req.ServingsCount,
	}
	for _, ing := range req.Ingredients {
		in.Ingredients = append(in.Ingredients, domain.NewIngredientInput{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Calories: ing.Calories,
			Protein:  ing.Protein,
			Carbs:    ing.Carbs,
			Fats:     ing.Fats,
		})
	}

	meal, err := domain.NewCustomMeal(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.PutMeal(ctx, meal); err != nil {
		return nil, err
	}
	s.record(domain.EntityMeal, meal.ID, sync.OpUpsert)
	return meal, nil
}

func (s *MealService) List(ctx context.Context, userID string) ([]*domain.CustomMeal, error) {
	return s.store.Meals(ctx, userID)
}

func (s *MealService) Get(ctx context.Context, userID, mealID string) (*domain.CustomMeal, error) {
	meal, err := s.store.MealByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if meal.UserID != userID {
		return nil, ErrNotOwner
	}
	return meal, nil
}

func (s *MealService) Delete(ctx context.Context, userID, mealID string) error {
	if _, err := s.Get(ctx, userID, mealID); err != nil {
		return err
	}
	if err := s.store.DeleteMeal(ctx, mealID); err != nil {
		return err
	}
	s.record(domain.EntityMeal, mealID, sync.OpDelete)
	return nil
}

// AddIngredient validates a new ingredient, optionally scales it by a serving
// multiplier, and appends it to the meal. Already-logged snapshots of the meal
// are unaffected.
func (s *MealService) AddIngredient(ctx context.Context, userID, mealID string, req *domain.AddIngredientRequest) (*domain.CustomMeal, error) {
	meal, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	ing, err := domain.NewIngredient(domain.NewIngredientInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
	})
	if err != nil {
		return nil, err
	}
	if req.ServingMultiplier != 0 {
		scaled, err := calc.ApplyServingMultiplier(req.ServingMultiplier, *ing)
		if err != nil {
			return nil, err
		}
		ing = &scaled
	}

	meal.AddIngredient(*ing)
	if err := s.store.PutMeal(ctx, meal); err != nil {
		return nil, err
	}
	s.record(domain.EntityMeal, meal.ID, sync.OpUpsert)
	return meal, nil
}

// Log materializes one portion of the meal as an independent food entry on
// the day's log. Later edits to the meal never change the logged entry.
func (s *MealService) Log(ctx context.Context, userID, mealID string, at time.Time) (*domain.FoodItem, error) {
	meal, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	log, err := s.tracking.LogForDate(ctx, userID, at)
	if err != nil {
		return nil, err
	}
	item, err := meal.Snapshot(log.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.PutFood(ctx, item); err != nil {
		return nil, err
	}
	s.record(domain.EntityFood, item.ID, sync.OpUpsert)
	return item, nil
}

func (s *MealService) record(entity domain.EntityType, id string, kind sync.OpKind) {
	if s.queue != nil {
		s.queue.Enqueue(entity, id, kind)
	}
}
