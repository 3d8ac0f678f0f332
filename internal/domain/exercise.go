package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseItem is one logged exercise session on a daily log.
type ExerciseItem struct {
	SyncMeta
	ID              string
	LogID           string
	Name            string
	CaloriesBurned  float64
	DurationMinutes *float64
}

type NewExerciseItemInput struct {
	UserID          string
	LogID           string
	Name            string
	CaloriesBurned  float64
	DurationMinutes *float64
}

func NewExerciseItem(in NewExerciseItemInput) (*ExerciseItem, error) {
	name, err := checkName("ExerciseItem", in.Name)
	if err != nil {
		return nil, err
	}
	if err := checkRange("ExerciseItem", "caloriesBurned", in.CaloriesBurned, MaxCalories); err != nil {
		return nil, err
	}
	if err := checkOptionalRange("ExerciseItem", "durationMinutes", in.DurationMinutes, MaxDurationMinutes); err != nil {
		return nil, err
	}

	item := &ExerciseItem{
		ID:              uuid.New().String(),
		LogID:           in.LogID,
		Name:            name,
		CaloriesBurned:  in.CaloriesBurned,
		DurationMinutes: in.DurationMinutes,
	}
	item.UserID = in.UserID
	item.Touch(time.Now())
	return item, nil
}

func (e *ExerciseItem) EntityType() EntityType { return EntityExercise }

type ExerciseDocument struct {
	ID              string    `json:"id" validate:"required"`
	UserID          string    `json:"user_id" validate:"required"`
	LogID           string    `json:"log_id" validate:"required"`
	Name            string    `json:"name" validate:"required"`
	CaloriesBurned  float64   `json:"calories_burned" validate:"gte=0,lte=50000"`
	DurationMinutes *float64  `json:"duration_min,omitempty" validate:"omitempty,gte=0,lte=1440"`
	LastModified    time.Time `json:"last_modified"`
}

func (d *ExerciseDocument) Collection() EntityType { return EntityExercise }
func (d *ExerciseDocument) DocID() string          { return d.ID }
func (d *ExerciseDocument) DocOwner() string       { return d.UserID }
func (d *ExerciseDocument) DocModified() time.Time { return d.LastModified }

func (e *ExerciseItem) Document() *ExerciseDocument {
	return &ExerciseDocument{
		ID:              e.ID,
		UserID:          e.UserID,
		LogID:           e.LogID,
		Name:            e.Name,
		CaloriesBurned:  e.CaloriesBurned,
		DurationMinutes: e.DurationMinutes,
		LastModified:    e.LastModified,
	}
}

// Item restores an ExerciseItem from an already-validated document.
func (d *ExerciseDocument) Item() *ExerciseItem {
	return &ExerciseItem{
		SyncMeta: SyncMeta{
			UserID:       d.UserID,
			LastModified: d.LastModified,
			SyncStatus:   SyncStatusSynced,
		},
		ID:              d.ID,
		LogID:           d.LogID,
		Name:            d.Name,
		CaloriesBurned:  d.CaloriesBurned,
		DurationMinutes: d.DurationMinutes,
	}
}
