package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyLog groups everything a user logged on one calendar day. Exactly one
// log exists per (user, normalized date) pair; the store enforces this.
type DailyLog struct {
	SyncMeta
	ID        string
	Date      time.Time // normalized to midnight in the store's location
	Goal      *float64
	Foods     []FoodItem
	Exercises []ExerciseItem
}

// NormalizeDate strips the time component: any two timestamps on the same
// calendar day in loc map to the same key.
func NormalizeDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DateKey is the canonical lookup key for a normalized date.
func DateKey(t time.Time, loc *time.Location) string {
	return NormalizeDate(t, loc).Format("2006-01-02")
}

type NewDailyLogInput struct {
	UserID string
	Date   time.Time
	Goal   *float64
}

func NewDailyLog(in NewDailyLogInput, loc *time.Location) (*DailyLog, error) {
	if err := checkOptionalRange("DailyLog", "dailyGoal", in.Goal, MaxDailyGoal); err != nil {
		return nil, err
	}
	log := &DailyLog{
		ID:   uuid.New().String(),
		Date: NormalizeDate(in.Date, loc),
		Goal: in.Goal,
	}
	log.UserID = in.UserID
	log.Touch(time.Now())
	return log, nil
}

func (l *DailyLog) EntityType() EntityType { return EntityDailyLog }

// SetGoal replaces the daily goal; nil clears it.
func (l *DailyLog) SetGoal(goal *float64) error {
	if err := checkOptionalRange("DailyLog", "dailyGoal", goal, MaxDailyGoal); err != nil {
		return err
	}
	l.Goal = goal
	l.Touch(time.Now())
	return nil
}

func (l *DailyLog) TotalCalories() float64 {
	var total float64
	for _, f := range l.Foods {
		total += f.Calories
	}
	return total
}

func (l *DailyLog) TotalExerciseCalories() float64 {
	var total float64
	for _, e := range l.Exercises {
		total += e.CaloriesBurned
	}
	return total
}

func (l *DailyLog) NetCalories() float64 {
	return l.TotalCalories() - l.TotalExerciseCalories()
}

// RemainingCalories is nil when no goal is set.
func (l *DailyLog) RemainingCalories() *float64 {
	if l.Goal == nil {
		return nil
	}
	v := *l.Goal - l.NetCalories()
	return &v
}

// DailyLogDocument carries the log header only; foods and exercises sync
// through their own collections.
type DailyLogDocument struct {
	ID           string    `json:"id" validate:"required"`
	UserID       string    `json:"user_id" validate:"required"`
	Date         string    `json:"date" validate:"required,datetime=2006-01-02"`
	Goal         *float64  `json:"goal,omitempty" validate:"omitempty,gte=0,lte=50000"`
	LastModified time.Time `json:"last_modified"`
}

func (d *DailyLogDocument) Collection() EntityType { return EntityDailyLog }
func (d *DailyLogDocument) DocID() string          { return d.ID }
func (d *DailyLogDocument) DocOwner() string       { return d.UserID }
func (d *DailyLogDocument) DocModified() time.Time { return d.LastModified }

func (l *DailyLog) Document() *DailyLogDocument {
	return &DailyLogDocument{
		ID:           l.ID,
		UserID:       l.UserID,
		Date:         l.Date.Format("2006-01-02"),
		Goal:         l.Goal,
		LastModified: l.LastModified,
	}
}

// Item restores a DailyLog header from an already-validated document. The
// date string has passed the datetime check, so the parse cannot fail.
func (d *DailyLogDocument) Item(loc *time.Location) *DailyLog {
	if loc == nil {
		loc = time.Local
	}
	date, _ := time.ParseInLocation("2006-01-02", d.Date, loc)
	return &DailyLog{
		SyncMeta: SyncMeta{
			UserID:       d.UserID,
			LastModified: d.LastModified,
			SyncStatus:   SyncStatusSynced,
		},
		ID:   d.ID,
		Date: date,
		Goal: d.Goal,
	}
}
