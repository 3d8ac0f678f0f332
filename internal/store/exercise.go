package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"countme-core/internal/domain"
)

// PutExercise inserts or replaces an exercise item by id.
func (s *Store) PutExercise(ctx context.Context, item *domain.ExerciseItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO exercise_items(id, log_id, user_id, name, calories_burned, duration_min, last_modified, sync_status)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  log_id = excluded.log_id,
  name = excluded.name,
  calories_burned = excluded.calories_burned,
  duration_min = excluded.duration_min,
  last_modified = excluded.last_modified,
  sync_status = excluded.sync_status
`, item.ID, item.LogID, item.UserID, item.Name, item.CaloriesBurned,
		nullFloat(item.DurationMinutes), formatTime(item.LastModified), string(item.SyncStatus))
	if err != nil {
		return fmt.Errorf("put exercise item %s: %w", item.ID, err)
	}

	s.notify(Change{Entity: domain.EntityExercise, ID: item.ID, UserID: item.UserID, Op: ChangePut})
	return nil
}

func (s *Store) ExerciseByID(ctx context.Context, id string) (*domain.ExerciseItem, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, log_id, user_id, name, calories_burned, duration_min, last_modified, sync_status
FROM exercise_items WHERE id = ?`, id)
	item, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exercise item %s: %w", id, ErrNotFound)
	}
	return item, err
}

func (s *Store) DeleteExercise(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var userID string
	if err := s.db.QueryRowContext(ctx, `SELECT user_id FROM exercise_items WHERE id = ?`, id).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("exercise item %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete exercise item %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM exercise_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete exercise item %s: %w", id, err)
	}

	s.notify(Change{Entity: domain.EntityExercise, ID: id, UserID: userID, Op: ChangeDelete})
	return nil
}

func (s *Store) exercisesByLog(ctx context.Context, logID string) ([]domain.ExerciseItem, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, log_id, user_id, name, calories_burned, duration_min, last_modified, sync_status
FROM exercise_items WHERE log_id = ? ORDER BY last_modified`, logID)
	if err != nil {
		return nil, fmt.Errorf("list exercise items for log %s: %w", logID, err)
	}
	defer rows.Close()

	items := make([]domain.ExerciseItem, 0)
	for rows.Next() {
		item, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanExercise(row rowScanner) (*domain.ExerciseItem, error) {
	var (
		item                 domain.ExerciseItem
		duration             sql.NullFloat64
		lastModified, status string
	)
	if err := row.Scan(&item.ID, &item.LogID, &item.UserID, &item.Name, &item.CaloriesBurned,
		&duration, &lastModified, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exercise item: %w", err)
	}
	item.DurationMinutes = floatPtr(duration)
	t, err := parseTime(lastModified)
	if err != nil {
		return nil, err
	}
	item.LastModified = t
	item.SyncStatus = domain.SyncStatus(status)
	return &item, nil
}
