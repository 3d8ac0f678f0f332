package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"countme-core/internal/domain"
)

// PutFood inserts or replaces a food item by id.
func (s *Store) PutFood(ctx context.Context, item *domain.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO food_items(id, log_id, user_id, name, calories, protein_g, carbs_g, fats_g, last_modified, sync_status)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  log_id = excluded.log_id,
  name = excluded.name,
  calories = excluded.calories,
  protein_g = excluded.protein_g,
  carbs_g = excluded.carbs_g,
  fats_g = excluded.fats_g,
  last_modified = excluded.last_modified,
  sync_status = excluded.sync_status
`, item.ID, item.LogID, item.UserID, item.Name, item.Calories,
		nullFloat(item.Protein), nullFloat(item.Carbs), nullFloat(item.Fats),
		formatTime(item.LastModified), string(item.SyncStatus))
	if err != nil {
		return fmt.Errorf("put food item %s: %w", item.ID, err)
	}

	s.notify(Change{Entity: domain.EntityFood, ID: item.ID, UserID: item.UserID, Op: ChangePut})
	return nil
}

// FoodByID returns ErrNotFound when no such item exists.
func (s *Store) FoodByID(ctx context.Context, id string) (*domain.FoodItem, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, log_id, user_id, name, calories, protein_g, carbs_g, fats_g, last_modified, sync_status
FROM food_items WHERE id = ?`, id)
	item, err := scanFood(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("food item %s: %w", id, ErrNotFound)
	}
	return item, err
}

func (s *Store) DeleteFood(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var userID string
	if err := s.db.QueryRowContext(ctx, `SELECT user_id FROM food_items WHERE id = ?`, id).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("food item %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete food item %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM food_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete food item %s: %w", id, err)
	}

	s.notify(Change{Entity: domain.EntityFood, ID: id, UserID: userID, Op: ChangeDelete})
	return nil
}

func (s *Store) foodsByLog(ctx context.Context, logID string) ([]domain.FoodItem, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, log_id, user_id, name, calories, protein_g, carbs_g, fats_g, last_modified, sync_status
FROM food_items WHERE log_id = ? ORDER BY last_modified`, logID)
	if err != nil {
		return nil, fmt.Errorf("list food items for log %s: %w", logID, err)
	}
	defer rows.Close()

	items := make([]domain.FoodItem, 0)
	for rows.Next() {
		item, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*domain.FoodItem, error) {
	var (
		item                 domain.FoodItem
		protein, carbs, fats sql.NullFloat64
		lastModified, status string
	)
	if err := row.Scan(&item.ID, &item.LogID, &item.UserID, &item.Name, &item.Calories,
		&protein, &carbs, &fats, &lastModified, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan food item: %w", err)
	}
	item.Protein = floatPtr(protein)
	item.Carbs = floatPtr(carbs)
	item.Fats = floatPtr(fats)
	t, err := parseTime(lastModified)
	if err != nil {
		return nil, err
	}
	item.LastModified = t
	item.SyncStatus = domain.SyncStatus(status)
	return &item, nil
}
