package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"countme-core/internal/domain"
)

// PutMeal writes the meal and its full ingredient list in one transaction.
// Ingredients are replaced wholesale; they have no life outside their meal.
func (s *Store) PutMeal(ctx context.Context, meal *domain.CustomMeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put meal %s: %w", meal.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO custom_meals(id, user_id, name, servings_count, last_modified, sync_status)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name = excluded.name,
  servings_count = excluded.servings_count,
  last_modified = excluded.last_modified,
  sync_status = excluded.sync_status
`, meal.ID, meal.UserID, meal.Name, meal.ServingsCount,
		formatTime(meal.LastModified), string(meal.SyncStatus)); err != nil {
		return fmt.Errorf("put meal %s: %w", meal.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE meal_id = ?`, meal.ID); err != nil {
		return fmt.Errorf("clear ingredients for meal %s: %w", meal.ID, err)
	}
	for i, ing := range meal.Ingredients {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO ingredients(id, meal_id, position, name, quantity, unit, calories, protein_g, carbs_g, fats_g)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, ing.ID, meal.ID, i, ing.Name, ing.Quantity, ing.Unit, ing.Calories,
			nullFloat(ing.Protein), nullFloat(ing.Carbs), nullFloat(ing.Fats)); err != nil {
			return fmt.Errorf("put ingredient %s for meal %s: %w", ing.ID, meal.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put meal %s: %w", meal.ID, err)
	}

	s.notify(Change{Entity: domain.EntityMeal, ID: meal.ID, UserID: meal.UserID, Op: ChangePut})
	return nil
}

func (s *Store) MealByID(ctx context.Context, id string) (*domain.CustomMeal, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, name, servings_count, last_modified, sync_status
FROM custom_meals WHERE id = ?`, id)

	meal, err := scanMeal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("meal %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if meal.Ingredients, err = s.ingredientsByMeal(ctx, meal.ID); err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *Store) Meals(ctx context.Context, userID string) ([]*domain.CustomMeal, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, name, servings_count, last_modified, sync_status
FROM custom_meals WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	meals := make([]*domain.CustomMeal, 0)
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	for _, meal := range meals {
		if meal.Ingredients, err = s.ingredientsByMeal(ctx, meal.ID); err != nil {
			return nil, err
		}
	}
	return meals, nil
}

// DeleteMeal removes the meal; the ingredients FK cascades.
func (s *Store) DeleteMeal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var userID string
	if err := s.db.QueryRowContext(ctx, `SELECT user_id FROM custom_meals WHERE id = ?`, id).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("meal %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete meal %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM custom_meals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete meal %s: %w", id, err)
	}

	s.notify(Change{Entity: domain.EntityMeal, ID: id, UserID: userID, Op: ChangeDelete})
	return nil
}

func (s *Store) ingredientsByMeal(ctx context.Context, mealID string) ([]domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, meal_id, name, quantity, unit, calories, protein_g, carbs_g, fats_g
FROM ingredients WHERE meal_id = ? ORDER BY position`, mealID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients for meal %s: %w", mealID, err)
	}
	defer rows.Close()

	ingredients := make([]domain.Ingredient, 0)
	for rows.Next() {
		var (
			ing                  domain.Ingredient
			protein, carbs, fats sql.NullFloat64
		)
		if err := rows.Scan(&ing.ID, &ing.MealID, &ing.Name, &ing.Quantity, &ing.Unit,
			&ing.Calories, &protein, &carbs, &fats); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ing.Protein = floatPtr(protein)
		ing.Carbs = floatPtr(carbs)
		ing.Fats = floatPtr(fats)
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func scanMeal(row rowScanner) (*domain.CustomMeal, error) {
	var (
		meal                 domain.CustomMeal
		lastModified, status string
	)
	if err := row.Scan(&meal.ID, &meal.UserID, &meal.Name, &meal.ServingsCount, &lastModified, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan meal: %w", err)
	}
	t, err := parseTime(lastModified)
	if err != nil {
		return nil, err
	}
	meal.LastModified = t
	meal.SyncStatus = domain.SyncStatus(status)
	return &meal, nil
}
