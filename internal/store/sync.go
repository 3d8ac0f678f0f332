package store

import (
	"context"
	"fmt"
	"time"

	"countme-core/internal/domain"
)

// Export returns the wire document for one local entity, or ErrNotFound.
func (s *Store) Export(ctx context.Context, entity domain.EntityType, id string) (domain.Document, error) {
	switch entity {
	case domain.EntityFood:
		item, err := s.FoodByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return item.Document(), nil
	case domain.EntityExercise:
		item, err := s.ExerciseByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return item.Document(), nil
	case domain.EntityMeal:
		meal, err := s.MealByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return meal.Document(), nil
	case domain.EntityDailyLog:
		log, err := s.DailyLogByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return log.Document(), nil
	}
	return nil, fmt.Errorf("export: unknown entity type %q", entity)
}

// ApplyRemote upserts an already-validated remote document into the local
// store through the trusted restore path. The restored entity lands marked
// synced.
func (s *Store) ApplyRemote(ctx context.Context, doc domain.Document) error {
	switch d := doc.(type) {
	case *domain.FoodDocument:
		return s.PutFood(ctx, d.Item())
	case *domain.ExerciseDocument:
		return s.PutExercise(ctx, d.Item())
	case *domain.MealDocument:
		return s.PutMeal(ctx, d.Item())
	case *domain.DailyLogDocument:
		return s.PutDailyLog(ctx, d.Item(s.loc))
	}
	return fmt.Errorf("apply remote: unknown document type %T", doc)
}

// PendingEntry identifies a local entity whose latest revision has not been
// uploaded.
type PendingEntry struct {
	Entity domain.EntityType
	ID     string
}

// Pending lists every entity still awaiting upload, parents first. Used to
// rebuild the upload queue after a restart.
func (s *Store) Pending(ctx context.Context) ([]PendingEntry, error) {
	tables := []struct {
		table  string
		entity domain.EntityType
	}{
		{"daily_logs", domain.EntityDailyLog},
		{"custom_meals", domain.EntityMeal},
		{"food_items", domain.EntityFood},
		{"exercise_items", domain.EntityExercise},
	}

	var out []PendingEntry
	for _, t := range tables {
		rows, err := s.db.QueryContext(ctx,
			fmt.Sprintf(`SELECT id FROM %s WHERE sync_status != ?`, t.table),
			string(domain.SyncStatusSynced))
		if err != nil {
			return nil, fmt.Errorf("list pending %s: %w", t.entity, err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan pending %s: %w", t.entity, err)
			}
			out = append(out, PendingEntry{Entity: t.entity, ID: id})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate pending %s: %w", t.entity, err)
		}
		rows.Close()
	}
	return out, nil
}

// MarkSynced flips one entity's sync status after a successful upload, without
// advancing last_modified. The update only lands while the row's last_modified
// still equals modified: a row mutated since that revision was exported, or
// deleted outright, is left alone so the newer state stays pending.
func (s *Store) MarkSynced(ctx context.Context, entity domain.EntityType, id string, modified time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var table string
	switch entity {
	case domain.EntityFood:
		table = "food_items"
	case domain.EntityExercise:
		table = "exercise_items"
	case domain.EntityMeal:
		table = "custom_meals"
	case domain.EntityDailyLog:
		table = "daily_logs"
	default:
		return fmt.Errorf("mark synced: unknown entity type %q", entity)
	}

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET sync_status = ? WHERE id = ? AND last_modified = ?`, table),
		string(domain.SyncStatusSynced), id, formatTime(modified))
	if err != nil {
		return fmt.Errorf("mark %s %s synced: %w", entity, id, err)
	}
	return nil
}
