package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"countme-core/internal/domain"
)

// PutDailyLog writes the log header. Child items are written through their
// own Put methods.
func (s *Store) PutDailyLog(ctx context.Context, log *domain.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO daily_logs(id, user_id, log_date, goal, last_modified, sync_status)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  goal = excluded.goal,
  last_modified = excluded.last_modified,
  sync_status = excluded.sync_status
`, log.ID, log.UserID, log.Date.Format("2006-01-02"), nullFloat(log.Goal),
		formatTime(log.LastModified), string(log.SyncStatus))
	if err != nil {
		return fmt.Errorf("put daily log %s: %w", log.ID, err)
	}

	s.notify(Change{Entity: domain.EntityDailyLog, ID: log.ID, UserID: log.UserID, Op: ChangePut})
	return nil
}

// DailyLogByDate normalizes at to a calendar day in the store's location and
// returns that day's log with its foods and exercises loaded. Two timestamps
// on the same calendar day always resolve to the same record. Returns
// ErrNotFound when the day has no log; callers fetch-or-create.
func (s *Store) DailyLogByDate(ctx context.Context, userID string, at time.Time) (*domain.DailyLog, error) {
	key := domain.DateKey(at, s.loc)
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, log_date, goal, last_modified, sync_status
FROM daily_logs WHERE user_id = ? AND log_date = ?`, userID, key)
	return s.loadLog(ctx, row, key)
}

func (s *Store) DailyLogByID(ctx context.Context, id string) (*domain.DailyLog, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, log_date, goal, last_modified, sync_status
FROM daily_logs WHERE id = ?`, id)
	return s.loadLog(ctx, row, id)
}

func (s *Store) loadLog(ctx context.Context, row *sql.Row, key string) (*domain.DailyLog, error) {
	var (
		log                  domain.DailyLog
		rawDate              string
		goal                 sql.NullFloat64
		lastModified, status string
	)
	err := row.Scan(&log.ID, &log.UserID, &rawDate, &goal, &lastModified, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("daily log %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan daily log %s: %w", key, err)
	}

	date, err := time.ParseInLocation("2006-01-02", rawDate, s.loc)
	if err != nil {
		return nil, fmt.Errorf("parse stored log date %q: %w", rawDate, err)
	}
	log.Date = date
	log.Goal = floatPtr(goal)
	t, err := parseTime(lastModified)
	if err != nil {
		return nil, err
	}
	log.LastModified = t
	log.SyncStatus = domain.SyncStatus(status)

	if log.Foods, err = s.foodsByLog(ctx, log.ID); err != nil {
		return nil, err
	}
	if log.Exercises, err = s.exercisesByLog(ctx, log.ID); err != nil {
		return nil, err
	}
	return &log, nil
}

// DeleteDailyLog removes the log; food and exercise FKs cascade.
func (s *Store) DeleteDailyLog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var userID string
	if err := s.db.QueryRowContext(ctx, `SELECT user_id FROM daily_logs WHERE id = ?`, id).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("daily log %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete daily log %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM daily_logs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete daily log %s: %w", id, err)
	}

	s.notify(Change{Entity: domain.EntityDailyLog, ID: id, UserID: userID, Op: ChangeDelete})
	return nil
}
