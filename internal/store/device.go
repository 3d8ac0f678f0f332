package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"countme-core/internal/domain"
)

func (s *Store) PutDevice(ctx context.Context, d *domain.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO devices(id, user_id, name, platform, token_hash, created_at, last_active, is_revoked)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name = excluded.name,
  last_active = excluded.last_active,
  is_revoked = excluded.is_revoked
`, d.ID, d.UserID, d.Name, d.Platform, d.TokenHash,
		formatTime(d.CreatedAt), formatTime(d.LastActive), boolToInt(d.IsRevoked))
	if err != nil {
		return fmt.Errorf("put device %s: %w", d.ID, err)
	}
	return nil
}

func (s *Store) DeviceByID(ctx context.Context, id string) (*domain.Device, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, name, platform, token_hash, created_at, last_active, is_revoked
FROM devices WHERE id = ?`, id)
	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("device %s: %w", id, ErrNotFound)
	}
	return d, err
}

func (s *Store) Devices(ctx context.Context, userID string) ([]*domain.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, name, platform, token_hash, created_at, last_active, is_revoked
FROM devices WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	devices := make([]*domain.Device, 0)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (s *Store) TouchDevice(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `UPDATE devices SET last_active = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("touch device %s: %w", id, err)
	}
	return nil
}

func scanDevice(row rowScanner) (*domain.Device, error) {
	var (
		d                   domain.Device
		created, lastActive string
		revoked             int
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Platform, &d.TokenHash, &created, &lastActive, &revoked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan device: %w", err)
	}
	var err error
	if d.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if d.LastActive, err = parseTime(lastActive); err != nil {
		return nil, err
	}
	d.IsRevoked = revoked != 0
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
