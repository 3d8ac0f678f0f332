package store

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS daily_logs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  log_date TEXT NOT NULL,
  goal REAL CHECK(goal IS NULL OR (goal >= 0 AND goal <= 50000)),
  last_modified TEXT NOT NULL,
  sync_status TEXT NOT NULL DEFAULT 'pending_upload',
  UNIQUE(user_id, log_date)
);

CREATE TABLE IF NOT EXISTS food_items (
  id TEXT PRIMARY KEY,
  log_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  calories REAL NOT NULL CHECK(calories >= 0 AND calories <= 50000),
  protein_g REAL,
  carbs_g REAL,
  fats_g REAL,
  last_modified TEXT NOT NULL,
  sync_status TEXT NOT NULL DEFAULT 'pending_upload',
  FOREIGN KEY(log_id) REFERENCES daily_logs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS exercise_items (
  id TEXT PRIMARY KEY,
  log_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  calories_burned REAL NOT NULL CHECK(calories_burned >= 0 AND calories_burned <= 50000),
  duration_min REAL CHECK(duration_min IS NULL OR (duration_min >= 0 AND duration_min <= 1440)),
  last_modified TEXT NOT NULL,
  sync_status TEXT NOT NULL DEFAULT 'pending_upload',
  FOREIGN KEY(log_id) REFERENCES daily_logs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS custom_meals (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  servings_count REAL NOT NULL CHECK(servings_count > 0),
  last_modified TEXT NOT NULL,
  sync_status TEXT NOT NULL DEFAULT 'pending_upload'
);

CREATE TABLE IF NOT EXISTS ingredients (
  id TEXT PRIMARY KEY,
  meal_id TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  name TEXT NOT NULL,
  quantity REAL NOT NULL CHECK(quantity > 0),
  unit TEXT NOT NULL,
  calories REAL NOT NULL CHECK(calories >= 0 AND calories <= 50000),
  protein_g REAL,
  carbs_g REAL,
  fats_g REAL,
  FOREIGN KEY(meal_id) REFERENCES custom_meals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_food_items_log_id ON food_items(log_id);
CREATE INDEX IF NOT EXISTS idx_exercise_items_log_id ON exercise_items(log_id);
CREATE INDEX IF NOT EXISTS idx_ingredients_meal_id ON ingredients(meal_id);
CREATE INDEX IF NOT EXISTS idx_daily_logs_user_date ON daily_logs(user_id, log_date);
`,
	},
	{
		version: 2,
		name:    "devices",
		sql: `
CREATE TABLE IF NOT EXISTS devices (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  platform TEXT NOT NULL,
  token_hash TEXT NOT NULL,
  created_at TEXT NOT NULL,
  last_active TEXT NOT NULL,
  is_revoked INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_devices_user_id ON devices(user_id);
`,
	},
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT IFNULL(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}
