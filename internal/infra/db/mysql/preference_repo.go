package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PreferenceRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db, now: time.Now}
}

// Migrate creates the preferences table if needed.
func (r *PreferenceRepository) Migrate(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS preferences (
  visitor_id VARCHAR(64)  NOT NULL,
  pref_key   VARCHAR(32)  NOT NULL,
  pref_value VARCHAR(255) NOT NULL,
  updated_at DATETIME(3)  NOT NULL,
  PRIMARY KEY (visitor_id, pref_key)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("migrate preferences: %w", err)
	}
	return nil
}

// Get returns the stored value, ok=false when absent.
func (r *PreferenceRepository) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	const q = `SELECT pref_value FROM preferences WHERE visitor_id=? AND pref_key=?;`
	var v string
	err := r.db.QueryRowContext(ctx, q, visitorID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return v, true, nil
}

// Set upserts one value.
func (r *PreferenceRepository) Set(ctx context.Context, visitorID, key, value string) error {
	if err := requireKey(visitorID, key); err != nil {
		return err
	}
	const q = `
INSERT INTO preferences
  (visitor_id, pref_key, pref_value, updated_at)
VALUES (?,?,?,?)
ON DUPLICATE KEY UPDATE
  pref_value=VALUES(pref_value), updated_at=VALUES(updated_at);
`
	if _, err := r.db.ExecContext(ctx, q, visitorID, key, value, r.now().UTC()); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}
