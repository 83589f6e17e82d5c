package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
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
  visitor_id TEXT        NOT NULL,
  pref_key   TEXT        NOT NULL,
  pref_value TEXT        NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (visitor_id, pref_key)
);
`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("migrate preferences: %w", err)
	}
	return nil
}

// Get returns the stored value, ok=false when absent.
func (r *PreferenceRepository) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	const q = `SELECT pref_value FROM preferences WHERE visitor_id=$1 AND pref_key=$2;`
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
	if strings.TrimSpace(visitorID) == "" || strings.TrimSpace(key) == "" {
		return fmt.Errorf("visitor id and key are required")
	}
	const q = `
INSERT INTO preferences
  (visitor_id, pref_key, pref_value, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (visitor_id, pref_key) DO UPDATE SET
  pref_value=EXCLUDED.pref_value,
  updated_at=EXCLUDED.updated_at;
`
	if _, err := r.db.ExecContext(ctx, q, visitorID, key, value, r.now().UTC()); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}
