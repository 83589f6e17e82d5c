// Package db opens the SQL preference store selected by config.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/triagedesk/internal/domain/preference"
	"github.com/bryanwahyu/triagedesk/internal/infra/db/mysql"
	"github.com/bryanwahyu/triagedesk/internal/infra/db/postgres"
	"github.com/bryanwahyu/triagedesk/internal/infra/db/sqlite"
)

// OpenPreferences connects to driver and returns the store with its pool.
// The caller closes the pool.
func OpenPreferences(ctx context.Context, driver, dsn string) (preference.Store, *sql.DB, error) {
	switch driver {
	case "sqlite":
		conn, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewPreferenceRepository(conn), conn, nil
	case "mysql":
		conn, err := mysql.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return mysql.NewPreferenceRepository(conn), conn, nil
	case "postgres":
		conn, err := postgres.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewPreferenceRepository(conn), conn, nil
	default:
		return nil, nil, fmt.Errorf("unsupported preference driver %q", driver)
	}
}
