package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPreferenceRepository(db)
	repo.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	_, ok, err := repo.Get(ctx, "v1", "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "v1", "theme", "light"))
	require.NoError(t, repo.Set(ctx, "v1", "theme", "dark"))
	require.NoError(t, repo.Set(ctx, "v2", "theme", "light"))

	v, ok, err := repo.Get(ctx, "v1", "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	var updated int64
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT updated_at FROM preferences WHERE visitor_id='v1' AND pref_key='theme'`).Scan(&updated))
	assert.Equal(t, int64(1_700_000_000_000), updated)

	assert.Error(t, repo.Set(ctx, "", "theme", "dark"))
}

func TestOpenFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewPreferenceRepository(db).Set(ctx, "v1", "language", "de"))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	v, ok, err := NewPreferenceRepository(db).Get(ctx, "v1", "language")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "de", v)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}
