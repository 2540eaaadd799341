package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqliteadapter "github.com/autonope/autonope/internal/adapter/driven/sqlite"
)

// seedDB creates a migrated on-disk database in a temp dir and points
// AUTONOPE_DB at it for the duration of the test.
func seedDB(t *testing.T) *sqliteadapter.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "autonope.db")
	db, err := sqliteadapter.NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqliteadapter.RunMigrations(db.Writer))

	t.Setenv("AUTONOPE_DB", path)
	t.Setenv("AUTONOPE_HEALTH_MAX_AGE", "")

	return db
}

// setBeat writes a heartbeat row with the given timestamp, bypassing the repo
// so tests can plant arbitrarily old beats.
func setBeat(t *testing.T, db *sqliteadapter.DB, at time.Time) {
	t.Helper()

	_, err := db.Writer.Exec(
		`INSERT OR REPLACE INTO heartbeats (id, beat_at) VALUES (1, ?)`,
		at.UTC().Format(time.RFC3339),
	)
	require.NoError(t, err)
}

func TestCheck_NoHeartbeatYet(t *testing.T) {
	seedDB(t)
	assert.Equal(t, 1, check(), "a daemon that never completed a poll is not healthy")
}

func TestCheck_FreshHeartbeat(t *testing.T) {
	db := seedDB(t)
	require.NoError(t, sqliteadapter.NewHeartbeatRepo(db).Beat(context.Background()))

	assert.Equal(t, 0, check())
}

func TestCheck_StaleHeartbeat(t *testing.T) {
	db := seedDB(t)
	setBeat(t, db, time.Now().Add(-72*time.Hour))

	assert.Equal(t, 1, check(), "beat older than the default 48h max age")
}

func TestCheck_CustomMaxAge(t *testing.T) {
	db := seedDB(t)
	setBeat(t, db, time.Now().Add(-2*time.Hour))

	t.Setenv("AUTONOPE_HEALTH_MAX_AGE", "1h")
	assert.Equal(t, 1, check())

	t.Setenv("AUTONOPE_HEALTH_MAX_AGE", "3h")
	assert.Equal(t, 0, check())
}

func TestCheck_InvalidMaxAge(t *testing.T) {
	db := seedDB(t)
	setBeat(t, db, time.Now())

	t.Setenv("AUTONOPE_HEALTH_MAX_AGE", "soon")
	assert.Equal(t, 1, check())
}
