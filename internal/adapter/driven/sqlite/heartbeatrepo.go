package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/autonope/autonope/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HeartbeatStore = (*HeartbeatRepo)(nil)

// HeartbeatRepo is the SQLite implementation of the HeartbeatStore port
// interface. It keeps a single row holding the time of the last completed
// poll check, which cmd/healthcheck reads.
type HeartbeatRepo struct {
	db *DB
}

// NewHeartbeatRepo creates a new HeartbeatRepo backed by the given DB.
func NewHeartbeatRepo(db *DB) *HeartbeatRepo {
	return &HeartbeatRepo{db: db}
}

// Beat records that a poll check just completed.
func (r *HeartbeatRepo) Beat(ctx context.Context) error {
	const query = `INSERT OR REPLACE INTO heartbeats (id, beat_at) VALUES (1, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record heartbeat: %w", err)
	}

	return nil
}

// Last returns the time of the most recent beat, or the zero time when no
// beat has been recorded yet.
func (r *HeartbeatRepo) Last(ctx context.Context) (time.Time, error) {
	const query = `SELECT beat_at FROM heartbeats WHERE id = 1`

	var beatAt string
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(&beatAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get heartbeat: %w", err)
	}

	t, err := time.Parse(time.RFC3339, beatAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse heartbeat %q: %w", beatAt, err)
	}

	return t, nil
}
