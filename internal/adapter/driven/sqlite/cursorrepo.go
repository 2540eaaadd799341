package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/autonope/autonope/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CursorStore = (*CursorRepo)(nil)

// CursorRepo is the SQLite implementation of the CursorStore port interface.
// One row per repository holds the last-seen release id.
type CursorRepo struct {
	db *DB
}

// NewCursorRepo creates a new CursorRepo backed by the given DB.
func NewCursorRepo(db *DB) *CursorRepo {
	return &CursorRepo{db: db}
}

// Get returns the last-seen release id for the repository.
// Returns ("", nil) when the repository has no cursor yet.
func (r *CursorRepo) Get(ctx context.Context, repoFullName string) (string, error) {
	const query = `SELECT last_release_id FROM cursors WHERE repo = ?`

	var releaseID string
	err := r.db.Reader.QueryRowContext(ctx, query, repoFullName).Scan(&releaseID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get cursor for %s: %w", repoFullName, err)
	}

	return releaseID, nil
}

// Set stores or replaces the cursor for the repository. The whole row is
// replaced in one statement so an interrupted write never leaves a partial
// record.
func (r *CursorRepo) Set(ctx context.Context, repoFullName, releaseID string) error {
	const query = `INSERT OR REPLACE INTO cursors (repo, last_release_id, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))`

	_, err := r.db.Writer.ExecContext(ctx, query, repoFullName, releaseID)
	if err != nil {
		return fmt.Errorf("set cursor for %s: %w", repoFullName, err)
	}

	return nil
}
