package driven

import (
	"context"

	"github.com/autonope/autonope/internal/domain/model"
)

// ReleaseSource defines the driven port for fetching release metadata.
type ReleaseSource interface {
	// FetchLatestRelease returns the most recent published release of the
	// repository given as "owner/name".
	FetchLatestRelease(ctx context.Context, repoFullName string) (*model.Release, error)
}
