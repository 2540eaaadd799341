package driven

import (
	"context"
	"errors"
)

// ErrNoSourceRepo is returned when an image cannot be mapped to a GitHub
// repository by any resolution strategy.
var ErrNoSourceRepo = errors.New("no source repository found for image")

// ImageResolver maps a container image reference to its GitHub "owner/name"
// source repository.
type ImageResolver interface {
	Resolve(ctx context.Context, image string) (string, error)
}
