// Package registry resolves container image references to their GitHub
// source repositories.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"

	"github.com/autonope/autonope/internal/domain/port/driven"
)

// labelKeys are the OCI config labels checked for a GitHub source URL, in
// priority order.
var labelKeys = []string{
	"org.opencontainers.image.source",
	"org.label-schema.vcs-url",
	"org.opencontainers.image.url",
}

var githubRefPattern = regexp.MustCompile(`github\.com[:/]([^/\s]+)/([^/.\s]+)`)

const dockerHubAPI = "https://hub.docker.com/v2/repositories"

// Compile-time interface satisfaction check.
var _ driven.ImageResolver = (*Resolver)(nil)

// Resolver maps an image reference to "owner/name" on GitHub: first from the
// image's OCI config labels, then from the Docker Hub source-repository API.
type Resolver struct {
	hubAPI string
	client *http.Client
}

// NewResolver creates a Resolver with a 10s HTTP timeout for registry and
// Docker Hub calls.
func NewResolver() *Resolver {
	return &Resolver{
		hubAPI: dockerHubAPI,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve returns the "owner/name" GitHub repository for the image, or
// driven.ErrNoSourceRepo when neither strategy yields one.
func (r *Resolver) Resolve(ctx context.Context, image string) (string, error) {
	if repo, err := r.fromLabels(ctx, image); err == nil {
		return repo, nil
	} else if !errors.Is(err, driven.ErrNoSourceRepo) {
		slog.Debug("image label lookup failed, trying docker hub", "image", image, "error", err)
	}

	return r.fromDockerHub(ctx, image)
}

// fromLabels fetches the image config from its registry and scans the known
// source-URL labels for a GitHub reference.
func (r *Resolver) fromLabels(ctx context.Context, image string) (string, error) {
	ref, err := name.ParseReference(image)
	if err != nil {
		return "", fmt.Errorf("parse image reference %q: %w", image, err)
	}

	img, err := remote.Image(ref, remote.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetch image %s: %w", image, err)
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return "", fmt.Errorf("fetch config of %s: %w", image, err)
	}

	return RepoFromLabels(cfg.Config.Labels)
}

// RepoFromLabels scans OCI config labels for a GitHub repository reference.
func RepoFromLabels(imageLabels map[string]string) (string, error) {
	for _, key := range labelKeys {
		if m := githubRefPattern.FindStringSubmatch(imageLabels[key]); m != nil {
			return m[1] + "/" + m[2], nil
		}
	}
	return "", driven.ErrNoSourceRepo
}

// hubRepository is the slice of the Docker Hub repository API response we
// consume.
type hubRepository struct {
	SourceRepository struct {
		Provider string `json:"provider"`
		FullName string `json:"full_name"`
	} `json:"source_repository"`
}

// fromDockerHub asks the Docker Hub API for the image's linked source
// repository. Only "owner/name" images can live on Docker Hub under that
// owner; anything else is unresolvable here.
func (r *Resolver) fromDockerHub(ctx context.Context, image string) (string, error) {
	// Strip any tag or digest before querying the repository endpoint.
	if i := strings.IndexAny(image, ":@"); i >= 0 {
		image = image[:i]
	}

	parts := strings.Split(image, "/")
	if len(parts) != 2 {
		return "", driven.ErrNoSourceRepo
	}

	url := fmt.Sprintf("%s/%s/%s/", r.hubAPI, parts[0], parts[1])
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("query docker hub for %s: %w", image, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", driven.ErrNoSourceRepo
	}

	var repo hubRepository
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return "", fmt.Errorf("decode docker hub response for %s: %w", image, err)
	}

	if repo.SourceRepository.Provider != "github" || repo.SourceRepository.FullName == "" {
		return "", driven.ErrNoSourceRepo
	}

	return repo.SourceRepository.FullName, nil
}
