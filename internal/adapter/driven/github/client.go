// Package github implements the ReleaseSource port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReleaseSource = (*Client)(nil)

// Client implements the driven.ReleaseSource port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client)
//
// token may be empty; release reads work unauthenticated at a lower rate limit.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchLatestRelease returns the most recent published release of the given
// "owner/name" repository. A repository without releases surfaces as an error
// (404 from the API); the caller treats it like any other fetch failure and
// retries on the next cycle.
func (c *Client) FetchLatestRelease(ctx context.Context, repoFullName string) (*model.Release, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	rel, resp, err := c.gh.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching latest release for %s: %w", repoFullName, err)
	}

	logRateLimit(resp, repoFullName)

	return mapRelease(rel), nil
}

// mapRelease converts a go-github RepositoryRelease to a domain model Release.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRelease(rel *gh.RepositoryRelease) *model.Release {
	return &model.Release{
		// The numeric release id, not the tag, is the dedup key: tags can be
		// re-pointed, ids cannot.
		ID:          strconv.FormatInt(rel.GetID(), 10),
		TagName:     rel.GetTagName(),
		Title:       rel.GetName(),
		Body:        rel.GetBody(),
		URL:         rel.GetHTMLURL(),
		PublishedAt: rel.GetPublishedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
