package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autonope/autonope/internal/application"
	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

type mockResolver struct {
	repos map[string]string
}

func (m *mockResolver) Resolve(_ context.Context, image string) (string, error) {
	if repo, ok := m.repos[image]; ok {
		return repo, nil
	}
	return "", driven.ErrNoSourceRepo
}

func TestDiscoverRepos(t *testing.T) {
	resolver := &mockResolver{repos: map[string]string{
		"acme/widget:latest": "acme/widget",
		"acme/gadget:2.0":    "acme/gadget",
	}}

	got := application.DiscoverRepos(
		context.Background(),
		resolver,
		[]string{"acme/widget:latest", "acme/gadget:2.0", "unresolvable/image:1.0"},
		24*time.Hour,
		[]string{"breaking"},
		nil,
	)

	require.Len(t, got, 2, "unresolvable image is skipped, not fatal")

	assert.Equal(t, "acme/widget", got[0].FullName)
	assert.Equal(t, []string{"breaking"}, got[0].BreakKeywords)
	assert.Equal(t, 24*time.Hour, got[0].Interval)
	assert.True(t, got[0].Discovered)

	assert.Equal(t, "acme/gadget", got[1].FullName)
}

// Explicit configuration wins: a discovered repo that duplicates a configured
// one is dropped so the configured keywords and interval apply.
func TestDiscoverRepos_ConfiguredWins(t *testing.T) {
	resolver := &mockResolver{repos: map[string]string{
		"acme/widget:latest": "acme/widget",
	}}

	configured := []model.WatchedRepo{{
		Name:          "Widget",
		FullName:      "acme/widget",
		BreakKeywords: []string{"incompatible"},
		Interval:      6 * time.Hour,
	}}

	got := application.DiscoverRepos(
		context.Background(),
		resolver,
		[]string{"acme/widget:latest"},
		24*time.Hour,
		[]string{"breaking"},
		configured,
	)

	assert.Empty(t, got)
}

func TestDiscoverRepos_DeduplicatesImages(t *testing.T) {
	resolver := &mockResolver{repos: map[string]string{
		"acme/widget:latest": "acme/widget",
		"acme/widget:2.0":    "acme/widget",
	}}

	got := application.DiscoverRepos(
		context.Background(),
		resolver,
		[]string{"acme/widget:latest", "acme/widget:2.0"},
		24*time.Hour,
		nil,
		nil,
	)

	assert.Len(t, got, 1)
}
