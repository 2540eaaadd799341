package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// DiscoverRepos resolves compose-labeled images to GitHub repositories and
// returns watch entries for those not already configured explicitly.
// Discovered repos use the global default interval and keywords. Resolution
// failures are logged and skipped; discovery never fails the startup.
func DiscoverRepos(
	ctx context.Context,
	resolver driven.ImageResolver,
	images []string,
	interval time.Duration,
	keywords []string,
	configured []model.WatchedRepo,
) []model.WatchedRepo {
	known := make(map[string]bool, len(configured))
	for _, r := range configured {
		known[strings.ToLower(r.FullName)] = true
	}

	var discovered []model.WatchedRepo
	for _, image := range images {
		repo, err := resolver.Resolve(ctx, image)
		if err != nil {
			slog.Warn("could not resolve image to a source repo", "image", image, "error", err)
			continue
		}

		if known[strings.ToLower(repo)] {
			slog.Debug("discovered repo already configured", "image", image, "repo", repo)
			continue
		}
		known[strings.ToLower(repo)] = true

		slog.Info("discovered repo from compose file", "image", image, "repo", repo)
		discovered = append(discovered, model.WatchedRepo{
			Name:          repo,
			FullName:      repo,
			BreakKeywords: keywords,
			Interval:      interval,
			Discovered:    true,
		})
	}

	return discovered
}
