// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// excerptRunes bounds the release-notes excerpt carried in an alert.
const excerptRunes = 500

// PollService runs one worker per watched repository. Each worker checks the
// latest release on its own interval, tracks the last-seen release id in the
// cursor store, and dispatches an alert when new release notes contain a
// breaking keyword.
type PollService struct {
	source     driven.ReleaseSource
	cursors    driven.CursorStore
	heartbeats driven.HeartbeatStore
	dispatcher driven.AlertDispatcher
	repos      []model.WatchedRepo
}

// NewPollService creates a new PollService. heartbeats may be nil when no
// liveness probe is wanted (tests).
func NewPollService(
	source driven.ReleaseSource,
	cursors driven.CursorStore,
	heartbeats driven.HeartbeatStore,
	dispatcher driven.AlertDispatcher,
	repos []model.WatchedRepo,
) *PollService {
	return &PollService{
		source:     source,
		cursors:    cursors,
		heartbeats: heartbeats,
		dispatcher: dispatcher,
		repos:      repos,
	}
}

// Start launches one watch goroutine per repository and blocks until the
// context is canceled and all workers have stopped. With an empty watch list
// it idles until cancel; the process stays a foreground daemon either way.
func (s *PollService) Start(ctx context.Context) {
	if len(s.repos) == 0 {
		<-ctx.Done()
		slog.Info("poll service stopped")
		return
	}

	var wg sync.WaitGroup

	for _, repo := range s.repos {
		wg.Add(1)
		go func(repo model.WatchedRepo) {
			defer wg.Done()
			s.watchRepo(ctx, repo)
		}(repo)
	}

	wg.Wait()
	slog.Info("poll service stopped")
}

// watchRepo checks a repository immediately, then on its configured interval.
// A failed check is logged and retried on the next tick; it never stops the
// worker.
func (s *PollService) watchRepo(ctx context.Context, repo model.WatchedRepo) {
	slog.Info("watching repo",
		"repo", repo.FullName,
		"interval", repo.Interval,
		"keywords", len(repo.BreakKeywords),
		"discovered", repo.Discovered,
	)

	s.checkAndLog(ctx, repo)

	ticker := time.NewTicker(repo.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndLog(ctx, repo)
		}
	}
}

func (s *PollService) checkAndLog(ctx context.Context, repo model.WatchedRepo) {
	start := time.Now()
	if err := s.CheckRepo(ctx, repo); err != nil {
		slog.Error("repo check failed", "repo", repo.FullName, "error", err)
	}
	slog.Debug("repo check complete",
		"repo", repo.FullName,
		"duration", time.Since(start).Round(time.Millisecond),
	)
}

// CheckRepo performs a single release check for one repository.
//
// The cursor is the opaque release id, never a timestamp. It advances on
// every new release regardless of keyword outcome, so the same release is
// never evaluated twice. The first release ever seen for a repo establishes
// the baseline and does not alert.
func (s *PollService) CheckRepo(ctx context.Context, repo model.WatchedRepo) error {
	defer s.beat(ctx)

	rel, err := s.source.FetchLatestRelease(ctx, repo.FullName)
	if err != nil {
		// Cursor untouched; the next tick retries.
		return fmt.Errorf("fetch latest release: %w", err)
	}

	lastSeen, err := s.cursors.Get(ctx, repo.FullName)
	if err != nil {
		// An unreadable cursor is treated as unseen: re-alerting is
		// preferable to silently missing a breaking release.
		slog.Error("cursor read failed, treating repo as unseen", "repo", repo.FullName, "error", err)
		lastSeen = ""
	}

	if rel.ID == lastSeen {
		return nil
	}

	if err := s.cursors.Set(ctx, repo.FullName, rel.ID); err != nil {
		slog.Error("cursor write failed", "repo", repo.FullName, "release", rel.ID, "error", err)
	}

	if lastSeen == "" {
		slog.Info("baseline release recorded",
			"repo", repo.FullName,
			"release", rel.ID,
			"tag", rel.TagName,
		)
		return nil
	}

	keyword, matched := MatchKeyword(rel.Title+"\n"+rel.Body, repo.BreakKeywords)
	if !matched {
		slog.Info("new release without breaking keywords",
			"repo", repo.FullName,
			"release", rel.ID,
			"tag", rel.TagName,
		)
		return nil
	}

	slog.Warn("breaking change detected",
		"repo", repo.FullName,
		"release", rel.ID,
		"tag", rel.TagName,
		"keyword", keyword,
	)

	alert := model.Alert{
		RepoName:       repo.Name,
		RepoFullName:   repo.FullName,
		ReleaseID:      rel.ID,
		TagName:        rel.TagName,
		Title:          rel.Title,
		Excerpt:        excerpt(rel.Body, excerptRunes),
		URL:            rel.URL,
		MatchedKeyword: keyword,
	}

	if err := s.dispatcher.Dispatch(ctx, alert); err != nil {
		// Partial or full delivery failure never blocks the poll loop and
		// never rolls back the cursor.
		slog.Error("alert delivery incomplete", "repo", repo.FullName, "release", rel.ID, "error", err)
	}

	return nil
}

func (s *PollService) beat(ctx context.Context) {
	if s.heartbeats == nil {
		return
	}
	if err := s.heartbeats.Beat(ctx); err != nil {
		slog.Error("heartbeat write failed", "error", err)
	}
}
