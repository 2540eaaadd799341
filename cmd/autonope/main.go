package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	composeadapter "github.com/autonope/autonope/internal/adapter/driven/compose"
	githubadapter "github.com/autonope/autonope/internal/adapter/driven/github"
	notifyadapter "github.com/autonope/autonope/internal/adapter/driven/notify"
	registryadapter "github.com/autonope/autonope/internal/adapter/driven/registry"
	sqliteadapter "github.com/autonope/autonope/internal/adapter/driven/sqlite"
	"github.com/autonope/autonope/internal/application"
	"github.com/autonope/autonope/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed YAML, bad intervals or
	// incomplete channel params).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"check_interval", cfg.CheckInterval,
		"channels", len(cfg.Channels),
		"repos", len(cfg.Repos),
		"db_path", cfg.DBPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the cursor database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	cursorStore := sqliteadapter.NewCursorRepo(db)
	heartbeatStore := sqliteadapter.NewHeartbeatRepo(db)
	releaseSource := githubadapter.NewClient(cfg.GitHubToken)

	senders, err := notifyadapter.FromChannels(cfg.Channels)
	if err != nil {
		return err
	}
	dispatcher := notifyadapter.NewDispatcher(senders)
	if len(senders) == 0 {
		slog.Warn("no notification channels configured, breaking changes will only be logged")
	}

	// 6. Optionally discover repos from a compose file.
	repos := cfg.Repos
	if cfg.ComposeFile != "" {
		images, err := composeadapter.LabeledImages(cfg.ComposeFile)
		if err != nil {
			// Discovery is additive; a broken compose file should not take
			// down the explicitly configured watches.
			slog.Error("compose discovery failed", "file", cfg.ComposeFile, "error", err)
		} else {
			resolver := registryadapter.NewResolver()
			discovered := application.DiscoverRepos(ctx, resolver, images, cfg.CheckInterval, cfg.BreakKeywords, repos)
			repos = append(repos, discovered...)
		}
	}

	if len(repos) == 0 {
		slog.Warn("no repos to watch, idling until shutdown")
	}

	// 7. Create and start the poll service; Start blocks until the context
	// is canceled and all per-repo workers have drained.
	pollSvc := application.NewPollService(releaseSource, cursorStore, heartbeatStore, dispatcher, repos)

	slog.Info("autonope started", "repos", len(repos))
	pollSvc.Start(ctx)

	slog.Info("shutdown complete")
	return nil
}
