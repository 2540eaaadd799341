// Package config loads the YAML configuration file and the environment
// overrides controlling where state lives.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"

	"github.com/autonope/autonope/internal/domain/model"
)

// Defaults applied when the corresponding key or env var is absent.
const (
	DefaultConfigPath = "config/config.yml"
	DefaultDBPath     = "db/autonope.db"
)

// Config is the resolved, immutable process configuration. Per-repo interval
// and keyword overrides are already merged with the global defaults.
type Config struct {
	CheckInterval time.Duration
	BreakKeywords []string
	Channels      []model.Channel
	Repos         []model.WatchedRepo
	ComposeFile   string

	// Environment-sourced settings.
	GitHubToken string
	DBPath      string
}

// fileConfig mirrors the YAML layout before defaults are merged.
type fileConfig struct {
	CheckInterval string   `fig:"check_interval" default:"24h"`
	BreakKeywords []string `fig:"break_keywords"`
	Notify        struct {
		Channels []fileChannel `fig:"channels"`
	} `fig:"notify"`
	Repos     []fileRepo `fig:"repos"`
	Discovery struct {
		ComposeFile string `fig:"compose_file"`
	} `fig:"discovery"`
}

type fileChannel struct {
	Type     string `fig:"type" validate:"required"`
	URL      string `fig:"url"`
	Token    string `fig:"token"`
	User     string `fig:"user"`
	SMTPHost string `fig:"smtp_host"`
	Port     int    `fig:"port"`
	Username string `fig:"username"`
	Password string `fig:"password"`
	From     string `fig:"from"`
	To       string `fig:"to"`
}

type fileRepo struct {
	Name          string   `fig:"name" validate:"required"`
	Repo          string   `fig:"repo" validate:"required"`
	BreakKeywords []string `fig:"break_keywords"`
	Interval      string   `fig:"interval"`
}

// Load reads the YAML config file (path from AUTONOPE_CONFIG, default
// config/config.yml), merges global defaults into per-repo entries, and
// validates everything a notification channel or poll worker will rely on.
// Any violation is fatal: the caller is expected to exit non-zero.
func Load() (*Config, error) {
	path := os.Getenv("AUTONOPE_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}

	var raw fileConfig
	if err := fig.Load(&raw, fig.File(filepath.Base(path)), fig.Dirs(filepath.Dir(path))); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	checkInterval, err := ParseInterval(raw.CheckInterval)
	if err != nil {
		return nil, fmt.Errorf("check_interval: %w", err)
	}

	globalKeywords := lowerAll(raw.BreakKeywords)

	channels := make([]model.Channel, 0, len(raw.Notify.Channels))
	for i, ch := range raw.Notify.Channels {
		resolved, err := resolveChannel(ch)
		if err != nil {
			return nil, fmt.Errorf("notify.channels[%d]: %w", i, err)
		}
		channels = append(channels, resolved)
	}

	repos := make([]model.WatchedRepo, 0, len(raw.Repos))
	for i, r := range raw.Repos {
		if err := validateRepoRef(r.Repo); err != nil {
			return nil, fmt.Errorf("repos[%d]: %w", i, err)
		}

		interval := checkInterval
		if r.Interval != "" {
			interval, err = ParseInterval(r.Interval)
			if err != nil {
				return nil, fmt.Errorf("repos[%d] (%s): %w", i, r.Name, err)
			}
		}

		keywords := globalKeywords
		if r.BreakKeywords != nil {
			keywords = lowerAll(r.BreakKeywords)
		}

		repos = append(repos, model.WatchedRepo{
			Name:          r.Name,
			FullName:      r.Repo,
			BreakKeywords: keywords,
			Interval:      interval,
		})
	}

	return &Config{
		CheckInterval: checkInterval,
		BreakKeywords: globalKeywords,
		Channels:      channels,
		Repos:         repos,
		ComposeFile:   raw.Discovery.ComposeFile,
		GitHubToken:   os.Getenv("AUTONOPE_GITHUB_TOKEN"),
		DBPath:        envOr("AUTONOPE_DB", DefaultDBPath),
	}, nil
}

// resolveChannel validates the per-type required params and maps the raw
// entry to a model.Channel.
func resolveChannel(ch fileChannel) (model.Channel, error) {
	out := model.Channel{
		Type:     model.ChannelType(strings.ToLower(ch.Type)),
		URL:      ch.URL,
		Token:    ch.Token,
		User:     ch.User,
		SMTPHost: ch.SMTPHost,
		Port:     ch.Port,
		Username: ch.Username,
		Password: ch.Password,
		From:     ch.From,
		To:       ch.To,
	}

	switch out.Type {
	case model.ChannelDiscord, model.ChannelSlack, model.ChannelApprise:
		if out.URL == "" {
			return model.Channel{}, fmt.Errorf("%s channel requires url", out.Type)
		}
	case model.ChannelPushover:
		if out.Token == "" || out.User == "" {
			return model.Channel{}, fmt.Errorf("pushover channel requires token and user")
		}
	case model.ChannelSMTP:
		var missing []string
		for _, p := range []struct {
			name  string
			empty bool
		}{
			{"smtp_host", out.SMTPHost == ""},
			{"port", out.Port == 0},
			{"username", out.Username == ""},
			{"password", out.Password == ""},
			{"to", out.To == ""},
		} {
			if p.empty {
				missing = append(missing, p.name)
			}
		}
		if len(missing) > 0 {
			return model.Channel{}, fmt.Errorf("smtp channel missing %s", strings.Join(missing, ", "))
		}
		if out.From == "" {
			out.From = out.Username
		}
	default:
		return model.Channel{}, fmt.Errorf("unknown channel type %q", ch.Type)
	}

	return out, nil
}

// validateRepoRef checks that a repo reference is of the "owner/name" form.
func validateRepoRef(ref string) error {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return fmt.Errorf("invalid repo %q: expected owner/name", ref)
	}
	return nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
