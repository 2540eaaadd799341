// Package notify delivers breaking-change alerts over the configured
// notification channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AlertDispatcher = (*Dispatcher)(nil)

// Dispatcher fans an alert out to every configured channel. Channels are
// independent: one channel failing never prevents delivery to the others.
type Dispatcher struct {
	senders []driven.AlertSender
}

// NewDispatcher creates a Dispatcher over the given senders.
func NewDispatcher(senders []driven.AlertSender) *Dispatcher {
	return &Dispatcher{senders: senders}
}

// FromChannels builds one sender per configured channel. Channel params are
// assumed validated by the config loader; an unknown type here is a
// programming error.
func FromChannels(channels []model.Channel) ([]driven.AlertSender, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}

	senders := make([]driven.AlertSender, 0, len(channels))
	for _, ch := range channels {
		switch ch.Type {
		case model.ChannelDiscord:
			senders = append(senders, NewDiscordSender(ch.URL, httpClient))
		case model.ChannelSlack:
			senders = append(senders, NewSlackSender(ch.URL, httpClient))
		case model.ChannelApprise:
			senders = append(senders, NewAppriseSender(ch.URL, httpClient))
		case model.ChannelPushover:
			senders = append(senders, NewPushoverSender(ch.Token, ch.User, httpClient))
		case model.ChannelSMTP:
			senders = append(senders, NewSMTPSender(ch))
		default:
			return nil, fmt.Errorf("unknown channel type %q", ch.Type)
		}
	}

	return senders, nil
}

// Dispatch attempts delivery on every channel and returns the joined errors
// of the channels that failed, or nil when all succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, alert model.Alert) error {
	var errs []error

	for _, sender := range d.senders {
		if err := sender.Send(ctx, alert); err != nil {
			slog.Error("alert delivery failed",
				"channel", sender.Name(),
				"repo", alert.RepoFullName,
				"release", alert.ReleaseID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", sender.Name(), err))
			continue
		}

		slog.Info("alert delivered",
			"channel", sender.Name(),
			"repo", alert.RepoFullName,
			"release", alert.ReleaseID,
		)
	}

	return errors.Join(errs...)
}
