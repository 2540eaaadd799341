package driven

import (
	"context"

	"github.com/autonope/autonope/internal/domain/model"
)

// AlertSender delivers an alert over a single notification channel.
type AlertSender interface {
	// Name identifies the channel in logs, e.g. "discord" or "smtp".
	Name() string
	Send(ctx context.Context, alert model.Alert) error
}

// AlertDispatcher fans an alert out to every configured channel. It attempts
// all channels regardless of individual failures and returns the joined
// delivery errors, if any.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert model.Alert) error
}
