package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AlertSender = (*DiscordSender)(nil)

// DiscordSender posts alerts to a Discord webhook.
type DiscordSender struct {
	url    string
	client *http.Client
}

// NewDiscordSender creates a DiscordSender for the given webhook URL.
func NewDiscordSender(url string, client *http.Client) *DiscordSender {
	return &DiscordSender{url: url, client: client}
}

func (s *DiscordSender) Name() string { return "discord" }

// Send posts the alert as a Discord message with a bold title line.
func (s *DiscordSender) Send(ctx context.Context, alert model.Alert) error {
	payload := map[string]string{
		"content": fmt.Sprintf("**%s**\n%s", alertTitle(alert), alertBody(alert)),
	}
	return postJSON(ctx, s.client, s.url, payload)
}
