package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AlertSender = (*SlackSender)(nil)

// SlackSender posts alerts to a Slack incoming webhook.
type SlackSender struct {
	url    string
	client *http.Client
}

// NewSlackSender creates a SlackSender for the given webhook URL.
func NewSlackSender(url string, client *http.Client) *SlackSender {
	return &SlackSender{url: url, client: client}
}

func (s *SlackSender) Name() string { return "slack" }

// Send posts the alert as a Slack message with a bold title line.
func (s *SlackSender) Send(ctx context.Context, alert model.Alert) error {
	payload := map[string]string{
		"text": fmt.Sprintf("*%s*\n%s", alertTitle(alert), alertBody(alert)),
	}
	return postJSON(ctx, s.client, s.url, payload)
}
