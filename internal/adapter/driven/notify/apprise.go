package notify

import (
	"context"
	"net/http"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AlertSender = (*AppriseSender)(nil)

// AppriseSender posts alerts to an apprise-api notify endpoint, which fans
// them out to whatever services its own configuration defines.
type AppriseSender struct {
	url    string
	client *http.Client
}

// NewAppriseSender creates an AppriseSender for the given notify endpoint URL,
// e.g. http://apprise:8000/notify/autonope.
func NewAppriseSender(url string, client *http.Client) *AppriseSender {
	return &AppriseSender{url: url, client: client}
}

func (s *AppriseSender) Name() string { return "apprise" }

// Send posts the alert title and body as an apprise notification payload.
func (s *AppriseSender) Send(ctx context.Context, alert model.Alert) error {
	payload := map[string]string{
		"title": alertTitle(alert),
		"body":  alertBody(alert),
	}
	return postJSON(ctx, s.client, s.url, payload)
}
