package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// pushoverAPI is the message endpoint of the Pushover service.
const pushoverAPI = "https://api.pushover.net/1/messages.json"

// Compile-time interface satisfaction check.
var _ driven.AlertSender = (*PushoverSender)(nil)

// PushoverSender delivers alerts via the Pushover push service.
type PushoverSender struct {
	token  string
	user   string
	api    string
	client *http.Client
}

// NewPushoverSender creates a PushoverSender with the given application token
// and user key.
func NewPushoverSender(token, user string, client *http.Client) *PushoverSender {
	return &PushoverSender{token: token, user: user, api: pushoverAPI, client: client}
}

func (s *PushoverSender) Name() string { return "pushover" }

// Send posts the alert as a form-encoded Pushover message.
func (s *PushoverSender) Send(ctx context.Context, alert model.Alert) error {
	form := url.Values{
		"token":   {s.token},
		"user":    {s.user},
		"title":   {alertTitle(alert)},
		"message": {alertBody(alert)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.api, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post pushover message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("pushover returned %s: %s", resp.Status, msg)
	}

	return nil
}
