package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

type fakeSender struct {
	name  string
	err   error
	sent  []model.Alert
	calls int
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(_ context.Context, alert model.Alert) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, alert)
	return nil
}

func testAlert() model.Alert {
	return model.Alert{
		RepoName:       "Widget",
		RepoFullName:   "acme/widget",
		ReleaseID:      "987654",
		TagName:        "v2.0.0",
		Excerpt:        "BREAKING: config format changed",
		URL:            "https://github.com/acme/widget/releases/tag/v2.0.0",
		MatchedKeyword: "breaking",
	}
}

func TestDispatch_AllChannels(t *testing.T) {
	a := &fakeSender{name: "discord"}
	b := &fakeSender{name: "smtp"}
	d := NewDispatcher([]driven.AlertSender{a, b})

	err := d.Dispatch(context.Background(), testAlert())
	require.NoError(t, err)

	assert.Len(t, a.sent, 1)
	assert.Len(t, b.sent, 1)
}

// TestDispatch_FailureIsolation verifies that one failing channel neither
// blocks nor cancels delivery to the others.
func TestDispatch_FailureIsolation(t *testing.T) {
	failing := &fakeSender{name: "discord", err: errors.New("webhook returned 404")}
	working := &fakeSender{name: "slack"}
	d := NewDispatcher([]driven.AlertSender{failing, working})

	err := d.Dispatch(context.Background(), testAlert())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord")
	assert.Equal(t, 1, failing.calls, "failing channel was attempted")
	assert.Len(t, working.sent, 1, "working channel still delivered")
}

func TestDispatch_NoChannels(t *testing.T) {
	d := NewDispatcher(nil)
	assert.NoError(t, d.Dispatch(context.Background(), testAlert()))
}

func TestFromChannels(t *testing.T) {
	senders, err := FromChannels([]model.Channel{
		{Type: model.ChannelDiscord, URL: "https://discord.example/webhook"},
		{Type: model.ChannelSlack, URL: "https://slack.example/webhook"},
		{Type: model.ChannelApprise, URL: "http://apprise:8000/notify/autonope"},
		{Type: model.ChannelPushover, Token: "apptoken", User: "userkey"},
		{
			Type:     model.ChannelSMTP,
			SMTPHost: "smtp.example.com",
			Port:     587,
			Username: "bot@example.com",
			Password: "hunter2",
			From:     "bot@example.com",
			To:       "ops@example.com",
		},
	})
	require.NoError(t, err)
	require.Len(t, senders, 5)

	assert.Equal(t, "discord", senders[0].Name())
	assert.Equal(t, "slack", senders[1].Name())
	assert.Equal(t, "apprise", senders[2].Name())
	assert.Equal(t, "pushover", senders[3].Name())
	assert.Equal(t, "smtp", senders[4].Name())
}

func TestFromChannels_UnknownType(t *testing.T) {
	_, err := FromChannels([]model.Channel{{Type: "carrier-pigeon"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
