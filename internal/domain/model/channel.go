package model

// ChannelType identifies a notification transport.
type ChannelType string

const (
	ChannelDiscord  ChannelType = "discord"
	ChannelSlack    ChannelType = "slack"
	ChannelApprise  ChannelType = "apprise"
	ChannelPushover ChannelType = "pushover"
	ChannelSMTP     ChannelType = "smtp"
)

// Channel is a configured notification channel. Which fields are required
// depends on Type; the config loader validates that before a Channel is
// handed to the notify adapter.
type Channel struct {
	Type ChannelType

	// Webhook channels (discord, slack, apprise).
	URL string

	// Pushover.
	Token string
	User  string

	// SMTP.
	SMTPHost string
	Port     int
	Username string
	Password string
	From     string
	To       string
}
