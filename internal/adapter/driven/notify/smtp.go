package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/autonope/autonope/internal/domain/model"
	"github.com/autonope/autonope/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AlertSender = (*SMTPSender)(nil)

// SMTPSender delivers alerts as email over SMTP with STARTTLS. The release
// notes excerpt is rendered from markdown to sanitized HTML for the body.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

// NewSMTPSender creates an SMTPSender from a validated smtp channel config.
func NewSMTPSender(ch model.Channel) *SMTPSender {
	return &SMTPSender{
		host:     ch.SMTPHost,
		port:     ch.Port,
		username: ch.Username,
		password: ch.Password,
		from:     ch.From,
		to:       ch.To,
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

// Send connects, upgrades to TLS, authenticates and submits the message.
// The smtp package has no context support, so cancellation only bounds the
// dial; the submission itself runs to completion once started.
func (s *SMTPSender) Send(ctx context.Context, alert model.Alert) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake with %s: %w", addr, err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail from %s: %w", s.from, err)
	}
	if err := client.Rcpt(s.to); err != nil {
		return fmt.Errorf("smtp rcpt to %s: %w", s.to, err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write([]byte(buildEmail(s.from, s.to, alert))); err != nil {
		wc.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	return client.Quit()
}

// mimeBoundary separates the plain and HTML parts. The parts cannot contain
// it: the plain part is release-notes text and the HTML part is sanitized.
const mimeBoundary = "=-autonope-alert"

// buildEmail assembles an RFC 5322 multipart/alternative message: a plain-text
// part for text clients and an HTML part rendered from the release notes
// markdown.
func buildEmail(from, to string, alert model.Alert) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", alertTitle(alert))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(alertBody(alert), "\n", "\r\n"))
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "<p>Repository: %s<br>Release: %s", html.EscapeString(alert.RepoFullName), html.EscapeString(alert.ReleaseID))
	if alert.TagName != "" {
		fmt.Fprintf(&b, " (%s)", html.EscapeString(alert.TagName))
	}
	fmt.Fprintf(&b, "<br>Matched keyword: %s</p>\r\n", html.EscapeString(alert.MatchedKeyword))

	if notes := renderMarkdown(alert.Excerpt); notes != "" {
		b.WriteString(notes)
		b.WriteString("\r\n")
	}

	if alert.URL != "" {
		fmt.Fprintf(&b, "<p><a href=%q>%s</a></p>\r\n", alert.URL, alert.URL)
	}

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)

	return b.String()
}
