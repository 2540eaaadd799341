package notify

import (
	"fmt"
	"strings"

	"github.com/autonope/autonope/internal/domain/model"
)

// alertTitle is the one-line summary used as webhook headline, pushover title
// and email subject.
func alertTitle(a model.Alert) string {
	release := a.TagName
	if release == "" {
		release = a.ReleaseID
	}
	return fmt.Sprintf("AutoNope: breaking change in %s (%s)", a.RepoName, release)
}

// alertBody is the plain-text message body shared by the webhook and pushover
// senders, and used as the text/plain part of emails.
func alertBody(a model.Alert) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s\n", a.RepoFullName)
	fmt.Fprintf(&b, "Release: %s", a.ReleaseID)
	if a.TagName != "" {
		fmt.Fprintf(&b, " (%s)", a.TagName)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Matched keyword: %s\n", a.MatchedKeyword)

	if a.Excerpt != "" {
		b.WriteString("\n")
		b.WriteString(a.Excerpt)
		b.WriteString("\n")
	}

	if a.URL != "" {
		b.WriteString("\n")
		b.WriteString(a.URL)
	}

	return b.String()
}
