package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_Basic(t *testing.T) {
	got := renderMarkdown("## Breaking changes\n\n- config format changed")

	assert.Contains(t, got, "<h2")
	assert.Contains(t, got, "Breaking changes")
	assert.Contains(t, got, "<li>config format changed</li>")
}

func TestRenderMarkdown_StripsScript(t *testing.T) {
	got := renderMarkdown("hello <script>alert(1)</script> world")

	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "hello")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", renderMarkdown(""))
}

func TestBuildEmail(t *testing.T) {
	msg := buildEmail("bot@example.com", "ops@example.com", testAlert())

	assert.Contains(t, msg, "From: bot@example.com\r\n")
	assert.Contains(t, msg, "To: ops@example.com\r\n")
	assert.Contains(t, msg, "Subject: AutoNope: breaking change in Widget (v2.0.0)\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/alternative")
	assert.Contains(t, msg, "Content-Type: text/plain")
	assert.Contains(t, msg, "Repository: acme/widget\r\n", "plain part carries the alert body")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, `<a href="https://github.com/acme/widget/releases/tag/v2.0.0"`)
}

func TestAlertTitle_FallsBackToReleaseID(t *testing.T) {
	a := testAlert()
	a.TagName = ""

	assert.Equal(t, "AutoNope: breaking change in Widget (987654)", alertTitle(a))
}
