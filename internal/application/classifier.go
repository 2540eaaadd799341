package application

import "strings"

// MatchKeyword reports whether any keyword appears as a case-insensitive
// substring of text, returning the first keyword that does. An empty keyword
// set never matches: a repo without keywords never alerts.
func MatchKeyword(text string, keywords []string) (string, bool) {
	if len(keywords) == 0 {
		return "", false
	}

	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return kw, true
		}
	}

	return "", false
}

// excerpt truncates release notes to at most max runes for the alert payload.
func excerpt(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "…"
}
