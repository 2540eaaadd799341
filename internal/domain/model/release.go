package model

import "time"

// Release is the latest published release of a watched repository.
//
// ID is an opaque identifier (the GitHub release id rendered as a string) and
// is the only value used for deduplication. PublishedAt is display-only;
// comparing timestamps across timezones is exactly the bug class the cursor
// exists to avoid.
type Release struct {
	ID          string
	TagName     string
	Title       string
	Body        string
	URL         string
	PublishedAt time.Time
}
