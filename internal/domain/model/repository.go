package model

import "time"

// WatchedRepo is a GitHub repository watched for breaking releases.
// BreakKeywords are lowercased at config load. Interval is the effective
// poll interval after merging the global default.
type WatchedRepo struct {
	Name          string
	FullName      string
	BreakKeywords []string
	Interval      time.Duration
	// Discovered is true when the entry came from compose-file discovery
	// rather than explicit configuration.
	Discovered bool
}
