package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// intervalPattern is anchored on purpose: partial matches and surrounding
// whitespace are configuration errors, not something to silently repair.
var intervalPattern = regexp.MustCompile(`^(\d+)([hdw])$`)

var unitHours = map[string]int{
	"h": 1,
	"d": 24,
	"w": 168,
}

// ParseInterval parses an interval string of the form "<integer><unit>" where
// unit is h (hours), d (days) or w (weeks), e.g. "6h", "3d", "2w".
func ParseInterval(s string) (time.Duration, error) {
	m := intervalPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid interval %q: expected <number><h|d|w>", s)
	}

	qty, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}

	return time.Duration(qty*unitHours[m[2]]) * time.Hour, nil
}
