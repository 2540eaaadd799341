package driven

import (
	"context"
	"time"
)

// HeartbeatStore defines the driven port for the liveness heartbeat the
// container healthcheck reads.
type HeartbeatStore interface {
	// Beat records that a poll check just completed.
	Beat(ctx context.Context) error
	// Last returns the time of the most recent beat, or the zero time when
	// no beat has been recorded yet.
	Last(ctx context.Context) (time.Time, error)
}
