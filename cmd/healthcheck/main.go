// Command healthcheck is the container HEALTHCHECK probe. The daemon exposes
// no HTTP surface, so liveness is judged from the heartbeat row the poll
// service writes after every check: exit 0 when the heartbeat is fresh,
// non-zero when it is missing or stale.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	sqliteadapter "github.com/autonope/autonope/internal/adapter/driven/sqlite"
	"github.com/autonope/autonope/internal/config"
)

const defaultMaxAge = 48 * time.Hour

func main() {
	os.Exit(check())
}

func check() int {
	dbPath := os.Getenv("AUTONOPE_DB")
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}

	maxAge := defaultMaxAge
	if v := os.Getenv("AUTONOPE_HEALTH_MAX_AGE"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid AUTONOPE_HEALTH_MAX_AGE %q: %v\n", v, err)
			return 1
		}
		maxAge = parsed
	}

	db, err := sqliteadapter.NewDB(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		return 1
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	last, err := sqliteadapter.NewHeartbeatRepo(db).Last(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read heartbeat: %v\n", err)
		return 1
	}

	if last.IsZero() {
		fmt.Fprintln(os.Stderr, "no heartbeat recorded yet")
		return 1
	}

	if age := time.Since(last); age > maxAge {
		fmt.Fprintf(os.Stderr, "heartbeat stale: last beat %s ago (max %s)\n", age.Round(time.Second), maxAge)
		return 1
	}

	return 0
}
