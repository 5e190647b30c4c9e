package pkg

import (
	"fmt"
	"time"
)

// NotRolledOutLabel describes a live copy that was never synchronized.
const NotRolledOutLabel = "Not rolled out"

// TimestampLayout renders last synchronization times.
const TimestampLayout = "15:04:05 MST 02-01-2006"

var timeUnits = []struct {
	name     string
	duration time.Duration
}{
	{"year", 365 * 24 * time.Hour},
	{"month", 30 * 24 * time.Hour},
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// TimeSince renders the time elapsed between then and now in the largest whole unit,
// e.g. "3 days ago". It returns an empty string when less than a second elapsed.
func TimeSince(then, now time.Time) string {
	elapsed := now.Sub(then)

	for _, unit := range timeUnits {
		count := int64(elapsed / unit.duration)
		if count <= 0 {
			continue
		}

		suffix := ""
		if count != 1 {
			suffix = "s"
		}

		return fmt.Sprintf("%d %s%s ago", count, unit.name, suffix)
	}

	return ""
}

// LastSyncLabel describes a last synchronization time for display.
func LastSyncLabel(syncedAt *time.Time, now time.Time) string {
	if syncedAt == nil {
		return NotRolledOutLabel
	}

	ago := TimeSince(*syncedAt, now)
	if ago == "" {
		ago = "just now"
	}

	return fmt.Sprintf("%s (%s)", syncedAt.In(now.Location()).Format(TimestampLayout), ago)
}
