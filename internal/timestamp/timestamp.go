// Package timestamp parses and validates the epoch-second timestamps users
// supply for events and schedules.
package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/dukerupert/synar/internal/model"
)

// minValid is 2000-01-01T00:00:00Z. Anything earlier is assumed to be a typo
// or a milliseconds/seconds mixup.
const minValid = 946684800

// maxFutureSeconds bounds timestamps to ten years out.
const maxFutureSeconds = 10 * 365 * 24 * 3600

// Chat clients render "<t:1700000000>" or "<t:1700000000:F>" as a formatted
// time; users paste these verbatim, so accept the markup alongside a bare
// integer.
var chatTimestampRe = regexp.MustCompile(`^<t:(\d+)(?::[a-zA-Z])?>$`)

// Parse parses a Unix timestamp in seconds, accepting either a bare integer
// or chat timestamp markup, and validates it against Validate. now supplies
// the upper bound of the valid range.
func Parse(raw string, now time.Time) (int64, error) {
	if m := chatTimestampRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, model.ErrInvalidTimestamp)
	}

	if err := Validate(ts, now); err != nil {
		return 0, err
	}
	return ts, nil
}

// Validate checks that ts falls within [2000-01-01, now+10y].
func Validate(ts int64, now time.Time) error {
	if ts < minValid {
		return fmt.Errorf("timestamp %d before year 2000: %w", ts, model.ErrInvalidTimestamp)
	}
	if ts > now.Unix()+maxFutureSeconds {
		return fmt.Errorf("timestamp %d more than 10 years out: %w", ts, model.ErrInvalidTimestamp)
	}
	return nil
}

// TruncateMinute drops ts to its minute boundary.
func TruncateMinute(ts int64) int64 {
	return ts - ts%60
}
