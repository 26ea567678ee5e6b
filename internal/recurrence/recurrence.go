// Package recurrence computes occurrence timestamps for recurring schedules.
// It is pure arithmetic over epoch seconds: no I/O, no calendar math. A
// schedule's occurrence phase is fixed at creation time by its time_of_day
// and only ever moves in whole steps.
package recurrence

import (
	"fmt"

	"github.com/dukerupert/synar/internal/model"
)

// StepSeconds returns the distance between occurrences: the frequency's base
// period (daily 86400, weekly 604800) times the interval multiplier.
func StepSeconds(freq model.Frequency, interval int) (int64, error) {
	if interval < 1 {
		return 0, fmt.Errorf("interval %d must be at least 1: %w", interval, model.ErrInvalidConfig)
	}
	switch freq {
	case model.FrequencyDaily, model.FrequencyWeekly:
		return freq.BasePeriodSeconds() * int64(interval), nil
	}
	return 0, fmt.Errorf("unknown frequency %q: %w", freq, model.ErrInvalidConfig)
}

// FirstRun advances timeOfDay forward by whole steps until it reaches
// startDate. The result always satisfies firstRun ≡ timeOfDay (mod step) and
// firstRun >= startDate: the phase anchors to the original time_of_day, not
// to startDate.
func FirstRun(timeOfDay, startDate, step int64) int64 {
	run := timeOfDay
	if run < startDate {
		missed := (startDate - run + step - 1) / step
		run += missed * step
	}
	return run
}

// AdvanceToPresent advances candidate by whole steps until it is strictly
// after now. A candidate already in the future is returned unchanged. The
// strictness differs from FirstRun deliberately: a next_run_at equal to the
// current tick's time is stale (it fired, or fires, this tick) and must move.
func AdvanceToPresent(candidate, now, step int64) int64 {
	if candidate <= now {
		missed := (now-candidate)/step + 1
		candidate += missed * step
	}
	return candidate
}

// WithinWindow reports whether an occurrence is eligible to materialize.
// endDate is an exclusive upper bound; nil means open-ended. An occurrence
// advanced past the window leaves the schedule dormant, not deleted.
func WithinWindow(occurrence int64, endDate *int64) bool {
	return endDate == nil || occurrence < *endDate
}

// NextRunAt computes a schedule's next occurrence from scratch: anchor the
// phase at timeOfDay, advance to startDate, then strictly past now. Used at
// schedule creation and on every edit.
func NextRunAt(timeOfDay, startDate, now, step int64) int64 {
	return AdvanceToPresent(FirstRun(timeOfDay, startDate, step), now, step)
}
