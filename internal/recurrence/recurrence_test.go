package recurrence

import (
	"errors"
	"testing"

	"github.com/dukerupert/synar/internal/model"
)

func TestStepSeconds(t *testing.T) {
	tests := []struct {
		freq     model.Frequency
		interval int
		want     int64
	}{
		{model.FrequencyDaily, 1, 86400},
		{model.FrequencyDaily, 3, 3 * 86400},
		{model.FrequencyDaily, 6, 6 * 86400},
		{model.FrequencyWeekly, 1, 604800},
		{model.FrequencyWeekly, 2, 2 * 604800},
		{model.FrequencyWeekly, 4, 4 * 604800},
	}
	for _, tt := range tests {
		got, err := StepSeconds(tt.freq, tt.interval)
		if err != nil {
			t.Errorf("StepSeconds(%q, %d) error: %v", tt.freq, tt.interval, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StepSeconds(%q, %d) = %d, want %d", tt.freq, tt.interval, got, tt.want)
		}
	}
}

func TestStepSecondsInvalid(t *testing.T) {
	if _, err := StepSeconds(model.FrequencyDaily, 0); !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("interval 0: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := StepSeconds(model.FrequencyWeekly, -2); !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("negative interval: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := StepSeconds(model.Frequency("hourly"), 1); !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("unknown frequency: err = %v, want ErrInvalidConfig", err)
	}
}

func TestFirstRun(t *testing.T) {
	const step = int64(86400)
	tests := []struct {
		name             string
		timeOfDay, start int64
		want             int64
	}{
		{"already past start", 1700000000, 1699000000, 1700000000},
		{"equal to start", 1700000000, 1700000000, 1700000000},
		{"one step behind", 1700000000, 1700000001, 1700086400},
		{"many steps behind", 1700000000, 1700000000 + 10*86400, 1700000000 + 10*86400},
		{"lands between steps", 1700000000, 1700000000 + 10*86400 + 1, 1700000000 + 11*86400},
	}
	for _, tt := range tests {
		got := FirstRun(tt.timeOfDay, tt.start, step)
		if got != tt.want {
			t.Errorf("%s: FirstRun = %d, want %d", tt.name, got, tt.want)
		}
		if got < tt.start {
			t.Errorf("%s: FirstRun %d < startDate %d", tt.name, got, tt.start)
		}
		if (got-tt.timeOfDay)%step != 0 {
			t.Errorf("%s: FirstRun %d lost phase with timeOfDay %d", tt.name, got, tt.timeOfDay)
		}
	}
}

func TestAdvanceToPresent(t *testing.T) {
	const step = int64(604800)
	tests := []struct {
		name           string
		candidate, now int64
		want           int64
	}{
		{"future is untouched", 1700000000, 1699999999, 1700000000},
		{"equal to now is stale", 1700000000, 1700000000, 1700000000 + step},
		{"one second stale", 1700000000, 1700000001, 1700000000 + step},
		{"several periods stale", 1700000000, 1700000000 + 3*step, 1700000000 + 4*step},
		{"exactly on a later occurrence", 1700000000, 1700000000 + 2*step, 1700000000 + 3*step},
	}
	for _, tt := range tests {
		got := AdvanceToPresent(tt.candidate, tt.now, step)
		if got != tt.want {
			t.Errorf("%s: AdvanceToPresent = %d, want %d", tt.name, got, tt.want)
		}
		if got <= tt.now {
			t.Errorf("%s: AdvanceToPresent %d not strictly after now %d", tt.name, got, tt.now)
		}
		if (got-tt.candidate)%step != 0 {
			t.Errorf("%s: advanced by a partial step", tt.name)
		}
	}
}

func TestWithinWindow(t *testing.T) {
	end := int64(1700000000)
	if !WithinWindow(1699999999, &end) {
		t.Error("occurrence before end_date should be within window")
	}
	if WithinWindow(1700000000, &end) {
		t.Error("occurrence exactly at end_date should be outside: end_date is exclusive")
	}
	if WithinWindow(1700000060, &end) {
		t.Error("occurrence after end_date should be outside window")
	}
	if !WithinWindow(1900000000, nil) {
		t.Error("nil end_date means open-ended")
	}
}

func TestNextRunAtRoundTrip(t *testing.T) {
	// Daily interval 1, no explicit start: the next run is the smallest
	// t ≡ timeOfDay (mod 86400) with t > now.
	const step = int64(86400)
	timeOfDay := int64(1700000000)
	now := int64(1756728000) // well after timeOfDay

	got := NextRunAt(timeOfDay, now, now, step)
	if got <= now {
		t.Fatalf("NextRunAt %d not after now %d", got, now)
	}
	if (got-timeOfDay)%step != 0 {
		t.Fatalf("NextRunAt %d lost phase with timeOfDay %d", got, timeOfDay)
	}
	if got-now > step {
		t.Fatalf("NextRunAt %d is not the smallest aligned value after now", got)
	}
}

func TestNextRunAtFutureAnchor(t *testing.T) {
	// A time_of_day in the future stays put.
	now := int64(1756728000)
	timeOfDay := now + 3600
	got := NextRunAt(timeOfDay, now, now, 86400)
	if got != timeOfDay {
		t.Errorf("NextRunAt = %d, want untouched anchor %d", got, timeOfDay)
	}
}
