package model

import "fmt"

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// ParseFrequency validates a frequency string. Unrecognized values are
// rejected rather than defaulted.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown frequency %q: %w", s, ErrInvalidConfig)
}

// BasePeriodSeconds returns the base period of one frequency unit.
func (f Frequency) BasePeriodSeconds() int64 {
	if f == FrequencyWeekly {
		return 7 * 86400
	}
	return 86400
}

// Schedule is a recurring template that the scheduler materializes Events
// from. All timestamp fields are UTC epoch seconds; the clock fields
// (TimeOfDay, StartDate, EndDate, NextRunAt) are minute-truncated.
type Schedule struct {
	ID        int64
	GuildID   int64
	ChannelID int64
	CreatorID int64

	Title    string
	Category Category

	Frequency Frequency
	Interval  int
	// DayOfWeek is 0-6, required for weekly schedules. It is advisory
	// display metadata only: occurrence timing is governed entirely by the
	// step arithmetic over TimeOfDay, and the two are never reconciled.
	DayOfWeek *int

	TimeOfDay int64
	StartDate int64
	// EndDate is an exclusive upper bound on occurrences; nil means open-ended.
	EndDate *int64

	SignupMode SignupMode
	NextRunAt  int64
	CreatedAt  int64
}

// Dormant reports whether the schedule's next occurrence has been advanced
// past its window. A dormant schedule produces no further events unless its
// window is extended by an edit.
func (s *Schedule) Dormant() bool {
	return s.EndDate != nil && s.NextRunAt >= *s.EndDate
}
