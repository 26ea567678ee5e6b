package model

import "fmt"

type Category string

const (
	CategoryRaids    Category = "Raids"
	CategoryDungeons Category = "Dungeons"
	CategoryFractals Category = "Fractals"
	CategoryOther    Category = "Other"
)

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryRaids, CategoryDungeons, CategoryFractals, CategoryOther:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q: %w", s, ErrInvalidConfig)
}

// MaxSlots returns the signup capacity for events of this category.
func (c Category) MaxSlots() int {
	switch c {
	case CategoryRaids:
		return 10
	case CategoryDungeons, CategoryFractals:
		return 5
	}
	return 50
}

// Event is a single occurrence users sign up for, either standalone or
// materialized from a Schedule. Events are never mutated after creation
// except through their Signups.
type Event struct {
	ID int64
	// ScheduleID is set only for materialized events. (ScheduleID, Timestamp)
	// is the materialization idempotence key.
	ScheduleID *int64
	GuildID    int64
	ChannelID  int64
	CreatorID  int64

	Title      string
	Category   Category
	SignupMode SignupMode
	MaxSlots   int

	// Timestamp is when the event occurs, UTC epoch seconds.
	Timestamp int64
	CreatedAt int64
}

// EventSnapshot bundles everything the adapter needs to render an event's
// signup summary: the event row, its allowed-role set, and the current
// signups split by status.
type EventSnapshot struct {
	Event        Event
	AllowedRoles []int64
	Available    []Signup
	Unavailable  []Signup
	Maybe        []Signup
}

// AvailableCount is the number of confirmed signups counted against MaxSlots.
func (s *EventSnapshot) AvailableCount() int {
	return len(s.Available)
}
