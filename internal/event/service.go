// Package event implements creation, deletion, and snapshot assembly for
// one-time and materialized events.
package event

import (
	"fmt"
	"time"

	"github.com/dukerupert/synar/internal/model"
	"github.com/dukerupert/synar/internal/store"
	"github.com/dukerupert/synar/internal/timestamp"
)

type Service struct {
	events  *store.EventStore
	signups *store.SignupStore
	now     func() time.Time
}

func NewService(events *store.EventStore, signups *store.SignupStore) *Service {
	return &Service{
		events:  events,
		signups: signups,
		now:     time.Now,
	}
}

// CreateParams carries a fully collected event draft. The adapter gathers
// these through its command flow and submits them in one call.
type CreateParams struct {
	GuildID   int64
	ChannelID int64
	CreatorID int64

	Title     string
	Category  string
	Timestamp int64

	SignupMode string
	// AllowedRoleIDs is required (non-empty) when SignupMode is role and
	// ignored otherwise.
	AllowedRoleIDs []int64
}

// Create validates and inserts a one-time event. Capacity is derived from
// the category, never supplied.
func (s *Service) Create(p CreateParams) (*model.Event, error) {
	category, err := model.ParseCategory(p.Category)
	if err != nil {
		return nil, err
	}
	mode, err := model.ParseSignupMode(p.SignupMode)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := timestamp.Validate(p.Timestamp, now); err != nil {
		return nil, err
	}

	var roleIDs []int64
	if mode == model.SignupRole {
		if len(p.AllowedRoleIDs) == 0 {
			return nil, fmt.Errorf("role signup mode requires at least one allowed role: %w", model.ErrInvalidConfig)
		}
		roleIDs = p.AllowedRoleIDs
	}

	return s.events.Create(&model.Event{
		GuildID:    p.GuildID,
		ChannelID:  p.ChannelID,
		CreatorID:  p.CreatorID,
		Title:      p.Title,
		Category:   category,
		SignupMode: mode,
		MaxSlots:   category.MaxSlots(),
		Timestamp:  p.Timestamp,
		CreatedAt:  now.Unix(),
	}, roleIDs)
}

// Delete removes an event. Only the creator or a privileged caller may
// delete; the privileged flag is an adapter-level capability, not resolved
// here.
func (s *Service) Delete(eventID, callerID int64, privileged bool) error {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("event %d: %w", eventID, model.ErrNotFound)
	}
	if event.CreatorID != callerID && !privileged {
		return fmt.Errorf("event %d may only be deleted by its creator: %w", eventID, model.ErrForbidden)
	}
	return s.events.Delete(eventID)
}

// Get returns an event by id.
func (s *Service) Get(eventID int64) (*model.Event, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, model.ErrNotFound)
	}
	return event, nil
}

// Snapshot assembles the rendering context for an event: the row itself,
// its allowed roles, and signups grouped by status.
func (s *Service) Snapshot(eventID int64) (*model.EventSnapshot, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, model.ErrNotFound)
	}

	roleIDs, err := s.events.AllowedRoles(eventID)
	if err != nil {
		return nil, err
	}
	signups, err := s.signups.ListByEvent(eventID)
	if err != nil {
		return nil, err
	}

	snap := &model.EventSnapshot{Event: *event, AllowedRoles: roleIDs}
	for _, sg := range signups {
		switch sg.Status {
		case model.StatusAvailable:
			snap.Available = append(snap.Available, sg)
		case model.StatusUnavailable:
			snap.Unavailable = append(snap.Unavailable, sg)
		case model.StatusMaybe:
			snap.Maybe = append(snap.Maybe, sg)
		}
	}
	return snap, nil
}

// ListUpcoming returns events that have not yet occurred; the adapter uses
// this to restore interactive signup views after a restart.
func (s *Service) ListUpcoming() ([]model.Event, error) {
	return s.events.ListUpcoming(s.now().UTC().Unix())
}
