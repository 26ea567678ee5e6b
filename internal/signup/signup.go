// Package signup implements the state machine governing whether a user may
// set an availability status on an event.
package signup

import (
	"fmt"
	"time"

	"github.com/dukerupert/synar/internal/model"
	"github.com/dukerupert/synar/internal/store"
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

// SetStatus records a user's response to an event and returns the updated
// snapshot for re-rendering. callerRoleIDs is the caller's current role
// membership as resolved by the adapter; it is only consulted for
// role-gated events.
//
// Gating order: event existence, signup-mode authorization, capacity (for
// "available" only), then a last-write-wins upsert. The capacity comparison
// excludes the caller's own existing row, so an already-available user
// re-submitting "available" is never blocked by their own signup.
func (s *Service) SetStatus(eventID, userID int64, status model.Status, callerRoleIDs []int64) (*model.EventSnapshot, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, model.ErrNotFound)
	}

	mode := event.SignupMode
	if mode == "" {
		mode = model.SignupOpen
	}

	allowedRoles, err := s.events.AllowedRoles(eventID)
	if err != nil {
		return nil, err
	}

	switch mode {
	case model.SignupInvite:
		if userID != event.CreatorID {
			return nil, fmt.Errorf("invite-only, ask the host: %w", model.ErrForbidden)
		}
	case model.SignupRole:
		if !holdsAllowedRole(callerRoleIDs, allowedRoles) {
			return nil, fmt.Errorf("missing required role: %w", model.ErrForbidden)
		}
	}

	if status == model.StatusAvailable {
		count, err := s.signups.CountAvailableExcluding(eventID, userID)
		if err != nil {
			return nil, err
		}
		if count >= event.MaxSlots {
			return nil, fmt.Errorf("event %d: %w", eventID, model.ErrCapacityExceeded)
		}
	}

	if err := s.signups.Upsert(eventID, userID, status, s.now().UTC().Unix()); err != nil {
		return nil, err
	}

	return s.snapshot(event, allowedRoles)
}

func (s *Service) snapshot(event *model.Event, allowedRoles []int64) (*model.EventSnapshot, error) {
	signups, err := s.signups.ListByEvent(event.ID)
	if err != nil {
		return nil, err
	}

	snap := &model.EventSnapshot{Event: *event, AllowedRoles: allowedRoles}
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

func holdsAllowedRole(memberRoles, allowedRoles []int64) bool {
	for _, allowed := range allowedRoles {
		for _, held := range memberRoles {
			if held == allowed {
				return true
			}
		}
	}
	return false
}
