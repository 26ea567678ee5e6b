package model

import (
	"fmt"
	"strings"
)

type SignupMode string

const (
	SignupOpen   SignupMode = "open"
	SignupRole   SignupMode = "role"
	SignupInvite SignupMode = "invite"
)

// ParseSignupMode validates a signup mode. Input is lowercased (commands
// present "Open"/"Role"/"Invite"); an empty string defaults to open;
// anything else unrecognized is rejected.
func ParseSignupMode(s string) (SignupMode, error) {
	if s == "" {
		return SignupOpen, nil
	}
	switch mode := SignupMode(strings.ToLower(s)); mode {
	case SignupOpen, SignupRole, SignupInvite:
		return mode, nil
	}
	return "", fmt.Errorf("unknown signup mode %q: %w", s, ErrInvalidConfig)
}

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusMaybe       Status = "maybe"
)

// ParseStatus validates a signup status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusUnavailable, StatusMaybe:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown signup status %q: %w", s, ErrInvalidConfig)
}

// Signup is one user's current response to one event. There is exactly one
// row per (EventID, UserID); new responses replace the prior one.
type Signup struct {
	EventID int64
	UserID  int64
	Status  Status
	// CreatedAt is the last-update time, UTC epoch seconds.
	CreatedAt int64
}
