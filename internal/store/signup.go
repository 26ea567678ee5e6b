package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/synar/internal/model"
)

type SignupStore struct {
	db *sql.DB
}

func NewSignupStore(db *sql.DB) *SignupStore {
	return &SignupStore{db: db}
}

// Upsert records a user's current status for an event, replacing any prior
// response. No history is kept.
func (s *SignupStore) Upsert(eventID, userID int64, status model.Status, now int64) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO event_signups (event_id, user_id, status, created_at)
		 VALUES (?, ?, ?, ?)`,
		eventID, userID, status, now,
	)
	if err != nil {
		return fmt.Errorf("upsert signup: %w", err)
	}
	return nil
}

// Get returns a user's current signup for an event, or nil if they have not
// responded.
func (s *SignupStore) Get(eventID, userID int64) (*model.Signup, error) {
	var sg model.Signup
	err := s.db.QueryRow(
		`SELECT event_id, user_id, status, created_at FROM event_signups
		 WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	).Scan(&sg.EventID, &sg.UserID, &sg.Status, &sg.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get signup: %w", err)
	}
	return &sg, nil
}

// CountAvailableExcluding counts confirmed signups for the capacity check.
// The excluded user is the caller, whose existing row is about to be
// replaced and must not count against them.
func (s *SignupStore) CountAvailableExcluding(eventID, userID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM event_signups
		 WHERE event_id = ? AND status = ? AND user_id != ?`,
		eventID, model.StatusAvailable, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count available signups: %w", err)
	}
	return count, nil
}

// ListByEvent returns all signups for an event, oldest response first.
func (s *SignupStore) ListByEvent(eventID int64) ([]model.Signup, error) {
	rows, err := s.db.Query(
		`SELECT event_id, user_id, status, created_at FROM event_signups
		 WHERE event_id = ? ORDER BY created_at, user_id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("query signups: %w", err)
	}
	defer rows.Close()

	var signups []model.Signup
	for rows.Next() {
		var sg model.Signup
		if err := rows.Scan(&sg.EventID, &sg.UserID, &sg.Status, &sg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan signup: %w", err)
		}
		signups = append(signups, sg)
	}
	return signups, rows.Err()
}
