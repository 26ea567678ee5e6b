package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/synar/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventCols = `id, schedule_id, guild_id, channel_id, creator_id, title, category,
	signup_mode, max_slots, timestamp, created_at`

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var scheduleID sql.NullInt64

	err := scanner.Scan(
		&e.ID, &scheduleID, &e.GuildID, &e.ChannelID, &e.CreatorID, &e.Title, &e.Category,
		&e.SignupMode, &e.MaxSlots, &e.Timestamp, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scheduleID.Valid {
		e.ScheduleID = &scheduleID.Int64
	}
	return &e, nil
}

// Create inserts an event with its allowed-role set in one transaction and
// returns the stored row. Materializations racing past the caller's
// existence check are rejected here by the unique (schedule_id, timestamp)
// index.
func (s *EventStore) Create(event *model.Event, roleIDs []int64) (*model.Event, error) {
	var scheduleID sql.NullInt64
	if event.ScheduleID != nil {
		scheduleID = sql.NullInt64{Int64: *event.ScheduleID, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO events (
			schedule_id, guild_id, channel_id, creator_id, title, category,
			signup_mode, max_slots, timestamp, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scheduleID, event.GuildID, event.ChannelID, event.CreatorID, event.Title, event.Category,
		event.SignupMode, event.MaxSlots, event.Timestamp, event.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, roleID := range roleIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO event_allowed_roles (event_id, role_id) VALUES (?, ?)`,
			id, roleID,
		); err != nil {
			return nil, fmt.Errorf("insert event role %d: %w", roleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *EventStore) GetByID(id int64) (*model.Event, error) {
	row := s.db.QueryRow(`SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ExistsForOccurrence reports whether an event has already been materialized
// for the given (schedule, occurrence timestamp) idempotence key.
func (s *EventStore) ExistsForOccurrence(scheduleID, timestamp int64) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM events WHERE schedule_id = ? AND timestamp = ? LIMIT 1`,
		scheduleID, timestamp,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check occurrence: %w", err)
	}
	return true, nil
}

// ListUpcoming returns events that have not yet occurred, soonest first.
func (s *EventStore) ListUpcoming(now int64) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events WHERE timestamp > ? ORDER BY timestamp, id`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// Delete removes an event with its signups and allowed roles.
func (s *EventStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM event_signups WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("delete event signups: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM event_allowed_roles WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("delete event roles: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	return tx.Commit()
}

// AllowedRoles returns the event's allowed-role set.
func (s *EventStore) AllowedRoles(eventID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT role_id FROM event_allowed_roles WHERE event_id = ? ORDER BY role_id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("query event roles: %w", err)
	}
	defer rows.Close()

	var roleIDs []int64
	for rows.Next() {
		var roleID int64
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("scan event role: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}
	return roleIDs, rows.Err()
}
