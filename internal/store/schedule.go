package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/synar/internal/model"
)

type ScheduleStore struct {
	db *sql.DB
}

func NewScheduleStore(db *sql.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

const scheduleCols = `id, guild_id, channel_id, creator_id, title, category, frequency,
	interval, day_of_week, time_of_day, start_date, end_date, signup_mode, next_run_at, created_at`

func scanSchedule(scanner interface{ Scan(...any) error }) (*model.Schedule, error) {
	var s model.Schedule
	var dayOfWeek, endDate sql.NullInt64

	err := scanner.Scan(
		&s.ID, &s.GuildID, &s.ChannelID, &s.CreatorID, &s.Title, &s.Category, &s.Frequency,
		&s.Interval, &dayOfWeek, &s.TimeOfDay, &s.StartDate, &endDate, &s.SignupMode, &s.NextRunAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dayOfWeek.Valid {
		d := int(dayOfWeek.Int64)
		s.DayOfWeek = &d
	}
	if endDate.Valid {
		s.EndDate = &endDate.Int64
	}
	return &s, nil
}

// Create inserts a schedule with its allowed-role set in one transaction and
// returns the stored row.
func (s *ScheduleStore) Create(sched *model.Schedule, roleIDs []int64) (*model.Schedule, error) {
	var dayOfWeek, endDate sql.NullInt64
	if sched.DayOfWeek != nil {
		dayOfWeek = sql.NullInt64{Int64: int64(*sched.DayOfWeek), Valid: true}
	}
	if sched.EndDate != nil {
		endDate = sql.NullInt64{Int64: *sched.EndDate, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO schedules (
			guild_id, channel_id, creator_id, title, category, frequency,
			interval, day_of_week, time_of_day, start_date, end_date,
			signup_mode, next_run_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sched.GuildID, sched.ChannelID, sched.CreatorID, sched.Title, sched.Category, sched.Frequency,
		sched.Interval, dayOfWeek, sched.TimeOfDay, sched.StartDate, endDate,
		sched.SignupMode, sched.NextRunAt, sched.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, roleID := range roleIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO schedule_allowed_roles (schedule_id, role_id) VALUES (?, ?)`,
			id, roleID,
		); err != nil {
			return nil, fmt.Errorf("insert schedule role %d: %w", roleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *ScheduleStore) GetByID(id int64) (*model.Schedule, error) {
	row := s.db.QueryRow(`SELECT `+scheduleCols+` FROM schedules WHERE id = ?`, id)
	sched, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return sched, nil
}

// ListActive returns schedules whose window has not closed: those the
// scheduler loop still considers each tick.
func (s *ScheduleStore) ListActive(now int64) ([]model.Schedule, error) {
	rows, err := s.db.Query(
		`SELECT `+scheduleCols+` FROM schedules
		 WHERE end_date IS NULL OR end_date > ?
		 ORDER BY id`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("query active schedules: %w", err)
	}
	defer rows.Close()

	var schedules []model.Schedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, *sched)
	}
	return schedules, rows.Err()
}

// UpdateNextRunAt persists an advanced occurrence pointer.
func (s *ScheduleStore) UpdateNextRunAt(id, nextRunAt int64) error {
	_, err := s.db.Exec(`UPDATE schedules SET next_run_at = ? WHERE id = ?`, nextRunAt, id)
	if err != nil {
		return fmt.Errorf("update next_run_at: %w", err)
	}
	return nil
}

// Update overwrites every editable field and replaces the allowed-role set
// (delete-all then insert) in one transaction.
func (s *ScheduleStore) Update(sched *model.Schedule, roleIDs []int64) error {
	var dayOfWeek, endDate sql.NullInt64
	if sched.DayOfWeek != nil {
		dayOfWeek = sql.NullInt64{Int64: int64(*sched.DayOfWeek), Valid: true}
	}
	if sched.EndDate != nil {
		endDate = sql.NullInt64{Int64: *sched.EndDate, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE schedules
		 SET title = ?, category = ?, frequency = ?, interval = ?, day_of_week = ?,
		     time_of_day = ?, start_date = ?, end_date = ?, signup_mode = ?, next_run_at = ?
		 WHERE id = ?`,
		sched.Title, sched.Category, sched.Frequency, sched.Interval, dayOfWeek,
		sched.TimeOfDay, sched.StartDate, endDate, sched.SignupMode, sched.NextRunAt,
		sched.ID,
	); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM schedule_allowed_roles WHERE schedule_id = ?`, sched.ID,
	); err != nil {
		return fmt.Errorf("clear schedule roles: %w", err)
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO schedule_allowed_roles (schedule_id, role_id) VALUES (?, ?)`,
			sched.ID, roleID,
		); err != nil {
			return fmt.Errorf("insert schedule role %d: %w", roleID, err)
		}
	}

	return tx.Commit()
}

// Delete removes a schedule and its not-yet-occurred events in one
// transaction. Past events are detached and retained.
func (s *ScheduleStore) Delete(id, now int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM event_signups WHERE event_id IN
		   (SELECT id FROM events WHERE schedule_id = ? AND timestamp > ?)`, id, now,
	); err != nil {
		return fmt.Errorf("delete future event signups: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM event_allowed_roles WHERE event_id IN
		   (SELECT id FROM events WHERE schedule_id = ? AND timestamp > ?)`, id, now,
	); err != nil {
		return fmt.Errorf("delete future event roles: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM events WHERE schedule_id = ? AND timestamp > ?`, id, now,
	); err != nil {
		return fmt.Errorf("delete future events: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE events SET schedule_id = NULL WHERE schedule_id = ?`, id,
	); err != nil {
		return fmt.Errorf("detach past events: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM schedule_allowed_roles WHERE schedule_id = ?`, id,
	); err != nil {
		return fmt.Errorf("delete schedule roles: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	return tx.Commit()
}

// AllowedRoles returns the schedule's allowed-role set.
func (s *ScheduleStore) AllowedRoles(scheduleID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT role_id FROM schedule_allowed_roles WHERE schedule_id = ? ORDER BY role_id`,
		scheduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("query schedule roles: %w", err)
	}
	defer rows.Close()

	var roleIDs []int64
	for rows.Next() {
		var roleID int64
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("scan schedule role: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}
	return roleIDs, rows.Err()
}
