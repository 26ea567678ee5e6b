// Package schedule implements the lifecycle of recurring schedules: creation
// with next-occurrence computation, field-merge edits with a full recompute,
// and deletion cascading to not-yet-occurred events.
package schedule

import (
	"fmt"
	"time"

	"github.com/dukerupert/synar/internal/model"
	"github.com/dukerupert/synar/internal/recurrence"
	"github.com/dukerupert/synar/internal/store"
	"github.com/dukerupert/synar/internal/timestamp"
)

type Service struct {
	schedules *store.ScheduleStore
	now       func() time.Time
}

func NewService(schedules *store.ScheduleStore) *Service {
	return &Service{
		schedules: schedules,
		now:       time.Now,
	}
}

// CreateParams carries a fully collected schedule draft.
type CreateParams struct {
	GuildID   int64
	ChannelID int64
	CreatorID int64

	Title     string
	Category  string
	Frequency string
	Interval  int
	// DayOfWeek (0-6) is required for weekly schedules. It is stored as
	// display metadata and does not influence occurrence timing.
	DayOfWeek *int

	// TimeOfDay anchors the occurrence phase; StartDate defaults to now.
	// EndDate is an exclusive window bound. All are epoch seconds and are
	// truncated to the minute here.
	TimeOfDay int64
	StartDate *int64
	EndDate   *int64

	SignupMode     string
	AllowedRoleIDs []int64
}

// Create validates the draft, computes the first occurrence, and inserts
// the schedule.
func (s *Service) Create(p CreateParams) (*model.Schedule, error) {
	category, err := model.ParseCategory(p.Category)
	if err != nil {
		return nil, err
	}
	frequency, err := model.ParseFrequency(p.Frequency)
	if err != nil {
		return nil, err
	}
	mode, err := model.ParseSignupMode(p.SignupMode)
	if err != nil {
		return nil, err
	}
	step, err := recurrence.StepSeconds(frequency, p.Interval)
	if err != nil {
		return nil, err
	}

	dayOfWeek, err := validateDayOfWeek(frequency, p.DayOfWeek)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := timestamp.Validate(p.TimeOfDay, now); err != nil {
		return nil, err
	}
	timeOfDay := timestamp.TruncateMinute(p.TimeOfDay)

	startDate := timestamp.TruncateMinute(now.Unix())
	if p.StartDate != nil {
		if err := timestamp.Validate(*p.StartDate, now); err != nil {
			return nil, err
		}
		startDate = timestamp.TruncateMinute(*p.StartDate)
	}

	var endDate *int64
	if p.EndDate != nil {
		if err := timestamp.Validate(*p.EndDate, now); err != nil {
			return nil, err
		}
		e := timestamp.TruncateMinute(*p.EndDate)
		if e <= startDate {
			return nil, fmt.Errorf("end_date must be after start_date: %w", model.ErrInvalidConfig)
		}
		endDate = &e
	}

	roleIDs, err := rolesForMode(mode, p.AllowedRoleIDs)
	if err != nil {
		return nil, err
	}

	return s.schedules.Create(&model.Schedule{
		GuildID:    p.GuildID,
		ChannelID:  p.ChannelID,
		CreatorID:  p.CreatorID,
		Title:      p.Title,
		Category:   category,
		Frequency:  frequency,
		Interval:   p.Interval,
		DayOfWeek:  dayOfWeek,
		TimeOfDay:  timeOfDay,
		StartDate:  startDate,
		EndDate:    endDate,
		SignupMode: mode,
		NextRunAt:  recurrence.NextRunAt(timeOfDay, startDate, now.Unix(), step),
		CreatedAt:  now.Unix(),
	}, roleIDs)
}

// EditParams lists field overrides; nil fields keep the stored value.
type EditParams struct {
	Title     *string
	Category  *string
	Frequency *string
	Interval  *int
	DayOfWeek *int
	TimeOfDay *int64
	StartDate *int64
	EndDate   *int64
	// ClearEndDate removes the window bound; it wins over EndDate.
	ClearEndDate bool
	SignupMode   *string
	// AllowedRoleIDs must be re-supplied whenever the resulting mode is
	// role: the stored set is always discarded on save.
	AllowedRoleIDs []int64
}

// Edit merges the provided fields over the stored schedule, recomputes
// next_run_at from scratch, and replaces the allowed-role set.
func (s *Service) Edit(scheduleID, callerID int64, privileged bool, p EditParams) (*model.Schedule, error) {
	sched, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, fmt.Errorf("schedule %d: %w", scheduleID, model.ErrNotFound)
	}
	if sched.CreatorID != callerID && !privileged {
		return nil, fmt.Errorf("schedule %d may only be edited by its creator: %w", scheduleID, model.ErrForbidden)
	}

	now := s.now().UTC()

	if p.Title != nil {
		sched.Title = *p.Title
	}
	if p.Category != nil {
		category, err := model.ParseCategory(*p.Category)
		if err != nil {
			return nil, err
		}
		sched.Category = category
	}
	if p.Frequency != nil {
		frequency, err := model.ParseFrequency(*p.Frequency)
		if err != nil {
			return nil, err
		}
		sched.Frequency = frequency
	}
	if p.Interval != nil {
		sched.Interval = *p.Interval
	}
	if p.DayOfWeek != nil {
		sched.DayOfWeek = p.DayOfWeek
	}
	if p.TimeOfDay != nil {
		if err := timestamp.Validate(*p.TimeOfDay, now); err != nil {
			return nil, err
		}
		sched.TimeOfDay = timestamp.TruncateMinute(*p.TimeOfDay)
	}
	if p.StartDate != nil {
		if err := timestamp.Validate(*p.StartDate, now); err != nil {
			return nil, err
		}
		sched.StartDate = timestamp.TruncateMinute(*p.StartDate)
	}
	if p.ClearEndDate {
		sched.EndDate = nil
	} else if p.EndDate != nil {
		if err := timestamp.Validate(*p.EndDate, now); err != nil {
			return nil, err
		}
		e := timestamp.TruncateMinute(*p.EndDate)
		sched.EndDate = &e
	}
	if p.SignupMode != nil {
		mode, err := model.ParseSignupMode(*p.SignupMode)
		if err != nil {
			return nil, err
		}
		sched.SignupMode = mode
	}

	step, err := recurrence.StepSeconds(sched.Frequency, sched.Interval)
	if err != nil {
		return nil, err
	}
	if sched.DayOfWeek, err = validateDayOfWeek(sched.Frequency, sched.DayOfWeek); err != nil {
		return nil, err
	}
	if sched.EndDate != nil && *sched.EndDate <= sched.StartDate {
		return nil, fmt.Errorf("end_date must be after start_date: %w", model.ErrInvalidConfig)
	}

	roleIDs, err := rolesForMode(sched.SignupMode, p.AllowedRoleIDs)
	if err != nil {
		return nil, err
	}

	sched.NextRunAt = recurrence.NextRunAt(sched.TimeOfDay, sched.StartDate, now.Unix(), step)

	if err := s.schedules.Update(sched, roleIDs); err != nil {
		return nil, err
	}
	return s.schedules.GetByID(scheduleID)
}

// Delete removes a schedule and its not-yet-occurred events; past events
// are retained.
func (s *Service) Delete(scheduleID, callerID int64, privileged bool) error {
	sched, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return err
	}
	if sched == nil {
		return fmt.Errorf("schedule %d: %w", scheduleID, model.ErrNotFound)
	}
	if sched.CreatorID != callerID && !privileged {
		return fmt.Errorf("schedule %d may only be deleted by its creator: %w", scheduleID, model.ErrForbidden)
	}
	return s.schedules.Delete(scheduleID, s.now().UTC().Unix())
}

func validateDayOfWeek(frequency model.Frequency, day *int) (*int, error) {
	if frequency != model.FrequencyWeekly {
		return nil, nil
	}
	if day == nil {
		return nil, fmt.Errorf("weekly schedules require a day_of_week: %w", model.ErrInvalidConfig)
	}
	if *day < 0 || *day > 6 {
		return nil, fmt.Errorf("day_of_week %d out of range 0-6: %w", *day, model.ErrInvalidConfig)
	}
	return day, nil
}

func rolesForMode(mode model.SignupMode, roleIDs []int64) ([]int64, error) {
	if mode != model.SignupRole {
		return nil, nil
	}
	if len(roleIDs) == 0 {
		return nil, fmt.Errorf("role signup mode requires at least one allowed role: %w", model.ErrInvalidConfig)
	}
	return roleIDs, nil
}
