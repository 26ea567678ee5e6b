// Package scheduler runs the periodic loop that materializes event
// occurrences from recurring schedules.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/synar/internal/model"
	"github.com/dukerupert/synar/internal/recurrence"
	"github.com/dukerupert/synar/internal/store"
)

// Materialization is the rendering context handed to the notifier for each
// newly created event: everything the adapter needs to post a signup
// message without touching storage.
type Materialization struct {
	Event        model.Event
	AllowedRoles []int64
}

// Notifier delivers a materialized event to the adapter. Delivery is
// best-effort: the event exists whether or not Notify returns an error.
type Notifier interface {
	Notify(m Materialization) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(m Materialization) error

func (f NotifierFunc) Notify(m Materialization) error { return f(m) }

// Scheduler scans active schedules on a fixed period, advances stale
// next_run_at pointers, and materializes missing occurrences. Each tick is
// sequential; a failed schedule is logged and skipped, never aborting the
// tick or the loop. Materialization is idempotent on
// (schedule_id, timestamp), so partial failures self-heal on the next tick.
type Scheduler struct {
	mu        sync.RWMutex
	schedules *store.ScheduleStore
	events    *store.EventStore
	notifier  Notifier
	logger    *slog.Logger
	interval  time.Duration
	now       func() time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a scheduler ticking every interval; zero means the default
// 60 seconds.
func New(schedules *store.ScheduleStore, events *store.EventStore, notifier Notifier, logger *slog.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Scheduler{
		schedules: schedules,
		events:    events,
		notifier:  notifier,
		logger:    logger,
		interval:  interval,
		now:       time.Now,
	}
}

// Start begins the tick loop. It runs until the context is cancelled or
// Stop is called; ticks themselves are not interruptible.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick() {
	now := s.now().UTC().Unix()

	schedules, err := s.schedules.ListActive(now)
	if err != nil {
		s.logger.Error("scheduler: list schedules", "error", err)
		return
	}

	for _, sched := range schedules {
		if err := s.processSchedule(&sched, now); err != nil {
			s.logger.Error("scheduler: process schedule", "schedule_id", sched.ID, "error", err)
		}
	}
}

func (s *Scheduler) processSchedule(sched *model.Schedule, now int64) error {
	step, err := recurrence.StepSeconds(sched.Frequency, sched.Interval)
	if err != nil {
		return err
	}

	// Advance the pointer first. If the insert below fails, the pointer
	// names a future occurrence no event exists for yet, and the next
	// tick's idempotence check materializes it.
	nextRun := recurrence.AdvanceToPresent(sched.NextRunAt, now, step)
	if nextRun != sched.NextRunAt {
		if err := s.schedules.UpdateNextRunAt(sched.ID, nextRun); err != nil {
			return err
		}
	}

	// The schedule consumed its window this tick without a final event;
	// trailing partial periods are dropped, not truncated and fired.
	if !recurrence.WithinWindow(nextRun, sched.EndDate) {
		return nil
	}

	exists, err := s.events.ExistsForOccurrence(sched.ID, nextRun)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	mode := sched.SignupMode
	if mode == "" {
		mode = model.SignupOpen
	}

	var roleIDs []int64
	if mode == model.SignupRole {
		if roleIDs, err = s.schedules.AllowedRoles(sched.ID); err != nil {
			return err
		}
	}

	event, err := s.events.Create(&model.Event{
		ScheduleID: &sched.ID,
		GuildID:    sched.GuildID,
		ChannelID:  sched.ChannelID,
		CreatorID:  sched.CreatorID,
		Title:      sched.Title,
		Category:   sched.Category,
		SignupMode: mode,
		MaxSlots:   sched.Category.MaxSlots(),
		Timestamp:  nextRun,
		CreatedAt:  now,
	}, roleIDs)
	if err != nil {
		return err
	}

	s.logger.Info("scheduler: materialized event",
		"event_id", event.ID, "schedule_id", sched.ID, "timestamp", event.Timestamp)

	if s.notifier != nil {
		if err := s.notifier.Notify(Materialization{Event: *event, AllowedRoles: roleIDs}); err != nil {
			// The event is already committed; delivery is best-effort.
			s.logger.Error("scheduler: notify", "event_id", event.ID, "error", err)
		}
	}
	return nil
}
