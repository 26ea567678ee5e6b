package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukerupert/synar/internal/config"
	"github.com/dukerupert/synar/internal/database"
	"github.com/dukerupert/synar/internal/logging"
	"github.com/dukerupert/synar/internal/scheduler"
	"github.com/dukerupert/synar/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	scheduleStore := store.NewScheduleStore(db)
	eventStore := store.NewEventStore(db)

	// The chat adapter registers the real notifier; standalone, materialized
	// events are just logged.
	notifier := scheduler.NotifierFunc(func(m scheduler.Materialization) error {
		logger.Info("event materialized",
			"event_id", m.Event.ID,
			"schedule_id", m.Event.ScheduleID,
			"channel_id", m.Event.ChannelID,
			"title", m.Event.Title,
			"timestamp", m.Event.Timestamp,
		)
		return nil
	})

	sched := scheduler.New(scheduleStore, eventStore, notifier,
		logger.With("component", "scheduler"), cfg.TickInterval)

	ctx := context.Background()
	sched.Start(ctx)
	logger.Info("synar running", "env", cfg.Env, "db", cfg.DBPath, "tick", cfg.TickInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	sched.Stop()
}
