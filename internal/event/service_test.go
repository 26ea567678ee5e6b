package event

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/synar/internal/database"
	"github.com/dukerupert/synar/internal/model"
	"github.com/dukerupert/synar/internal/store"
)

var testNow = time.Unix(1756728000, 0).UTC()

func newTestService(t *testing.T) (*Service, *store.SignupStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	events := store.NewEventStore(db)
	signups := store.NewSignupStore(db)
	svc := NewService(events, signups)
	svc.now = func() time.Time { return testNow }
	return svc, signups
}

func baseParams() CreateParams {
	return CreateParams{
		GuildID:    100,
		ChannelID:  200,
		CreatorID:  300,
		Title:      "Raid night",
		Category:   "Raids",
		Timestamp:  testNow.Unix() + 86400,
		SignupMode: "Open",
	}
}

func TestCreateDerivesCapacity(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		category string
		want     int
	}{
		{"Raids", 10},
		{"Dungeons", 5},
		{"Fractals", 5},
		{"Other", 50},
	}
	for _, tt := range tests {
		p := baseParams()
		p.Category = tt.category
		event, err := svc.Create(p)
		if err != nil {
			t.Fatalf("create %s event: %v", tt.category, err)
		}
		if event.MaxSlots != tt.want {
			t.Errorf("%s max_slots = %d, want %d", tt.category, event.MaxSlots, tt.want)
		}
		if event.ScheduleID != nil {
			t.Errorf("%s event should be standalone", tt.category)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	p := baseParams()
	p.Category = "Strikes"
	if _, err := svc.Create(p); !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("unknown category: err = %v, want ErrInvalidConfig", err)
	}

	p = baseParams()
	p.Timestamp = 900000000
	if _, err := svc.Create(p); !errors.Is(err, model.ErrInvalidTimestamp) {
		t.Errorf("pre-2000 timestamp: err = %v, want ErrInvalidTimestamp", err)
	}

	p = baseParams()
	p.Timestamp = testNow.Unix() + 11*365*24*3600
	if _, err := svc.Create(p); !errors.Is(err, model.ErrInvalidTimestamp) {
		t.Errorf("far-future timestamp: err = %v, want ErrInvalidTimestamp", err)
	}

	p = baseParams()
	p.SignupMode = "Role"
	if _, err := svc.Create(p); !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("role mode without roles: err = %v, want ErrInvalidConfig", err)
	}
}

func TestCreateDefaultsSignupModeOpen(t *testing.T) {
	svc, _ := newTestService(t)

	p := baseParams()
	p.SignupMode = ""
	event, err := svc.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if event.SignupMode != model.SignupOpen {
		t.Errorf("signup_mode = %q, want open default", event.SignupMode)
	}
}

func TestDeleteAuthorization(t *testing.T) {
	svc, _ := newTestService(t)

	event, err := svc.Create(baseParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(event.ID, 999, false); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("non-creator delete: err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(12345, 300, false); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing event: err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(event.ID, 300, false); err != nil {
		t.Fatalf("creator delete: %v", err)
	}
	if _, err := svc.Snapshot(event.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("snapshot of deleted event: err = %v, want ErrNotFound", err)
	}

	// Privileged callers may delete events they did not create.
	event2, err := svc.Create(baseParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(event2.ID, 999, true); err != nil {
		t.Fatalf("privileged delete: %v", err)
	}
}

func TestSnapshotGroupsSignups(t *testing.T) {
	svc, signups := newTestService(t)

	p := baseParams()
	p.SignupMode = "Role"
	p.AllowedRoleIDs = []int64{11, 22}
	event, err := svc.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	signups.Upsert(event.ID, 501, model.StatusAvailable, 1704000100)
	signups.Upsert(event.ID, 502, model.StatusAvailable, 1704000200)
	signups.Upsert(event.ID, 503, model.StatusUnavailable, 1704000300)
	signups.Upsert(event.ID, 504, model.StatusMaybe, 1704000400)

	snap, err := svc.Snapshot(event.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Event.ID != event.ID {
		t.Errorf("snapshot event id = %d, want %d", snap.Event.ID, event.ID)
	}
	if len(snap.AllowedRoles) != 2 {
		t.Errorf("allowed roles = %v, want 2 entries", snap.AllowedRoles)
	}
	if snap.AvailableCount() != 2 {
		t.Errorf("available = %d, want 2", snap.AvailableCount())
	}
	if len(snap.Unavailable) != 1 || len(snap.Maybe) != 1 {
		t.Errorf("unavailable/maybe = %d/%d, want 1/1", len(snap.Unavailable), len(snap.Maybe))
	}
}

func TestListUpcoming(t *testing.T) {
	svc, _ := newTestService(t)

	past := baseParams()
	past.Timestamp = testNow.Unix() - 86400
	if _, err := svc.Create(past); err != nil {
		t.Fatalf("create past event: %v", err)
	}
	future := baseParams()
	future.Timestamp = testNow.Unix() + 86400
	created, err := svc.Create(future)
	if err != nil {
		t.Fatalf("create future event: %v", err)
	}

	upcoming, err := svc.ListUpcoming()
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != created.ID {
		t.Errorf("upcoming = %v, want only the future event", upcoming)
	}
}
