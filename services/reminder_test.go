package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"repairpro-backend/models"
)

func newReminderFixture(now time.Time) (*ReminderService, *fakeStore, *fakeNotifier) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewReminderService(store, notifier, time.UTC, "30m")
	svc.now = func() time.Time { return now }
	return svc, store, notifier
}

func scheduled(customerID uuid.UUID, day time.Time, start string, status string) *models.Appointment {
	s := start
	a := &models.Appointment{
		ID:         uuid.New(),
		CustomerID: customerID,
		Title:      "Pick up mower",
		Type:       models.TypePickup,
		Date:       &day,
		Status:     status,
	}
	if start != "" {
		a.StartTime = &s
	}
	return a
}

func TestDailySweepNotifiesTomorrowOnce(t *testing.T) {
	now := instant(2026, time.February, 16, 10, 0)
	svc, store, notifier := newReminderFixture(now)

	customer := uuid.New()
	appt := store.put(scheduled(customer, date(2026, time.February, 17), "09:00", models.StatusConfirmed))

	svc.RunSweep()
	if notifier.sentTo(customer) != 1 {
		t.Fatalf("expected one 24h reminder, got %d", notifier.sentTo(customer))
	}
	if !store.appts[appt.ID].ReminderSent24h {
		t.Error("24h flag must be set after sending")
	}

	// repeated sweeps with no state change stay silent
	svc.RunSweep()
	svc.RunSweep()
	if notifier.sentTo(customer) != 1 {
		t.Errorf("reminder sent again on a later sweep: %d", notifier.sentTo(customer))
	}
}

func TestDailySweepIncludesPendingSkipsCancelled(t *testing.T) {
	now := instant(2026, time.February, 16, 10, 0)
	svc, store, notifier := newReminderFixture(now)

	pendingCustomer := uuid.New()
	cancelledCustomer := uuid.New()
	store.put(scheduled(pendingCustomer, date(2026, time.February, 17), "", models.StatusPending))
	store.put(scheduled(cancelledCustomer, date(2026, time.February, 17), "09:00", models.StatusCancelled))

	svc.RunSweep()
	if notifier.sentTo(pendingCustomer) != 1 {
		t.Error("pending appointments get the 24h reminder too")
	}
	if notifier.sentTo(cancelledCustomer) != 0 {
		t.Error("cancelled appointments must not be reminded")
	}
}

func TestDailySweepIgnoresOtherDays(t *testing.T) {
	now := instant(2026, time.February, 16, 10, 0)
	svc, store, notifier := newReminderFixture(now)

	customer := uuid.New()
	store.put(scheduled(customer, date(2026, time.February, 18), "09:00", models.StatusConfirmed))

	svc.RunSweep()
	if notifier.sentTo(customer) != 0 {
		t.Error("the 24h pass only covers tomorrow")
	}
}

func TestHourlySweepWindow(t *testing.T) {
	now := instant(2026, time.February, 16, 10, 0)
	today := date(2026, time.February, 16)

	cases := []struct {
		name  string
		start string
		want  int
	}{
		{"an hour out", "11:00", 1},
		{"just inside the window", "11:30", 1},
		{"beyond the window", "11:31", 0},
		{"already started", "10:00", 0},
		{"earlier today", "09:00", 0},
		{"a minute away", "10:01", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, notifier := newReminderFixture(now)
			customer := uuid.New()
			store.put(scheduled(customer, today, tc.start, models.StatusConfirmed))

			svc.RunSweep()
			if got := notifier.sentTo(customer); got != tc.want {
				t.Errorf("start %s: got %d reminders, want %d", tc.start, got, tc.want)
			}
		})
	}
}

func TestHourlySweepIdempotent(t *testing.T) {
	now := instant(2026, time.February, 16, 10, 0)
	svc, store, notifier := newReminderFixture(now)

	customer := uuid.New()
	appt := store.put(scheduled(customer, date(2026, time.February, 16), "11:00", models.StatusConfirmed))

	svc.RunSweep()
	svc.RunSweep()
	if notifier.sentTo(customer) != 1 {
		t.Errorf("expected exactly one 1h reminder, got %d", notifier.sentTo(customer))
	}
	if !store.appts[appt.ID].ReminderSent1h {
		t.Error("1h flag must be set after sending")
	}
	if store.appts[appt.ID].ReminderSent24h {
		t.Error("the 1h pass must not touch the 24h flag")
	}
}

func TestHourlySweepSkipsBadStartTime(t *testing.T) {
	now := instant(2026, time.February, 16, 10, 0)
	svc, store, notifier := newReminderFixture(now)

	good := uuid.New()
	bad := uuid.New()
	broken := scheduled(bad, date(2026, time.February, 16), "eleven", models.StatusConfirmed)
	store.put(broken)
	store.put(scheduled(good, date(2026, time.February, 16), "11:00", models.StatusConfirmed))

	// one bad record must not abort the sweep for the rest
	svc.RunSweep()
	if notifier.sentTo(good) != 1 {
		t.Error("a bad record must not block other reminders")
	}
	if notifier.sentTo(bad) != 0 {
		t.Error("unparseable start times are skipped")
	}
}
