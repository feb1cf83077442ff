package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"repairpro-backend/models"
	"repairpro-backend/repository"
	"repairpro-backend/utils"
)

// fakeCalendar is an in-memory CalendarSource.
type fakeCalendar struct {
	schedules   map[DefaultKey]models.DaySchedule
	holidays    []models.Holiday
	scheduleErr error
	holidayErr  error
}

func (f *fakeCalendar) DayScheduleFor(ctx context.Context, dayOfWeek int, season models.Season) (models.DaySchedule, bool, error) {
	if f.scheduleErr != nil {
		return models.DaySchedule{}, false, f.scheduleErr
	}
	ds, ok := f.schedules[DefaultKey{dayOfWeek, season}]
	return ds, ok, nil
}

func (f *fakeCalendar) HolidayFor(ctx context.Context, year, month, day int) (*models.Holiday, error) {
	if f.holidayErr != nil {
		return nil, f.holidayErr
	}
	for i := range f.holidays {
		h := f.holidays[i]
		if h.Date != nil {
			y, m, d := h.Date.Date()
			if y == year && int(m) == month && d == day {
				return &h, nil
			}
		}
	}
	for i := range f.holidays {
		h := f.holidays[i]
		if h.IsRecurring && h.Month == month && h.Day == day {
			return &h, nil
		}
	}
	return nil, nil
}

// fakeStore is an in-memory AppointmentStore and ReminderStore.
type fakeStore struct {
	appts map[uuid.UUID]*models.Appointment
}

func newFakeStore() *fakeStore {
	return &fakeStore{appts: map[uuid.UUID]*models.Appointment{}}
}

func clone(a *models.Appointment) *models.Appointment {
	cp := *a
	return &cp
}

func (f *fakeStore) put(a *models.Appointment) *models.Appointment {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.appts[a.ID] = clone(a)
	return f.appts[a.ID]
}

func (f *fakeStore) Create(ctx context.Context, appt *models.Appointment) error {
	f.put(appt)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(a), nil
}

func (f *fakeStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.CustomerID != customerID {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, a.Status) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) ListByStatuses(ctx context.Context, statuses []string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if contains(statuses, a.Status) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListUnregistered(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Status == models.StatusConfirmed && a.RegisteredBy == nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateGuarded(ctx context.Context, appt *models.Appointment, expectStatus string) (bool, error) {
	current, ok := f.appts[appt.ID]
	if !ok || current.Status != expectStatus {
		return false, nil
	}
	f.appts[appt.ID] = clone(appt)
	return true, nil
}

func (f *fakeStore) ClaimRegistration(ctx context.Context, id, staffID uuid.UUID, at time.Time) (bool, error) {
	a, ok := f.appts[id]
	if !ok || a.Status != models.StatusConfirmed || a.RegisteredBy != nil {
		return false, nil
	}
	staff, when := staffID, at
	a.RegisteredBy = &staff
	a.RegisteredAt = &when
	return true, nil
}

func (f *fakeStore) DueDailyReminders(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Date == nil || a.ReminderSent24h {
			continue
		}
		if a.Status != models.StatusConfirmed && a.Status != models.StatusPending {
			continue
		}
		if utils.SameDate(*a.Date, date) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) DueHourlyReminders(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Date == nil || a.StartTime == nil || a.ReminderSent1h {
			continue
		}
		if utils.SameDate(*a.Date, date) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ClaimReminder24h(ctx context.Context, id uuid.UUID) (bool, error) {
	a, ok := f.appts[id]
	if !ok || a.ReminderSent24h {
		return false, nil
	}
	a.ReminderSent24h = true
	return true, nil
}

func (f *fakeStore) ClaimReminder1h(ctx context.Context, id uuid.UUID) (bool, error) {
	a, ok := f.appts[id]
	if !ok || a.ReminderSent1h {
		return false, nil
	}
	a.ReminderSent1h = true
	return true, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// fakeNotifier records every notification synchronously.
type notice struct {
	UserID  uuid.UUID
	Title   string
	Message string
}

type fakeNotifier struct {
	sent []notice
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, input NotificationInput) {
	f.sent = append(f.sent, notice{UserID: userID, Title: input.Title, Message: input.Message})
}

func (f *fakeNotifier) sentTo(userID uuid.UUID) int {
	n := 0
	for _, s := range f.sent {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

// fakeUsers is an in-memory UserDirectory.
type fakeUsers struct {
	users map[uuid.UUID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByRole(ctx context.Context, roles ...string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if contains(roles, u.Role) {
			out = append(out, *u)
		}
	}
	return out, nil
}
