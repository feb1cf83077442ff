package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"repairpro-backend/utils"
)

func newAvailability(now time.Time) *AvailabilityService {
	s := NewAvailabilityService(newHours(&fakeCalendar{}))
	s.now = func() time.Time { return now }
	return s
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected an AppError, got %v", err)
	}
	if appErr.Code != code {
		t.Errorf("error code = %s, want %s", appErr.Code, code)
	}
}

func TestValidateBookingAccepts(t *testing.T) {
	avail := newAvailability(instant(2026, time.February, 1, 12, 0))
	end := "11:00"

	err := avail.ValidateBooking(context.Background(), date(2026, time.February, 16), "10:00", &end, false)
	if err != nil {
		t.Fatalf("expected valid booking, got %v", err)
	}
}

func TestValidateBookingWeekendCustomer(t *testing.T) {
	avail := newAvailability(instant(2026, time.February, 1, 12, 0))

	// Saturday morning: the standard template is open, but customers
	// book weekdays only.
	err := avail.ValidateBooking(context.Background(), date(2026, time.February, 14), "10:00", nil, false)
	assertCode(t, err, utils.CodeWeekdayOnly)
}

func TestValidateBookingWeekendStaffAllowed(t *testing.T) {
	avail := newAvailability(instant(2026, time.February, 1, 12, 0))

	err := avail.ValidateBooking(context.Background(), date(2026, time.February, 14), "10:00", nil, true)
	if err != nil {
		t.Fatalf("staff should be able to book a Saturday, got %v", err)
	}
}

func TestValidateBookingOutsideHours(t *testing.T) {
	avail := newAvailability(instant(2026, time.February, 1, 12, 0))

	err := avail.ValidateBooking(context.Background(), date(2026, time.February, 16), "13:30", nil, false)
	assertCode(t, err, utils.CodeOutsideHours)
}

func TestValidateBookingEndOutsideHours(t *testing.T) {
	avail := newAvailability(instant(2026, time.February, 1, 12, 0))
	end := "13:30"

	// Start is fine; only the end falls in the gap. The error code must
	// distinguish the two cases.
	err := avail.ValidateBooking(context.Background(), date(2026, time.February, 16), "12:00", &end, false)
	assertCode(t, err, utils.CodeEndOutsideHours)
}

func TestValidateBookingInPast(t *testing.T) {
	avail := newAvailability(instant(2026, time.February, 17, 12, 0))

	err := avail.ValidateBooking(context.Background(), date(2026, time.February, 16), "10:00", nil, false)
	assertCode(t, err, utils.CodeDateInPast)
}

func TestValidateBookingSameDayLaterIsFine(t *testing.T) {
	avail := newAvailability(instant(2026, time.February, 16, 9, 0))

	err := avail.ValidateBooking(context.Background(), date(2026, time.February, 16), "10:00", nil, false)
	if err != nil {
		t.Fatalf("later today should be bookable, got %v", err)
	}
}

func TestValidateBookingMalformedTime(t *testing.T) {
	avail := newAvailability(instant(2026, time.February, 1, 12, 0))

	err := avail.ValidateBooking(context.Background(), date(2026, time.February, 16), "ten o'clock", nil, false)
	assertCode(t, err, utils.CodeValidation)
}
