package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"repairpro-backend/models"
)

func TestBuildICalendar(t *testing.T) {
	day := date(2026, time.February, 16)
	start := "10:00"
	appt := &models.Appointment{
		ID:        uuid.MustParse("3d6f0f8a-51d1-4f2b-9b1e-0a8f6f0a2b11"),
		Title:     "Brake service, front & rear",
		Date:      &day,
		StartTime: &start,
		Status:    models.StatusConfirmed,
	}

	ics, err := BuildICalendar(appt, time.UTC)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:3d6f0f8a-51d1-4f2b-9b1e-0a8f6f0a2b11@repairpro",
		"DTSTART;TZID=UTC:20260216T100000",
		// no end time: one hour default
		"DTEND;TZID=UTC:20260216T110000",
		"SUMMARY:Brake service\\, front & rear",
		"STATUS:CONFIRMED",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("missing %q in:\n%s", want, ics)
		}
	}

	if !strings.Contains(ics, "\r\n") {
		t.Error("iCalendar lines must be CRLF-terminated")
	}
}

func TestBuildICalendarExplicitEndAndTentative(t *testing.T) {
	day := date(2026, time.February, 16)
	start, end := "10:00", "12:30"
	appt := &models.Appointment{
		ID:        uuid.New(),
		Title:     "Inspection",
		Date:      &day,
		StartTime: &start,
		EndTime:   &end,
		Status:    models.StatusPending,
	}

	ics, err := BuildICalendar(appt, time.UTC)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(ics, "DTEND;TZID=UTC:20260216T123000") {
		t.Errorf("explicit end time not honored:\n%s", ics)
	}
	if !strings.Contains(ics, "STATUS:TENTATIVE") {
		t.Error("non-confirmed appointments export as TENTATIVE")
	}
}

func TestBuildICalendarRequiresSchedule(t *testing.T) {
	appt := &models.Appointment{ID: uuid.New(), Title: "Open request", Status: models.StatusPending}
	if _, err := BuildICalendar(appt, time.UTC); err == nil {
		t.Error("an unscheduled appointment has no calendar representation")
	}
}
