// services/ical.go
package services

import (
	"fmt"
	"strings"
	"time"

	"repairpro-backend/models"
	"repairpro-backend/utils"
)

const icalDomain = "repairpro"

// BuildICalendar renders a scheduled appointment as an iCalendar
// document. DTSTART/DTEND are expressed in the business's local time
// zone; without an end time the event defaults to one hour.
func BuildICalendar(appt *models.Appointment, loc *time.Location) (string, error) {
	if appt.Date == nil || appt.StartTime == nil {
		return "", utils.NewValidationError("Appointment has no scheduled date and time")
	}

	startMinute, err := utils.ParseClock(*appt.StartTime)
	if err != nil {
		return "", utils.NewValidationError(err.Error())
	}
	start := utils.BeginningOfDay(appt.Date.In(loc)).Add(time.Duration(startMinute) * time.Minute)

	end := start.Add(time.Hour)
	if appt.EndTime != nil && *appt.EndTime != "" {
		endMinute, err := utils.ParseClock(*appt.EndTime)
		if err != nil {
			return "", utils.NewValidationError(err.Error())
		}
		end = utils.BeginningOfDay(appt.Date.In(loc)).Add(time.Duration(endMinute) * time.Minute)
	}

	status := "TENTATIVE"
	if appt.Status == models.StatusConfirmed || appt.Status == models.StatusCompleted {
		status = "CONFIRMED"
	}

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//RepairPro//Appointments//EN")
	writeLine("BEGIN:VEVENT")
	writeLine(fmt.Sprintf("UID:%s@%s", appt.ID, icalDomain))
	writeLine("DTSTAMP:" + time.Now().UTC().Format("20060102T150405Z"))
	writeLine(fmt.Sprintf("DTSTART;TZID=%s:%s", loc.String(), start.Format("20060102T150405")))
	writeLine(fmt.Sprintf("DTEND;TZID=%s:%s", loc.String(), end.Format("20060102T150405")))
	writeLine("SUMMARY:" + escapeICalText(appt.Title))
	if appt.Description != "" {
		writeLine("DESCRIPTION:" + escapeICalText(appt.Description))
	}
	writeLine("STATUS:" + status)
	writeLine("END:VEVENT")
	writeLine("END:VCALENDAR")

	return b.String(), nil
}

func escapeICalText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
