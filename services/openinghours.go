// services/openinghours.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"repairpro-backend/models"
	"repairpro-backend/utils"
)

// CalendarSource is the slice of the calendar store the resolver needs.
type CalendarSource interface {
	DayScheduleFor(ctx context.Context, dayOfWeek int, season models.Season) (models.DaySchedule, bool, error)
	HolidayFor(ctx context.Context, year, month, day int) (*models.Holiday, error)
}

// DefaultKey addresses one row of the fallback template table.
type DefaultKey struct {
	DayOfWeek int
	Season    models.Season
}

// DefaultWeek is the injected fallback table consulted when no persisted
// template row exists or the lookup fails. The business must always be
// able to answer "are we open".
type DefaultWeek map[DefaultKey]models.DaySchedule

// BuiltinDefaultWeek returns the shop's stock opening hours: weekdays
// split around the lunch break, Saturday mornings outside winter,
// shorter continuous winter days.
func BuiltinDefaultWeek() DefaultWeek {
	week := DefaultWeek{}
	standard := models.Periods{{Open: "08:00", Close: "13:00"}, {Open: "14:00", Close: "18:00"}}
	winter := models.Periods{{Open: "09:00", Close: "16:00"}}

	for day := 1; day <= 5; day++ {
		week[DefaultKey{day, models.SeasonStandard}] = models.DaySchedule{DayOfWeek: day, Season: models.SeasonStandard, Periods: standard}
		week[DefaultKey{day, models.SeasonWinter}] = models.DaySchedule{DayOfWeek: day, Season: models.SeasonWinter, Periods: winter}
	}
	week[DefaultKey{6, models.SeasonStandard}] = models.DaySchedule{DayOfWeek: 6, Season: models.SeasonStandard, Periods: models.Periods{{Open: "09:00", Close: "13:00"}}}
	week[DefaultKey{6, models.SeasonWinter}] = models.DaySchedule{DayOfWeek: 6, Season: models.SeasonWinter, IsClosed: true}
	week[DefaultKey{0, models.SeasonStandard}] = models.DaySchedule{DayOfWeek: 0, Season: models.SeasonStandard, IsClosed: true}
	week[DefaultKey{0, models.SeasonWinter}] = models.DaySchedule{DayOfWeek: 0, Season: models.SeasonWinter, IsClosed: true}
	return week
}

// SeasonFor derives the season from a calendar date: winter runs from
// November 1 through February 1 inclusive.
func SeasonFor(date time.Time) models.Season {
	switch date.Month() {
	case time.November, time.December, time.January:
		return models.SeasonWinter
	case time.February:
		if date.Day() == 1 {
			return models.SeasonWinter
		}
	}
	return models.SeasonStandard
}

// IsWeekday reports Monday through Friday. Customer-facing bookings are
// restricted to weekdays regardless of Saturday opening hours.
func IsWeekday(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// DayResolution is the effective schedule for one date after holiday
// overrides are applied.
type DayResolution struct {
	IsClosed    bool           `json:"isClosed"`
	Periods     models.Periods `json:"periods"`
	IsHoliday   bool           `json:"isHoliday"`
	HolidayName string         `json:"holidayName,omitempty"`
}

// OpeningStatus describes whether the shop is open at one instant.
type OpeningStatus struct {
	IsOpen        bool           `json:"isOpen"`
	CurrentPeriod *models.Period `json:"currentPeriod,omitempty"`
	NextOpen      *time.Time     `json:"nextOpen,omitempty"`
	TodayHours    models.Periods `json:"todayHours"`
	Season        models.Season  `json:"season"`
}

// CheckResult is the outcome of an opening-hours check with a
// human-readable reason on rejection.
type CheckResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type OpeningHoursService struct {
	cal      CalendarSource
	defaults DefaultWeek
	loc      *time.Location
	log      *zap.Logger
}

func NewOpeningHoursService(cal CalendarSource, defaults DefaultWeek, loc *time.Location) *OpeningHoursService {
	return &OpeningHoursService{
		cal:      cal,
		defaults: defaults,
		loc:      loc,
		log:      utils.GetLogger(),
	}
}

// Location exposes the business time zone for callers that normalize
// instants themselves.
func (s *OpeningHoursService) Location() *time.Location {
	return s.loc
}

// ResolveDay computes the effective schedule for a date. A holiday fully
// replaces the weekly template: closed outright, or open only during its
// special hours. Template lookup failures fall back to the default week
// so availability degrades instead of erroring.
func (s *OpeningHoursService) ResolveDay(ctx context.Context, date time.Time) DayResolution {
	date = date.In(s.loc)
	year, month, day := date.Date()

	holiday, err := s.cal.HolidayFor(ctx, year, int(month), day)
	if err != nil {
		s.log.Warn("holiday lookup failed, using weekly template",
			zap.String("date", date.Format(utils.DateLayout)), zap.Error(err))
	} else if holiday != nil {
		res := DayResolution{IsHoliday: true, HolidayName: holiday.Name}
		if holiday.IsClosed {
			res.IsClosed = true
		} else {
			res.Periods = holiday.SpecialHours
			res.IsClosed = len(holiday.SpecialHours) == 0
		}
		return res
	}

	season := SeasonFor(date)
	ds, found, err := s.cal.DayScheduleFor(ctx, int(date.Weekday()), season)
	if err != nil {
		s.log.Warn("day schedule lookup failed, using defaults",
			zap.Int("dayOfWeek", int(date.Weekday())), zap.Error(err))
		found = false
	}
	if !found {
		ds = s.defaults[DefaultKey{int(date.Weekday()), season}]
	}
	return DayResolution{IsClosed: ds.IsClosed || len(ds.Periods) == 0, Periods: ds.Periods}
}

// Status reports open/closed for an instant, the active period, and the
// next future opening. The close minute itself is already closed.
func (s *OpeningHoursService) Status(ctx context.Context, instant time.Time) OpeningStatus {
	local := instant.In(s.loc)
	minute := utils.MinuteOfDay(local)
	today := s.ResolveDay(ctx, local)

	status := OpeningStatus{
		TodayHours: today.Periods,
		Season:     SeasonFor(local),
	}
	if today.IsClosed {
		status.TodayHours = nil
	}

	for i := range today.Periods {
		open, close, ok := periodMinutes(today.Periods[i])
		if !ok {
			continue
		}
		if minute >= open && minute < close {
			status.IsOpen = true
			status.CurrentPeriod = &today.Periods[i]
			return status
		}
	}

	status.NextOpen = s.nextOpen(ctx, local, today, minute)
	return status
}

// nextOpen scans the rest of today, then up to seven further days, for
// the first period opening after the given instant. Days that resolve to
// no periods are skipped, never treated as errors.
func (s *OpeningHoursService) nextOpen(ctx context.Context, local time.Time, today DayResolution, minute int) *time.Time {
	if !today.IsClosed {
		best := -1
		for _, p := range today.Periods {
			open, _, ok := periodMinutes(p)
			if ok && open > minute && (best == -1 || open < best) {
				best = open
			}
		}
		if best >= 0 {
			t := utils.BeginningOfDay(local).Add(time.Duration(best) * time.Minute)
			return &t
		}
	}

	// Bounded lookahead guards against a calendar configured closed
	// every day.
	for offset := 1; offset <= 7; offset++ {
		day := utils.BeginningOfDay(local).AddDate(0, 0, offset)
		res := s.ResolveDay(ctx, day)
		if res.IsClosed || len(res.Periods) == 0 {
			continue
		}
		open, _, ok := periodMinutes(res.Periods[0])
		if !ok {
			continue
		}
		t := day.Add(time.Duration(open) * time.Minute)
		return &t
	}
	return nil
}

// WithinOpeningHours checks an "HH:MM" clock against the resolved day.
func (s *OpeningHoursService) WithinOpeningHours(ctx context.Context, date time.Time, clock string) (CheckResult, error) {
	minute, err := utils.ParseClock(clock)
	if err != nil {
		return CheckResult{}, utils.NewValidationError(err.Error())
	}

	res := s.ResolveDay(ctx, date.In(s.loc))
	if res.IsClosed {
		if res.IsHoliday {
			return CheckResult{Reason: fmt.Sprintf("Closed for %s", res.HolidayName)}, nil
		}
		return CheckResult{Reason: fmt.Sprintf("Closed on %s", date.In(s.loc).Weekday())}, nil
	}

	for _, p := range res.Periods {
		open, close, ok := periodMinutes(p)
		if !ok {
			continue
		}
		if minute >= open && minute < close {
			return CheckResult{Valid: true}, nil
		}
	}
	return CheckResult{Reason: fmt.Sprintf("Open hours: %s", formatPeriods(res.Periods))}, nil
}

func periodMinutes(p models.Period) (open, close int, ok bool) {
	open, err := utils.ParseClock(p.Open)
	if err != nil {
		return 0, 0, false
	}
	close, err = utils.ParseClock(p.Close)
	if err != nil {
		return 0, 0, false
	}
	return open, close, true
}

func formatPeriods(periods models.Periods) string {
	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		parts = append(parts, p.Open+"-"+p.Close)
	}
	return strings.Join(parts, ", ")
}
