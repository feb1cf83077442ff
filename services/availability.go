// services/availability.go
package services

import (
	"context"
	"time"

	"repairpro-backend/utils"
)

// AvailabilityService validates a candidate booking slot against the
// opening-hours calendar and the weekday-only customer rule. Each check
// fails with its own error code so the caller knows which constraint
// was violated.
type AvailabilityService struct {
	hours *OpeningHoursService
	now   func() time.Time
}

func NewAvailabilityService(hours *OpeningHoursService) *AvailabilityService {
	return &AvailabilityService{hours: hours, now: time.Now}
}

// ValidateBooking accepts or rejects a date plus start (and optional
// end) time. Staff actors may book weekends; customers may not.
func (s *AvailabilityService) ValidateBooking(ctx context.Context, date time.Time, startTime string, endTime *string, isStaff bool) error {
	date = date.In(s.hours.Location())

	if !isStaff && !IsWeekday(date) {
		return utils.NewConstraintError(utils.CodeWeekdayOnly,
			"Appointments can only be booked Monday through Friday")
	}

	check, err := s.hours.WithinOpeningHours(ctx, date, startTime)
	if err != nil {
		return err
	}
	if !check.Valid {
		return utils.NewConstraintError(utils.CodeOutsideHours,
			"Start time is outside opening hours: "+check.Reason)
	}

	if endTime != nil && *endTime != "" {
		endCheck, err := s.hours.WithinOpeningHours(ctx, date, *endTime)
		if err != nil {
			return err
		}
		if !endCheck.Valid {
			return utils.NewConstraintError(utils.CodeEndOutsideHours,
				"End time is outside opening hours: "+endCheck.Reason)
		}
	}

	startMinute, err := utils.ParseClock(startTime)
	if err != nil {
		return utils.NewValidationError(err.Error())
	}
	slot := utils.BeginningOfDay(date).Add(time.Duration(startMinute) * time.Minute)
	if slot.Before(s.now()) {
		return utils.NewConstraintError(utils.CodeDateInPast,
			"Appointment time is in the past")
	}

	return nil
}
