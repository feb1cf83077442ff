package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"repairpro-backend/models"
)

type CalendarRepo struct {
	db *gorm.DB
}

func NewCalendarRepo(db *gorm.DB) *CalendarRepo {
	return &CalendarRepo{db: db}
}

// DayScheduleFor returns the persisted template row for the key, or
// found=false when staff has not configured one.
func (r *CalendarRepo) DayScheduleFor(ctx context.Context, dayOfWeek int, season models.Season) (models.DaySchedule, bool, error) {
	var ds models.DaySchedule
	err := r.db.WithContext(ctx).
		Where("day_of_week = ? AND season = ?", dayOfWeek, season).
		First(&ds).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DaySchedule{}, false, nil
		}
		return models.DaySchedule{}, false, err
	}
	return ds, true, nil
}

// HolidayFor matches an exact-date holiday first, then any recurring
// holiday on the same month-day.
func (r *CalendarRepo) HolidayFor(ctx context.Context, year, month, day int) (*models.Holiday, error) {
	var h models.Holiday
	err := r.db.WithContext(ctx).
		Where("date = make_date(?, ?, ?)", year, month, day).
		First(&h).Error
	if err == nil {
		return &h, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("is_recurring = true AND month = ? AND day = ?", month, day).
		First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

func (r *CalendarRepo) UpsertDaySchedule(ctx context.Context, ds *models.DaySchedule) error {
	var existing models.DaySchedule
	err := r.db.WithContext(ctx).
		Where("day_of_week = ? AND season = ?", ds.DayOfWeek, ds.Season).
		First(&existing).Error
	if err == nil {
		existing.IsClosed = ds.IsClosed
		existing.Periods = ds.Periods
		*ds = existing
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(ds).Error
}

func (r *CalendarRepo) ListDaySchedules(ctx context.Context) ([]models.DaySchedule, error) {
	var rows []models.DaySchedule
	err := r.db.WithContext(ctx).Order("season, day_of_week").Find(&rows).Error
	return rows, err
}

func (r *CalendarRepo) CreateHoliday(ctx context.Context, h *models.Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *CalendarRepo) ListHolidays(ctx context.Context) ([]models.Holiday, error) {
	var rows []models.Holiday
	err := r.db.WithContext(ctx).Order("date ASC NULLS LAST, month, day").Find(&rows).Error
	return rows, err
}

func (r *CalendarRepo) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Holiday{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
