package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"repairpro-backend/models"
)

type AppointmentRepo struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *AppointmentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []string) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var appts []models.Appointment
	err := q.Order("created_at DESC").Find(&appts).Error
	return appts, err
}

func (r *AppointmentRepo) ListByStatuses(ctx context.Context, statuses []string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("date ASC NULLS LAST, created_at ASC").
		Find(&appts).Error
	return appts, err
}

// ListUnregistered returns confirmed appointments operations has not yet
// entered into the operational calendar.
func (r *AppointmentRepo) ListUnregistered(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND registered_by IS NULL", models.StatusConfirmed).
		Order("date ASC NULLS LAST, created_at ASC").
		Find(&appts).Error
	return appts, err
}

// UpdateGuarded writes all fields of appt but only while the stored row
// still carries expectStatus. Returns false when a concurrent transition
// got there first.
func (r *AppointmentRepo) UpdateGuarded(ctx context.Context, appt *models.Appointment, expectStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appt.ID, expectStatus).
		Select("*").
		Omit("id", "created_at").
		Updates(appt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClaimRegistration marks an appointment as entered into the operational
// calendar. Conditional on the row still being confirmed and unregistered,
// so two staff registering at once cannot both win.
func (r *AppointmentRepo) ClaimRegistration(ctx context.Context, id, staffID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ? AND registered_by IS NULL", id, models.StatusConfirmed).
		Updates(map[string]interface{}{
			"registered_by": staffID,
			"registered_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DueDailyReminders returns appointments on the given business-local
// date, confirmed or pending, whose 24h reminder has not gone out.
func (r *AppointmentRepo) DueDailyReminders(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("date = ? AND status IN ? AND reminder_sent_24h = false",
			date.Format("2006-01-02"),
			[]string{models.StatusConfirmed, models.StatusPending}).
		Find(&appts).Error
	return appts, err
}

// DueHourlyReminders returns appointments on the given date with a start
// time whose 1h reminder has not gone out.
func (r *AppointmentRepo) DueHourlyReminders(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("date = ? AND start_time IS NOT NULL AND reminder_sent_1h = false", date.Format("2006-01-02")).
		Find(&appts).Error
	return appts, err
}

// ClaimReminder24h flips the 24h flag with a conditional update so two
// scheduler instances cannot both send. True means this caller won.
func (r *AppointmentRepo) ClaimReminder24h(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.claim(ctx, id, "reminder_sent_24h")
}

func (r *AppointmentRepo) ClaimReminder1h(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.claim(ctx, id, "reminder_sent_1h")
}

func (r *AppointmentRepo) claim(ctx context.Context, id uuid.UUID, column string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND "+column+" = false", id).
		Update(column, true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
