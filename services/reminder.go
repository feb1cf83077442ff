// services/reminder.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"repairpro-backend/models"
	"repairpro-backend/utils"
)

// ReminderStore is the appointment slice the scheduler reads. The claim
// methods flip the per-horizon flag with a conditional update, which is
// what makes repeated sweeps idempotent.
type ReminderStore interface {
	DueDailyReminders(ctx context.Context, date time.Time) ([]models.Appointment, error)
	DueHourlyReminders(ctx context.Context, date time.Time) ([]models.Appointment, error)
	ClaimReminder24h(ctx context.Context, id uuid.UUID) (bool, error)
	ClaimReminder1h(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReminderService periodically sweeps for appointments crossing the 24h
// and 1h horizons and sends each reminder exactly once.
type ReminderService struct {
	store    ReminderStore
	notifier Notifier
	loc      *time.Location
	interval string
	now      func() time.Time
	cron     *cron.Cron
	log      *zap.Logger
}

func NewReminderService(store ReminderStore, notifier Notifier, loc *time.Location, interval string) *ReminderService {
	return &ReminderService{
		store:    store,
		notifier: notifier,
		loc:      loc,
		interval: interval,
		now:      time.Now,
		log:      utils.GetLogger(),
	}
}

func (s *ReminderService) Start() {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc("@every "+s.interval, s.RunSweep); err != nil {
		s.log.Error("failed to schedule reminder sweep", zap.Error(err))
		return
	}
	s.cron.Start()
	s.log.Info("reminder scheduler started", zap.String("interval", s.interval))
}

func (s *ReminderService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunSweep executes both horizon passes. The passes are independent; a
// failure in one is logged and never aborts the other; the sweep just
// retries on its next tick.
func (s *ReminderService) RunSweep() {
	ctx := context.Background()
	s.sweepDaily(ctx)
	s.sweepHourly(ctx)
}

// sweepDaily reminds about tomorrow's confirmed and still-pending
// appointments.
func (s *ReminderService) sweepDaily(ctx context.Context) {
	tomorrow := utils.BeginningOfDay(s.now().In(s.loc)).AddDate(0, 0, 1)
	due, err := s.store.DueDailyReminders(ctx, tomorrow)
	if err != nil {
		s.log.Error("24h reminder sweep failed", zap.Error(err))
		return
	}

	for _, appt := range due {
		claimed, err := s.store.ClaimReminder24h(ctx, appt.ID)
		if err != nil {
			s.log.Warn("failed to claim 24h reminder",
				zap.String("appointmentId", appt.ID.String()), zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}

		msg := fmt.Sprintf("Reminder: %q is tomorrow", appt.Title)
		if appt.StartTime != nil {
			msg += " at " + *appt.StartTime
		}
		s.notifyReminder(ctx, &appt, "Appointment tomorrow", msg+".")
	}
}

// sweepHourly reminds about appointments starting within the next 90
// minutes. The window is wider than an hour so the polling cadence
// cannot step over an appointment.
func (s *ReminderService) sweepHourly(ctx context.Context) {
	now := s.now().In(s.loc)
	due, err := s.store.DueHourlyReminders(ctx, utils.BeginningOfDay(now))
	if err != nil {
		s.log.Error("1h reminder sweep failed", zap.Error(err))
		return
	}

	for _, appt := range due {
		if appt.StartTime == nil {
			continue
		}
		startMinute, err := utils.ParseClock(*appt.StartTime)
		if err != nil {
			s.log.Warn("appointment has unparseable start time",
				zap.String("appointmentId", appt.ID.String()), zap.Error(err))
			continue
		}

		diff := startMinute - utils.MinuteOfDay(now)
		if diff <= 0 || diff > 90 {
			continue
		}

		claimed, err := s.store.ClaimReminder1h(ctx, appt.ID)
		if err != nil {
			s.log.Warn("failed to claim 1h reminder",
				zap.String("appointmentId", appt.ID.String()), zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}

		s.notifyReminder(ctx, &appt, "Appointment soon",
			fmt.Sprintf("Reminder: %q starts at %s.", appt.Title, *appt.StartTime))
	}
}

func (s *ReminderService) notifyReminder(ctx context.Context, appt *models.Appointment, title, message string) {
	id := appt.ID
	s.notifier.Notify(ctx, appt.CustomerID, NotificationInput{
		Title:       title,
		Message:     message,
		Category:    "reminder",
		RelatedID:   &id,
		RelatedType: "appointment",
		DeepLink:    "/appointments/" + id.String(),
	})
}
