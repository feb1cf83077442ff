// services/appointment.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"repairpro-backend/models"
	"repairpro-backend/repository"
	"repairpro-backend/utils"
)

// AppointmentStore is the persistence surface the negotiation state
// machine needs. Every full-row write goes through UpdateGuarded, which
// re-checks the expected status at write time so concurrent transitions
// cannot lose updates; registration is claimed with its own conditional
// update.
type AppointmentStore interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []string) ([]models.Appointment, error)
	ListByStatuses(ctx context.Context, statuses []string) ([]models.Appointment, error)
	ListUnregistered(ctx context.Context) ([]models.Appointment, error)
	UpdateGuarded(ctx context.Context, appt *models.Appointment, expectStatus string) (bool, error)
	ClaimRegistration(ctx context.Context, id, staffID uuid.UUID, at time.Time) (bool, error)
}

// UserDirectory resolves recipients for notifications and role routing.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByRole(ctx context.Context, roles ...string) ([]models.User, error)
}

// AppointmentService owns the appointment lifecycle: customer request,
// staff proposal, accept/decline, confirmation, registration,
// cancellation and rescheduling.
type AppointmentService struct {
	store        AppointmentStore
	users        UserDirectory
	notifier     Notifier
	availability *AvailabilityService
	loc          *time.Location
	now          func() time.Time
	log          *zap.Logger
}

func NewAppointmentService(store AppointmentStore, users UserDirectory, notifier Notifier, availability *AvailabilityService, loc *time.Location) *AppointmentService {
	return &AppointmentService{
		store:        store,
		users:        users,
		notifier:     notifier,
		availability: availability,
		loc:          loc,
		now:          time.Now,
		log:          utils.GetLogger(),
	}
}

// staffRolesFor routes a request category to the staff roles that handle
// it. Admins always see everything.
func staffRolesFor(apptType string) []string {
	if apptType == models.TypePropertyViewing {
		return []string{models.RoleRobbyManager, models.RoleAdmin, models.RoleSuperAdmin}
	}
	return []string{models.RoleServiceManager, models.RoleAdmin, models.RoleSuperAdmin}
}

type CreateAppointmentInput struct {
	CustomerID  uuid.UUID
	Title       string
	Description string
	Type        string
	TicketID    *uuid.UUID
	Date        *string // "YYYY-MM-DD"
	StartTime   *string // "HH:MM"
	EndTime     *string
	IsStaff     bool
}

// Create makes a new pending appointment. With a date and start time the
// slot is validated first; without one it is an open request and the
// responsible staff are notified.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, utils.NewValidationError("Title is required")
	}
	apptType := in.Type
	if apptType == "" {
		apptType = models.TypeOther
	}

	appt := &models.Appointment{
		CustomerID:  in.CustomerID,
		Title:       title,
		Description: in.Description,
		Type:        apptType,
		TicketID:    in.TicketID,
		Status:      models.StatusPending,
	}

	hasDate := in.Date != nil && *in.Date != ""
	hasStart := in.StartTime != nil && *in.StartTime != ""
	if hasDate != hasStart {
		return nil, utils.NewValidationError("A booking needs both a date and a start time")
	}
	dated := hasDate && hasStart
	if dated {
		date, err := utils.ParseDate(*in.Date, s.loc)
		if err != nil {
			return nil, utils.NewValidationError(err.Error())
		}
		if err := s.availability.ValidateBooking(ctx, date, *in.StartTime, in.EndTime, in.IsStaff); err != nil {
			return nil, err
		}
		appt.Date = &date
		appt.StartTime = in.StartTime
		appt.EndTime = in.EndTime
	}

	if err := s.store.Create(ctx, appt); err != nil {
		return nil, err
	}

	if !dated {
		s.notifyStaffByRole(ctx, appt, "New appointment request",
			fmt.Sprintf("%q is waiting for a proposed date.", appt.Title))
	}
	return appt, nil
}

// Propose attaches a candidate date and a free-text note to a pending
// request. The proposal is date-only, so any time fields are cleared.
func (s *AppointmentService) Propose(ctx context.Context, id, staffID uuid.UUID, dateStr, text string) (*models.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusPending {
		return nil, utils.NewStateError("Only pending appointments can receive a proposal")
	}

	date, err := utils.ParseDate(dateStr, s.loc)
	if err != nil {
		return nil, utils.NewValidationError(err.Error())
	}
	if !IsWeekday(date) {
		return nil, utils.NewConstraintError(utils.CodeWeekdayOnly,
			"Proposed date must fall on a weekday")
	}
	if date.Before(utils.BeginningOfDay(s.now().In(s.loc))) {
		return nil, utils.NewConstraintError(utils.CodeDateInPast,
			"Proposed date is in the past")
	}

	appt.Date = &date
	appt.StartTime = nil
	appt.EndTime = nil
	appt.ProposedText = text
	appt.Status = models.StatusProposed
	if appt.AssignedStaffID == nil {
		appt.AssignedStaffID = &staffID
	}

	if err := s.transition(ctx, appt, models.StatusPending); err != nil {
		return nil, err
	}

	s.notify(ctx, appt.CustomerID, appt, "Appointment date proposed",
		fmt.Sprintf("We proposed %s for %q. Please accept or decline.", dateStr, appt.Title))
	return appt, nil
}

// RespondToProposal records the customer's answer. Accepting makes the
// date binding; declining restarts the negotiation from scratch.
func (s *AppointmentService) RespondToProposal(ctx context.Context, id, customerID uuid.UUID, accept bool, message string) (*models.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.CustomerID != customerID {
		return nil, utils.NewForbiddenError("Only the appointment owner can respond")
	}
	if appt.Status != models.StatusProposed {
		return nil, utils.NewStateError("There is no open proposal to respond to")
	}

	if accept {
		appt.Status = models.StatusConfirmed
		if message != "" {
			appt.CustomerNote = message
		}
	} else {
		appt.Status = models.StatusPending
		appt.Date = nil
		appt.StartTime = nil
		appt.EndTime = nil
		appt.ProposedText = ""
	}

	if err := s.transition(ctx, appt, models.StatusProposed); err != nil {
		return nil, err
	}

	if appt.AssignedStaffID != nil {
		if accept {
			s.notify(ctx, *appt.AssignedStaffID, appt, "Proposal accepted",
				fmt.Sprintf("The customer accepted the proposed date for %q.", appt.Title))
		} else {
			s.notify(ctx, *appt.AssignedStaffID, appt, "Proposal declined",
				fmt.Sprintf("The customer declined the proposed date for %q. %s", appt.Title, message))
		}
	}
	return appt, nil
}

// Confirm is the staff fast path: straight to confirmed from pending or
// proposed, without waiting for the customer's response.
func (s *AppointmentService) Confirm(ctx context.Context, id, staffID uuid.UUID) (*models.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusPending && appt.Status != models.StatusProposed {
		return nil, utils.NewStateError("Only pending or proposed appointments can be confirmed")
	}

	prev := appt.Status
	appt.Status = models.StatusConfirmed
	if appt.AssignedStaffID == nil {
		appt.AssignedStaffID = &staffID
	}

	if err := s.transition(ctx, appt, prev); err != nil {
		return nil, err
	}

	s.notify(ctx, appt.CustomerID, appt, "Appointment confirmed",
		fmt.Sprintf("%q has been confirmed.", appt.Title))
	return appt, nil
}

// Register marks that staff entered a confirmed appointment into the
// operational calendar. Distinct from the date being agreed, and
// allowed only once.
func (s *AppointmentService) Register(ctx context.Context, id, staffID uuid.UUID) (*models.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusConfirmed {
		return nil, utils.NewStateError("Only confirmed appointments can be registered")
	}
	if appt.RegisteredBy != nil {
		return nil, utils.NewConstraintError(utils.CodeAlreadyRegistered,
			"Appointment is already registered")
	}

	// Conditional update so two staff registering at once cannot both win.
	now := s.now()
	ok, err := s.store.ClaimRegistration(ctx, appt.ID, staffID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewConstraintError(utils.CodeAlreadyRegistered,
			"Appointment is already registered")
	}

	appt.RegisteredBy = &staffID
	appt.RegisteredAt = &now
	return appt, nil
}

// AskQuestion attaches a staff question. Side channel: usable in any
// non-terminal state, never changes status.
func (s *AppointmentService) AskQuestion(ctx context.Context, id, staffID uuid.UUID, question string) (*models.Appointment, error) {
	if strings.TrimSpace(question) == "" {
		return nil, utils.NewValidationError("Question text is required")
	}
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.IsTerminal() {
		return nil, utils.NewStateError("Appointment is closed")
	}

	now := s.now()
	appt.StaffQuestion = question
	appt.StaffQuestionAt = &now
	appt.StaffQuestionBy = &staffID

	// Status does not change, but the write is still guarded so a
	// transition committed in between is not overwritten.
	if err := s.transition(ctx, appt, appt.Status); err != nil {
		return nil, err
	}

	s.notify(ctx, appt.CustomerID, appt, "Question about your appointment", question)
	return appt, nil
}

// AnswerQuestion stores the customer's reply, overwriting the note.
func (s *AppointmentService) AnswerQuestion(ctx context.Context, id, customerID uuid.UUID, answer string) (*models.Appointment, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, utils.NewValidationError("Answer text is required")
	}
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.CustomerID != customerID {
		return nil, utils.NewForbiddenError("Only the appointment owner can answer")
	}
	if appt.IsTerminal() {
		return nil, utils.NewStateError("Appointment is closed")
	}

	appt.CustomerNote = answer
	if err := s.transition(ctx, appt, appt.Status); err != nil {
		return nil, err
	}

	recipient := appt.StaffQuestionBy
	if recipient == nil {
		recipient = appt.AssignedStaffID
	}
	if recipient != nil {
		s.notify(ctx, *recipient, appt, "Customer replied", answer)
	}
	return appt, nil
}

type RescheduleInput struct {
	Date      string
	StartTime string
	EndTime   *string
	IsStaff   bool
}

// Reschedule closes the current record and spawns a fresh pending one
// pointing back at it. The old record's date is never touched, so the
// history stays inspectable.
func (s *AppointmentService) Reschedule(ctx context.Context, id, customerID uuid.UUID, in RescheduleInput) (*models.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.CustomerID != customerID {
		return nil, utils.NewForbiddenError("Only the appointment owner can reschedule")
	}
	if appt.Status == models.StatusCancelled {
		return nil, utils.NewStateError("Cancelled appointments cannot be rescheduled")
	}

	date, err := utils.ParseDate(in.Date, s.loc)
	if err != nil {
		return nil, utils.NewValidationError(err.Error())
	}
	if err := s.availability.ValidateBooking(ctx, date, in.StartTime, in.EndTime, in.IsStaff); err != nil {
		return nil, err
	}

	prev := appt.Status
	appt.Status = models.StatusRescheduled
	if err := s.transition(ctx, appt, prev); err != nil {
		return nil, err
	}

	start := in.StartTime
	replacement := &models.Appointment{
		CustomerID:      appt.CustomerID,
		AssignedStaffID: appt.AssignedStaffID,
		TicketID:        appt.TicketID,
		Title:           appt.Title,
		Description:     appt.Description,
		Type:            appt.Type,
		Date:            &date,
		StartTime:       &start,
		EndTime:         in.EndTime,
		Status:          models.StatusPending,
		RescheduledFrom: &appt.ID,
	}
	if err := s.store.Create(ctx, replacement); err != nil {
		return nil, err
	}

	if replacement.AssignedStaffID != nil {
		s.notify(ctx, *replacement.AssignedStaffID, replacement, "Appointment rescheduled",
			fmt.Sprintf("%q was moved to %s %s.", replacement.Title, in.Date, in.StartTime))
	}
	return replacement, nil
}

// Cancel closes the appointment with a reason.
func (s *AppointmentService) Cancel(ctx context.Context, id, customerID uuid.UUID, reason string) (*models.Appointment, error) {
	appt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.CustomerID != customerID {
		return nil, utils.NewForbiddenError("Only the appointment owner can cancel")
	}
	if appt.Status == models.StatusCancelled {
		return nil, utils.NewStateError("Appointment is already cancelled")
	}

	now := s.now()
	prev := appt.Status
	appt.Status = models.StatusCancelled
	appt.CancelReason = reason
	appt.CancelledAt = &now

	if err := s.transition(ctx, appt, prev); err != nil {
		return nil, err
	}

	if appt.AssignedStaffID != nil {
		s.notify(ctx, *appt.AssignedStaffID, appt, "Appointment cancelled",
			fmt.Sprintf("%q was cancelled. %s", appt.Title, reason))
	}
	return appt, nil
}

func (s *AppointmentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return s.get(ctx, id)
}

// Location exposes the business time zone for rendering exports.
func (s *AppointmentService) Location() *time.Location {
	return s.loc
}

func (s *AppointmentService) ListForCustomer(ctx context.Context, customerID uuid.UUID, statuses []string) ([]models.Appointment, error) {
	return s.store.ListByCustomer(ctx, customerID, statuses)
}

// ListRequests returns open customer requests awaiting staff action.
func (s *AppointmentService) ListRequests(ctx context.Context) ([]models.Appointment, error) {
	return s.store.ListByStatuses(ctx, []string{models.StatusPending})
}

// ListOngoing returns everything still moving through the negotiation.
func (s *AppointmentService) ListOngoing(ctx context.Context) ([]models.Appointment, error) {
	return s.store.ListByStatuses(ctx, []string{models.StatusPending, models.StatusProposed, models.StatusConfirmed})
}

func (s *AppointmentService) ListUnregistered(ctx context.Context) ([]models.Appointment, error) {
	return s.store.ListUnregistered(ctx)
}

func (s *AppointmentService) get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("Appointment not found")
		}
		return nil, err
	}
	return appt, nil
}

// transition writes appt while the stored row still carries expectStatus.
func (s *AppointmentService) transition(ctx context.Context, appt *models.Appointment, expectStatus string) error {
	ok, err := s.store.UpdateGuarded(ctx, appt, expectStatus)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NewStateError("Appointment was modified concurrently, please retry")
	}
	return nil
}

func (s *AppointmentService) notify(ctx context.Context, userID uuid.UUID, appt *models.Appointment, title, message string) {
	id := appt.ID
	s.notifier.Notify(ctx, userID, NotificationInput{
		Title:       title,
		Message:     message,
		Category:    "appointment",
		RelatedID:   &id,
		RelatedType: "appointment",
		DeepLink:    "/appointments/" + id.String(),
	})
}

func (s *AppointmentService) notifyStaffByRole(ctx context.Context, appt *models.Appointment, title, message string) {
	staff, err := s.users.FindByRole(ctx, staffRolesFor(appt.Type)...)
	if err != nil {
		s.log.Warn("staff lookup for notification failed",
			zap.String("appointmentId", appt.ID.String()), zap.Error(err))
		return
	}
	for _, u := range staff {
		s.notify(ctx, u.ID, appt, title, message)
	}
}
