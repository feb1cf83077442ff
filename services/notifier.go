// services/notifier.go
package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"repairpro-backend/models"
	"repairpro-backend/utils"
)

// NotificationInput carries everything a transition knows about the
// message. RelatedID/RelatedType let clients deep-link to the entity.
type NotificationInput struct {
	Title       string
	Message     string
	Category    string
	RelatedID   *uuid.UUID
	RelatedType string
	DeepLink    string
}

// Notifier persists a notification and pushes it best effort. It never
// reports failure to the caller: a lost notification must not roll back
// or fail a state transition.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, input NotificationInput)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// SMSSender is the push channel. Twilio in production.
type SMSSender interface {
	Send(to, body string) error
}

type DefaultNotifier struct {
	store NotificationStore
	users UserDirectory
	sms   SMSSender
	log   *zap.Logger
}

func NewDefaultNotifier(store NotificationStore, users UserDirectory, sms SMSSender) *DefaultNotifier {
	return &DefaultNotifier{store: store, users: users, sms: sms, log: utils.GetLogger()}
}

// Notify dispatches in the background. Callers must never wait on the
// push channel, and delivery outlives the request context.
func (n *DefaultNotifier) Notify(_ context.Context, userID uuid.UUID, input NotificationInput) {
	go n.deliver(context.Background(), userID, input)
}

func (n *DefaultNotifier) deliver(ctx context.Context, userID uuid.UUID, input NotificationInput) {
	record := &models.Notification{
		UserID:      userID,
		Title:       input.Title,
		Message:     input.Message,
		Category:    input.Category,
		RelatedID:   input.RelatedID,
		RelatedType: input.RelatedType,
		DeepLink:    input.DeepLink,
		PushStatus:  "skipped",
	}

	user, err := n.users.FindByID(ctx, userID)
	switch {
	case err != nil:
		n.log.Warn("notification recipient lookup failed",
			zap.String("userId", userID.String()), zap.Error(err))
	case user.Phone != "":
		if err := n.sms.Send(user.Phone, input.Title+": "+input.Message); err != nil {
			record.PushStatus = "failed"
			record.PushError = err.Error()
			n.log.Warn("push delivery failed",
				zap.String("userId", userID.String()), zap.Error(err))
		} else {
			record.PushStatus = "sent"
		}
	}

	if err := n.store.Create(ctx, record); err != nil {
		n.log.Error("failed to persist notification",
			zap.String("userId", userID.String()), zap.Error(err))
	}
}
