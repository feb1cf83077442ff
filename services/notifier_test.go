package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"repairpro-backend/models"
)

// recordingNotificationStore signals on done after each persisted row so
// tests can wait for the background delivery to finish.
type recordingNotificationStore struct {
	mu      sync.Mutex
	created []models.Notification
	done    chan struct{}
}

func (s *recordingNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	s.created = append(s.created, *n)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func (s *recordingNotificationStore) last(t *testing.T) models.Notification {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never persisted")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created[len(s.created)-1]
}

// blockingSMS holds every send until release is closed.
type blockingSMS struct {
	release chan struct{}
}

func (s *blockingSMS) Send(to, body string) error {
	<-s.release
	return nil
}

type failingSMS struct{}

func (failingSMS) Send(to, body string) error { return errors.New("twilio unavailable") }

func TestNotifyDoesNotBlockTheCaller(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Kari", Phone: "+4740000000"}
	store := &recordingNotificationStore{done: make(chan struct{}, 1)}
	sms := &blockingSMS{release: make(chan struct{})}
	n := NewDefaultNotifier(store, newFakeUsers(user), sms)

	// Returns while the send is still held; a synchronous dispatch
	// would hang here.
	n.Notify(context.Background(), user.ID, NotificationInput{
		Title: "Appointment tomorrow", Message: "Brake service at 10:00",
	})

	close(sms.release)
	rec := store.last(t)
	if rec.PushStatus != "sent" {
		t.Errorf("push status = %q, want sent", rec.PushStatus)
	}
	if rec.UserID != user.ID {
		t.Errorf("recipient = %s, want %s", rec.UserID, user.ID)
	}
}

func TestNotifyRecordsFailedPush(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Kari", Phone: "+4740000000"}
	store := &recordingNotificationStore{done: make(chan struct{}, 1)}
	n := NewDefaultNotifier(store, newFakeUsers(user), failingSMS{})

	n.Notify(context.Background(), user.ID, NotificationInput{Title: "Reminder", Message: "soon"})

	rec := store.last(t)
	if rec.PushStatus != "failed" || rec.PushError == "" {
		t.Errorf("failed push must be recorded, got status=%q error=%q", rec.PushStatus, rec.PushError)
	}
}

func TestNotifySkipsPushWithoutPhone(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Kari"}
	store := &recordingNotificationStore{done: make(chan struct{}, 1)}
	n := NewDefaultNotifier(store, newFakeUsers(user), failingSMS{})

	n.Notify(context.Background(), user.ID, NotificationInput{Title: "Reminder", Message: "soon"})

	if rec := store.last(t); rec.PushStatus != "skipped" {
		t.Errorf("push status = %q, want skipped", rec.PushStatus)
	}
}
