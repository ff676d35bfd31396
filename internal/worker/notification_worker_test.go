package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"saldo/internal/amqp"
	"saldo/internal/storage"
)

type fakeNotificationStore struct {
	saved []storage.Notification
	err   error
}

func (f *fakeNotificationStore) CreateNotification(_ context.Context, n storage.Notification) (storage.Notification, error) {
	if f.err != nil {
		return storage.Notification{}, f.err
	}
	n.ID = "n-1"
	f.saved = append(f.saved, n)
	return n, nil
}

func TestHandleEventStoresNotification(t *testing.T) {
	store := &fakeNotificationStore{}
	w := NewNotificationWorker(store)

	event := &amqp.Event{
		Kind:      amqp.EventRecurringDueSoon,
		EntityID:  "rec-1",
		Message:   "Rent due on 2025-03-18",
		Timestamp: time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC),
	}

	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(store.saved))
	}
	n := store.saved[0]
	if n.Kind != amqp.EventRecurringDueSoon {
		t.Errorf("Kind = %q, want %q", n.Kind, amqp.EventRecurringDueSoon)
	}
	if n.Message != event.Message {
		t.Errorf("Message = %q, want %q", n.Message, event.Message)
	}
	if !n.CreatedAt.Equal(event.Timestamp) {
		t.Errorf("CreatedAt = %v, want %v", n.CreatedAt, event.Timestamp)
	}
}

func TestHandleEventDropsUnknownKind(t *testing.T) {
	store := &fakeNotificationStore{}
	w := NewNotificationWorker(store)

	err := w.HandleEvent(context.Background(), &amqp.Event{Kind: "mystery.event"})
	if err != nil {
		t.Fatalf("HandleEvent() error = %v, want nil for unknown kind", err)
	}
	if len(store.saved) != 0 {
		t.Errorf("expected unknown kind to be dropped, got %d stored", len(store.saved))
	}
}

func TestHandleEventPropagatesStoreError(t *testing.T) {
	store := &fakeNotificationStore{err: errors.New("disk full")}
	w := NewNotificationWorker(store)

	err := w.HandleEvent(context.Background(), &amqp.Event{
		Kind:    amqp.EventTransactionRecorded,
		Message: "recorded",
	})
	if err == nil {
		t.Error("HandleEvent() expected error when store fails")
	}
}
