package worker

import (
	"context"
	"fmt"
	"log/slog"

	"saldo/internal/amqp"
	"saldo/internal/storage"
)

// NotificationStore persists user-facing notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n storage.Notification) (storage.Notification, error)
}

// NotificationWorker turns ledger events into stored notifications.
type NotificationWorker struct {
	store NotificationStore
}

func NewNotificationWorker(store NotificationStore) *NotificationWorker {
	return &NotificationWorker{store: store}
}

// HandleEvent processes a single ledger event. Unknown kinds are logged and
// acknowledged so they do not requeue forever.
func (w *NotificationWorker) HandleEvent(ctx context.Context, event *amqp.Event) error {
	switch event.Kind {
	case amqp.EventTransactionRecorded, amqp.EventRecurringMaterialized, amqp.EventRecurringDueSoon:
	default:
		slog.WarnContext(ctx, "Dropping event of unknown kind", "kind", event.Kind)
		return nil
	}

	notification := storage.Notification{
		Kind:      event.Kind,
		Message:   event.Message,
		CreatedAt: event.Timestamp,
	}

	saved, err := w.store.CreateNotification(ctx, notification)
	if err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	slog.InfoContext(ctx, "Notification stored",
		"id", saved.ID,
		"kind", saved.Kind,
		"entity_id", event.EntityID)

	return nil
}
