package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"saldo/internal/amqp"
	"saldo/internal/core"
)

// RecurringStore is the storage surface the processor needs.
type RecurringStore interface {
	ListDueRecurring(ctx context.Context, asOf time.Time) ([]core.RecurringTransaction, error)
	ListRecurring(ctx context.Context, activeOnly bool) ([]core.RecurringTransaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	AdvanceNextDue(ctx context.Context, id string, nextDue time.Time) error
	SetRecurringActive(ctx context.Context, id string, active bool) error
}

// RecurringProcessor turns due recurring templates into real pending
// transactions and advances their next due date.
type RecurringProcessor struct {
	store     RecurringStore
	publisher EventPublisher

	mu       sync.Mutex
	notified map[string]time.Time // template ID -> next due already announced
}

func NewRecurringProcessor(store RecurringStore, publisher EventPublisher) *RecurringProcessor {
	return &RecurringProcessor{
		store:     store,
		publisher: publisher,
		notified:  make(map[string]time.Time),
	}
}

// ProcessDue materializes every active template whose next due date is at or
// before now, catching up all missed occurrences. Templates whose end date
// has passed are deactivated. Returns the number of transactions created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := p.store.ListDueRecurring(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due recurring transactions: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"due", len(due),
		"processing_date", now.Format("2006-01-02"))

	created := 0
	for _, rt := range due {
		n, err := p.materialize(ctx, rt, now)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring transaction",
				"recurring_id", rt.ID,
				"description", rt.Description,
				"error", err)
			continue
		}
		created += n
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"created", created,
		"templates_checked", len(due))

	return created, nil
}

func (p *RecurringProcessor) materialize(ctx context.Context, rt core.RecurringTransaction, now time.Time) (int, error) {
	if !rt.Frequency.Valid() {
		slog.WarnContext(ctx, "Skipping template with unknown frequency",
			"recurring_id", rt.ID,
			"frequency", rt.Frequency)
		return 0, nil
	}

	created := 0
	dueDate := rt.NextDue
	for !dueDate.After(now) {
		if !rt.EndDate.IsZero() && dueDate.After(rt.EndDate) {
			if err := p.store.SetRecurringActive(ctx, rt.ID, false); err != nil {
				return created, fmt.Errorf("deactivate expired template: %w", err)
			}
			slog.InfoContext(ctx, "Recurring transaction expired",
				"recurring_id", rt.ID,
				"end_date", rt.EndDate.Format("2006-01-02"))
			return created, nil
		}

		if rt.StartDate.IsZero() || !dueDate.Before(rt.StartDate) {
			tx := core.Transaction{
				Description: rt.Description,
				Amount:      rt.Amount,
				Type:        rt.Type,
				Category:    rt.Category,
				Date:        dueDate,
				AccountID:   rt.AccountID,
				Pending:     true,
				RecurringID: rt.ID,
			}

			saved, err := p.store.CreateTransaction(ctx, tx)
			if err != nil {
				return created, fmt.Errorf("create transaction from template: %w", err)
			}
			created++

			event := amqp.NewEvent(amqp.EventRecurringMaterialized, rt.ID,
				fmt.Sprintf("%s due on %s", rt.Description, dueDate.Format("2006-01-02")))
			if p.publisher != nil {
				if err := p.publisher.PublishEvent(ctx, event); err != nil {
					slog.ErrorContext(ctx, "Failed to publish materialized event",
						"recurring_id", rt.ID, "error", err)
				}
			}

			slog.InfoContext(ctx, "Created transaction from recurring template",
				"recurring_id", rt.ID,
				"transaction_id", saved.ID,
				"amount_cents", rt.Amount.Cents,
				"frequency", rt.Frequency,
				"due_date", dueDate.Format("2006-01-02"))
		}

		next := nextOccurrenceAfter(rt, dueDate)
		if !next.After(dueDate) {
			slog.WarnContext(ctx, "Template stopped advancing, deactivating",
				"recurring_id", rt.ID,
				"frequency", rt.Frequency)
			if err := p.store.SetRecurringActive(ctx, rt.ID, false); err != nil {
				return created, fmt.Errorf("deactivate stuck template: %w", err)
			}
			return created, nil
		}
		dueDate = next
	}

	if err := p.store.AdvanceNextDue(ctx, rt.ID, dueDate); err != nil {
		return created, fmt.Errorf("advance next due: %w", err)
	}
	return created, nil
}

// NotifyDueSoon publishes a due-soon event for every active template whose
// next due date falls within daysAhead of now. Each due date is announced
// once per process lifetime.
func (p *RecurringProcessor) NotifyDueSoon(ctx context.Context, now time.Time, daysAhead int) error {
	templates, err := p.store.ListRecurring(ctx, true)
	if err != nil {
		return fmt.Errorf("list recurring transactions: %w", err)
	}

	horizon := now.AddDate(0, 0, daysAhead)
	for _, rt := range templates {
		if rt.NextDue.Before(now) || rt.NextDue.After(horizon) {
			continue
		}
		if p.alreadyNotified(rt.ID, rt.NextDue) {
			continue
		}

		event := amqp.NewEvent(amqp.EventRecurringDueSoon, rt.ID,
			fmt.Sprintf("%s (%s) due on %s",
				rt.Description, rt.Amount, rt.NextDue.Format("2006-01-02")))
		if p.publisher != nil {
			if err := p.publisher.PublishEvent(ctx, event); err != nil {
				slog.ErrorContext(ctx, "Failed to publish due-soon event",
					"recurring_id", rt.ID, "error", err)
				continue
			}
		}
		p.markNotified(rt.ID, rt.NextDue)
	}

	return nil
}

func (p *RecurringProcessor) alreadyNotified(id string, due time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	last, ok := p.notified[id]
	return ok && last.Equal(due)
}

func (p *RecurringProcessor) markNotified(id string, due time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notified[id] = due
}

// nextOccurrenceAfter computes the first occurrence strictly after current,
// stepping from the template's start date when set so the day-of-month
// anchor survives short months.
func nextOccurrenceAfter(rt core.RecurringTransaction, current time.Time) time.Time {
	anchor := rt.NextDue
	if !rt.StartDate.IsZero() && rt.StartDate.Before(anchor) {
		anchor = rt.StartDate
	}
	n, ok := rt.Frequency.StepsUntil(anchor, current)
	if !ok {
		return current
	}
	next := rt.Frequency.Jump(anchor, n)
	if !next.After(current) {
		next = rt.Frequency.Jump(anchor, n+1)
	}
	return next
}
