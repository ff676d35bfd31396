package services

import (
	"context"
	"fmt"
	"log/slog"

	"saldo/internal/amqp"
	"saldo/internal/core"
	"saldo/internal/log"
)

// TransactionStore is the storage surface the service needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	SettleTransaction(ctx context.Context, id string) error
	SoftDeleteTransaction(ctx context.Context, id string) error
}

// EventPublisher publishes ledger events. The AMQP client implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.Event) error
}

// TransactionService orchestrates transaction writes across SQLite and AMQP
type TransactionService struct {
	store     TransactionStore
	publisher EventPublisher
	logger    *log.StructuredLogger
}

func NewTransactionService(store TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
		logger:    log.NewStructuredLogger(log.New(log.Config{Component: log.ComponentTransaction})),
	}
}

// RecordTransaction saves a transaction locally and publishes a ledger event.
// Publish failures are logged but never fail the write.
func (s *TransactionService) RecordTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	saved, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.LogTransactionRecorded(ctx, saved.Description, saved.Amount.Cents,
		string(saved.Type), saved.Category.Label(nil))

	event := amqp.NewEvent(amqp.EventTransactionRecorded, saved.ID,
		fmt.Sprintf("%s %s recorded", saved.Type, saved.Amount))
	if err := s.publish(ctx, event); err != nil {
		s.logger.LogError(ctx, "Failed to publish transaction event", err,
			log.ComponentTransaction, log.OpPublish, log.NewFields())
	}

	return saved, nil
}

// SettleTransaction marks a pending transaction as paid.
func (s *TransactionService) SettleTransaction(ctx context.Context, id string) error {
	if err := s.store.SettleTransaction(ctx, id); err != nil {
		return fmt.Errorf("settle transaction: %w", err)
	}
	return nil
}

// DeleteTransaction soft deletes a transaction.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.SoftDeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) publish(ctx context.Context, event *amqp.Event) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping event", "kind", event.Kind)
		return nil
	}
	return s.publisher.PublishEvent(ctx, event)
}
