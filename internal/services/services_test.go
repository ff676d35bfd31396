package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/amqp"
	"saldo/internal/core"
)

type fakeStore struct {
	transactions []core.Transaction
	templates    map[string]*core.RecurringTransaction
	createErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{templates: make(map[string]*core.RecurringTransaction)}
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if f.createErr != nil {
		return core.Transaction{}, f.createErr
	}
	if t.ID == "" {
		t.ID = "tx-1"
	}
	f.transactions = append(f.transactions, t)
	return t, nil
}

func (f *fakeStore) SettleTransaction(context.Context, string) error { return nil }

func (f *fakeStore) SoftDeleteTransaction(context.Context, string) error { return nil }

func (f *fakeStore) ListDueRecurring(_ context.Context, asOf time.Time) ([]core.RecurringTransaction, error) {
	var out []core.RecurringTransaction
	for _, rt := range f.templates {
		if rt.Active && !rt.NextDue.After(asOf) {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecurring(_ context.Context, activeOnly bool) ([]core.RecurringTransaction, error) {
	var out []core.RecurringTransaction
	for _, rt := range f.templates {
		if !activeOnly || rt.Active {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (f *fakeStore) AdvanceNextDue(_ context.Context, id string, nextDue time.Time) error {
	rt, ok := f.templates[id]
	if !ok {
		return errors.New("not found")
	}
	rt.NextDue = nextDue
	return nil
}

func (f *fakeStore) SetRecurringActive(_ context.Context, id string, active bool) error {
	rt, ok := f.templates[id]
	if !ok {
		return errors.New("not found")
	}
	rt.Active = active
	return nil
}

type fakePublisher struct {
	events []*amqp.Event
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, e *amqp.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordTransactionPublishesEvent(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	saved, err := svc.RecordTransaction(context.Background(), core.Transaction{
		Description: "Rent",
		Amount:      core.Money{Cents: 120000},
		Type:        core.TypeExpense,
		Date:        date(2025, time.March, 5),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, amqp.EventTransactionRecorded, pub.events[0].Kind)
	assert.Equal(t, saved.ID, pub.events[0].EntityID)
}

func TestRecordTransactionToleratesPublishFailure(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(store, pub)

	_, err := svc.RecordTransaction(context.Background(), core.Transaction{
		Description: "Rent",
		Amount:      core.Money{Cents: 120000},
		Type:        core.TypeExpense,
		Date:        date(2025, time.March, 5),
	})
	assert.NoError(t, err)
	assert.Len(t, store.transactions, 1)
}

func TestRecordTransactionStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("disk full")
	svc := NewTransactionService(store, &fakePublisher{})

	_, err := svc.RecordTransaction(context.Background(), core.Transaction{
		Description: "Rent",
		Amount:      core.Money{Cents: 120000},
		Type:        core.TypeExpense,
		Date:        date(2025, time.March, 5),
	})
	assert.Error(t, err)
}

func TestRecordTransactionWithoutPublisher(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, nil)

	_, err := svc.RecordTransaction(context.Background(), core.Transaction{
		Description: "Rent",
		Amount:      core.Money{Cents: 120000},
		Type:        core.TypeExpense,
		Date:        date(2025, time.March, 5),
	})
	assert.NoError(t, err)
}

func TestProcessDueMaterializesTemplate(t *testing.T) {
	store := newFakeStore()
	store.templates["rec-1"] = &core.RecurringTransaction{
		ID:          "rec-1",
		Description: "Netflix",
		Amount:      core.Money{Cents: 1990},
		Type:        core.TypeExpense,
		Category:    core.Category{System: core.CategoryLeisure},
		Frequency:   core.Monthly,
		NextDue:     date(2025, time.March, 15),
		Active:      true,
	}
	pub := &fakePublisher{}
	p := NewRecurringProcessor(store, pub)

	created, err := p.ProcessDue(context.Background(), date(2025, time.March, 15))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.Len(t, store.transactions, 1)
	tx := store.transactions[0]
	assert.Equal(t, "Netflix", tx.Description)
	assert.Equal(t, "rec-1", tx.RecurringID)
	assert.True(t, tx.Pending)
	assert.True(t, tx.Date.Equal(date(2025, time.March, 15)))

	assert.True(t, store.templates["rec-1"].NextDue.Equal(date(2025, time.April, 15)))

	require.Len(t, pub.events, 1)
	assert.Equal(t, amqp.EventRecurringMaterialized, pub.events[0].Kind)
}

func TestProcessDueCatchesUpMissedMonths(t *testing.T) {
	store := newFakeStore()
	store.templates["rec-1"] = &core.RecurringTransaction{
		ID:          "rec-1",
		Description: "Salary",
		Amount:      core.Money{Cents: 300000},
		Type:        core.TypeIncome,
		Frequency:   core.Monthly,
		StartDate:   date(2025, time.January, 31),
		NextDue:     date(2025, time.January, 31),
		Active:      true,
	}
	p := NewRecurringProcessor(store, &fakePublisher{})

	created, err := p.ProcessDue(context.Background(), date(2025, time.March, 31))
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	// Day-of-month anchor survives February's clamp.
	require.Len(t, store.transactions, 3)
	assert.True(t, store.transactions[0].Date.Equal(date(2025, time.January, 31)))
	assert.True(t, store.transactions[1].Date.Equal(date(2025, time.February, 28)))
	assert.True(t, store.transactions[2].Date.Equal(date(2025, time.March, 31)))

	assert.True(t, store.templates["rec-1"].NextDue.Equal(date(2025, time.April, 30)))
}

func TestProcessDueDeactivatesExpiredTemplate(t *testing.T) {
	store := newFakeStore()
	store.templates["rec-1"] = &core.RecurringTransaction{
		ID:          "rec-1",
		Description: "Gym",
		Amount:      core.Money{Cents: 5000},
		Type:        core.TypeExpense,
		Frequency:   core.Monthly,
		EndDate:     date(2025, time.February, 28),
		NextDue:     date(2025, time.March, 1),
		Active:      true,
	}
	p := NewRecurringProcessor(store, &fakePublisher{})

	created, err := p.ProcessDue(context.Background(), date(2025, time.March, 10))
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, store.transactions)
	assert.False(t, store.templates["rec-1"].Active)
}

func TestProcessDueSkipsUnknownFrequency(t *testing.T) {
	store := newFakeStore()
	store.templates["rec-1"] = &core.RecurringTransaction{
		ID:          "rec-1",
		Description: "Mystery",
		Amount:      core.Money{Cents: 100},
		Type:        core.TypeExpense,
		Frequency:   core.Frequency("fortnightly-ish"),
		NextDue:     date(2025, time.March, 1),
		Active:      true,
	}
	p := NewRecurringProcessor(store, &fakePublisher{})

	created, err := p.ProcessDue(context.Background(), date(2025, time.March, 10))
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, store.transactions)
}

func TestNotifyDueSoon(t *testing.T) {
	store := newFakeStore()
	store.templates["rec-1"] = &core.RecurringTransaction{
		ID:          "rec-1",
		Description: "Rent",
		Amount:      core.Money{Cents: 120000},
		Type:        core.TypeExpense,
		Frequency:   core.Monthly,
		NextDue:     date(2025, time.March, 18),
		Active:      true,
	}
	store.templates["rec-2"] = &core.RecurringTransaction{
		ID:          "rec-2",
		Description: "Insurance",
		Amount:      core.Money{Cents: 40000},
		Type:        core.TypeExpense,
		Frequency:   core.Yearly,
		NextDue:     date(2025, time.June, 1),
		Active:      true,
	}
	pub := &fakePublisher{}
	p := NewRecurringProcessor(store, pub)

	now := date(2025, time.March, 15)
	require.NoError(t, p.NotifyDueSoon(context.Background(), now, 7))

	require.Len(t, pub.events, 1)
	assert.Equal(t, amqp.EventRecurringDueSoon, pub.events[0].Kind)
	assert.Equal(t, "rec-1", pub.events[0].EntityID)

	// Same due date is announced only once.
	require.NoError(t, p.NotifyDueSoon(context.Background(), now, 7))
	assert.Len(t, pub.events, 1)

	// A new due date is announced again.
	store.templates["rec-1"].NextDue = date(2025, time.April, 18)
	require.NoError(t, p.NotifyDueSoon(context.Background(), date(2025, time.April, 15), 7))
	assert.Len(t, pub.events, 2)
}
