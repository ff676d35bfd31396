package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
)

func TestBalanceEvolution_SeedOnly(t *testing.T) {
	now := date(2025, 3, 15)

	got := BalanceEvolution(nil, 1, time.Time{}, nil, nil, core.Money{Cents: 12345}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "mar 2025", got[0].Label)
	assert.Equal(t, int64(0), got[0].Delta.Cents)
	assert.Equal(t, int64(12345), got[0].Accumulated.Cents)
}

func TestBalanceEvolution_FutureMonthsAddFullDelta(t *testing.T) {
	now := date(2025, 3, 15)
	rent := template("rent", core.Monthly, date(2025, 1, 1))
	salary := template("salary", core.Monthly, date(2025, 1, 25))
	salary.Type = core.TypeIncome
	salary.Amount = core.Money{Cents: 3000}

	got := BalanceEvolution(nil, 3, time.Time{}, []core.RecurringTransaction{rent, salary}, nil, core.Money{Cents: 10000}, now)
	require.Len(t, got, 3)

	// Each month projects +3000 income and -1000 rent.
	assert.Equal(t, int64(2000), got[0].Delta.Cents)
	assert.Equal(t, int64(12000), got[0].Accumulated.Cents) // current month: projections not yet materialized
	assert.Equal(t, int64(14000), got[1].Accumulated.Cents)
	assert.Equal(t, int64(16000), got[2].Accumulated.Cents)
}

func TestBalanceEvolution_DedupAgainstMaterialized(t *testing.T) {
	now := date(2025, 3, 15)
	rent := template("rent", core.Monthly, date(2025, 1, 1))

	materialized := tx("rent-march", core.TypeExpense, 1000, date(2025, 3, 1))
	materialized.RecurringID = "rent"

	got := BalanceEvolution([]core.Transaction{materialized}, 1, time.Time{}, []core.RecurringTransaction{rent}, nil, core.Money{Cents: 9000}, now)
	require.Len(t, got, 1)
	// The settled materialized rent is in the seed; the projection is
	// deduplicated away; nothing moves.
	assert.Equal(t, int64(-1000), got[0].Delta.Cents)
	assert.Equal(t, int64(9000), got[0].Accumulated.Cents)
}

func TestBalanceEvolution_CreditCardExclusion(t *testing.T) {
	now := date(2025, 3, 15)
	accounts := []core.Account{{ID: "card", Name: "Visa", Type: core.AccountCredit}}
	txs := []core.Transaction{
		acctTx("card-pending", core.TypeExpense, 4000, date(2025, 3, 20), "card"),
	}
	txs[0].Pending = true

	got := BalanceEvolution(txs, 1, time.Time{}, nil, accounts, core.Money{Cents: 1000}, now)
	require.Len(t, got, 1)
	assert.Equal(t, int64(0), got[0].Delta.Cents)
	assert.Equal(t, int64(1000), got[0].Accumulated.Cents)
}

// The scenario from the dashboard contract: one settled expense of 100,
// one pending income of 50, a current balance of 500, evaluated in March.
func TestBalanceEvolution_MarchScenario(t *testing.T) {
	now := date(2025, 3, 15)
	accounts := []core.Account{{ID: "bank", Name: "Checking", Type: core.AccountChecking}}
	txs := []core.Transaction{
		acctTx("expense", core.TypeExpense, 10000, date(2025, 3, 2), "bank"),
		pendingTx("income", core.TypeIncome, 5000, date(2025, 3, 28)),
	}

	got := BalanceEvolution(txs, 1, date(2025, 3, 1), nil, accounts, core.Money{Cents: 50000}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "mar 2025", got[0].Label)
	assert.Equal(t, int64(-5000), got[0].Delta.Cents)
	assert.Equal(t, int64(55000), got[0].Accumulated.Cents)
}

func TestBalanceEvolution_EmptyWindow(t *testing.T) {
	assert.Nil(t, BalanceEvolution(nil, 0, time.Time{}, nil, nil, core.Money{}, date(2025, 1, 1)))
}
