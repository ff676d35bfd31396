package analytics

import (
	"time"

	"saldo/internal/core"
)

// EvolutionPoint is one step of a projected balance series. Delta is the
// month's full income/expense net; Accumulated is the running balance.
type EvolutionPoint struct {
	Month       time.Time  `json:"month"`
	Label       string     `json:"label"`
	Delta       core.Money `json:"delta"`
	Accumulated core.Money `json:"accumulated"`
}

// BalanceEvolution projects a running balance forward for `months` steps
// starting at base (zero base means the month of now), seeded from
// initial, the caller's known current balance.
//
// The seed already reflects every settled transaction, so the current
// month must not re-apply them: only pending transactions and recurring
// projections not yet materialized move the accumulator there. Months
// before the current one move it not at all. Future months add their
// full delta. Delta always reports the month's full net so the series
// reads the same as the comparison chart.
//
// Credit-account, TRANSFER and ALLOCATION exclusions and the
// projection deduplication rule match MonthlyComparison.
func BalanceEvolution(txs []core.Transaction, months int, base time.Time, templates []core.RecurringTransaction, accounts []core.Account, initial core.Money, now time.Time) []EvolutionPoint {
	if months <= 0 {
		return nil
	}
	if base.IsZero() {
		base = now
	}
	credit := creditAccountIDs(accounts)

	out := make([]EvolutionPoint, 0, months)
	accumulated := initial.Cents
	current := startOfMonth(now)

	for i := 0; i < months; i++ {
		m := startOfMonth(base).AddDate(0, i, 0)
		f := monthFigures(txs, templates, credit, m, now)
		delta := f.income - f.expense

		switch {
		case m.Before(current):
			// Already baked into the seed.
		case m.Equal(current):
			accumulated += (f.pendingIncome - f.pendingExpense) + (f.projIncome - f.projExpense)
		default:
			accumulated += delta
		}

		out = append(out, EvolutionPoint{
			Month:       m,
			Label:       MonthLabel(m),
			Delta:       core.Money{Cents: delta},
			Accumulated: core.Money{Cents: accumulated},
		})
	}
	return out
}
