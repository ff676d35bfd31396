// Package analytics derives dashboard figures from in-memory ledger data:
// month-windowed totals, category breakdowns, recurring projections,
// month-over-month comparison series and balance evolution.
//
// Every function is pure: inputs are never mutated, there is no I/O and
// the current instant is an explicit parameter wherever it matters.
// Nil or empty inputs degrade to zero results instead of errors so a
// rendering caller never has to special-case them.
package analytics

import (
	"strings"
	"time"

	"saldo/internal/core"
)

// TotalIncome sums the amounts of all INCOME transactions.
func TotalIncome(txs []core.Transaction) core.Money {
	var cents int64
	for _, t := range txs {
		if t.Type == core.TypeIncome {
			cents += t.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// TotalExpense sums the amounts of all EXPENSE transactions.
func TotalExpense(txs []core.Transaction) core.Money {
	var cents int64
	for _, t := range txs {
		if t.Type == core.TypeExpense {
			cents += t.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// Balance returns TotalIncome - TotalExpense.
func Balance(txs []core.Transaction) core.Money {
	return TotalIncome(txs).Sub(TotalExpense(txs))
}

// TransactionsInMonth returns the transactions dated within the calendar
// month containing ref, bounds inclusive. Transactions with a zero date
// are excluded silently.
func TransactionsInMonth(txs []core.Transaction, ref time.Time) []core.Transaction {
	start, next := monthBounds(ref)
	var out []core.Transaction
	for _, t := range txs {
		if t.Date.IsZero() {
			continue
		}
		if !t.Date.Before(start) && t.Date.Before(next) {
			out = append(out, t)
		}
	}
	return out
}

// Settled returns the transactions that have cleared. A record without an
// explicit pending flag counts as settled.
func Settled(txs []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if t.Settled() {
			out = append(out, t)
		}
	}
	return out
}

// Pending returns the transactions explicitly marked as not yet settled.
func Pending(txs []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if !t.Settled() {
			out = append(out, t)
		}
	}
	return out
}

// MonthLabel formats a month the way the dashboard displays it: "mar 2025".
func MonthLabel(m time.Time) string {
	return strings.ToLower(m.Format("Jan 2006"))
}

// monthBounds returns the first instant of ref's month and the first
// instant of the following month (exclusive upper bound).
func monthBounds(ref time.Time) (start, next time.Time) {
	y, m, _ := ref.Date()
	start = time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	next = start.AddDate(0, 1, 0)
	return start, next
}
