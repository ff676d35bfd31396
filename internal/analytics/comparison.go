package analytics

import (
	"time"

	"saldo/internal/core"
)

// MonthPoint is one entry of a month-over-month trend series.
type MonthPoint struct {
	Month   time.Time  `json:"month"`
	Label   string     `json:"label"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Net     core.Money `json:"net"`
}

// MonthlyComparison builds a trend series of `months` consecutive entries
// ending at base (zero base means the month of now), oldest first.
//
// Months already over use settled transactions only. The current and
// future months blend all real transactions with recurring projections,
// dropping a projection when a real transaction materialized from the
// same template already exists in that month.
//
// Transactions on CREDIT accounts are excluded: a card purchase is not a
// cash movement until the invoice is paid from a bank account, and
// counting both would double the expense. TRANSFER and ALLOCATION
// records are always excluded as internal movement.
func MonthlyComparison(txs []core.Transaction, months int, base time.Time, templates []core.RecurringTransaction, accounts []core.Account, now time.Time) []MonthPoint {
	if months <= 0 {
		return nil
	}
	if base.IsZero() {
		base = now
	}
	credit := creditAccountIDs(accounts)

	out := make([]MonthPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := startOfMonth(base).AddDate(0, -i, 0)
		f := monthFigures(txs, templates, credit, m, now)
		income := core.Money{Cents: f.income}
		expense := core.Money{Cents: f.expense}
		out = append(out, MonthPoint{
			Month:   startOfMonth(m),
			Label:   MonthLabel(m),
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		})
	}
	return out
}

// figures carries the per-month sums shared by the comparison and
// evolution builders, in cents.
type figures struct {
	income, expense               int64 // what the month shows
	pendingIncome, pendingExpense int64 // not yet reflected in a real balance
	projIncome, projExpense       int64 // projections, deduplicated
}

// monthFigures computes a single month's sums. Past months (whole month
// before the day of now) count settled transactions only; the current
// and future months count everything plus deduplicated projections.
func monthFigures(txs []core.Transaction, templates []core.RecurringTransaction, credit map[string]bool, m, now time.Time) figures {
	var f figures
	inMonth := TransactionsInMonth(txs, m)

	_, next := monthBounds(m)
	past := next.Before(startOfDay(now)) || next.Equal(startOfDay(now))

	materialized := make(map[string]bool)
	for _, t := range inMonth {
		if t.RecurringID != "" {
			materialized[t.RecurringID] = true
		}
		if !counted(t, credit) {
			continue
		}
		if past && !t.Settled() {
			continue
		}
		switch t.Type {
		case core.TypeIncome:
			f.income += t.Amount.Cents
			if !t.Settled() {
				f.pendingIncome += t.Amount.Cents
			}
		case core.TypeExpense:
			f.expense += t.Amount.Cents
			if !t.Settled() {
				f.pendingExpense += t.Amount.Cents
			}
		}
	}

	if past {
		return f
	}
	for _, occ := range OccurrencesInMonth(templates, m) {
		if materialized[occ.TemplateID] {
			continue
		}
		if occ.Type != core.TypeIncome && occ.Type != core.TypeExpense {
			continue
		}
		if occ.AccountID != "" && credit[occ.AccountID] {
			continue
		}
		switch occ.Type {
		case core.TypeIncome:
			f.income += occ.Amount.Cents
			f.projIncome += occ.Amount.Cents
		case core.TypeExpense:
			f.expense += occ.Amount.Cents
			f.projExpense += occ.Amount.Cents
		}
	}
	return f
}

// counted reports whether a transaction contributes to income/expense
// figures: only INCOME and EXPENSE types, and never on a credit account.
func counted(t core.Transaction, credit map[string]bool) bool {
	if t.Type != core.TypeIncome && t.Type != core.TypeExpense {
		return false
	}
	if t.AccountID != "" && credit[t.AccountID] {
		return false
	}
	return true
}

func creditAccountIDs(accounts []core.Account) map[string]bool {
	ids := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.Type == core.AccountCredit {
			ids[a.ID] = true
		}
	}
	return ids
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
