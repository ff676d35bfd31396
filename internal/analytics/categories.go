package analytics

import "saldo/internal/core"

// CategoryBreakdown aggregates income and expense per category.
type CategoryBreakdown struct {
	Category core.Category `json:"category"`
	Label    string        `json:"label"`
	Income   core.Money    `json:"income"`
	Expense  core.Money    `json:"expense"`
	Net      core.Money    `json:"net"`
}

// ByCategory groups transactions by category, summing income and expense
// separately. TRANSFER and ALLOCATION records are internal movement, not
// profit and loss, and are skipped entirely. Output order is first-seen
// category order; uncategorized transactions share one bucket.
func ByCategory(txs []core.Transaction, labels core.CategoryLabels) []CategoryBreakdown {
	index := make(map[string]int)
	var out []CategoryBreakdown

	for _, t := range txs {
		if t.Type != core.TypeIncome && t.Type != core.TypeExpense {
			continue
		}
		key := t.Category.Key()
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, CategoryBreakdown{
				Category: t.Category,
				Label:    t.Category.Label(labels),
			})
		}
		switch t.Type {
		case core.TypeIncome:
			out[i].Income = out[i].Income.Add(t.Amount)
		case core.TypeExpense:
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}

	for i := range out {
		out[i].Net = out[i].Income.Sub(out[i].Expense)
	}
	return out
}
