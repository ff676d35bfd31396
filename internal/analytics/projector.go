package analytics

import (
	"time"

	"saldo/internal/core"
)

// Occurrence is a projected instance of a recurring template. It is a
// distinct type from core.Transaction on purpose: occurrences exist only
// for forward-looking display and must never reach storage or influence
// a real balance or credit limit.
type Occurrence struct {
	TemplateID  string               `json:"templateId"`
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	Amount      core.Money           `json:"amount"`
	Type        core.TransactionType `json:"type"`
	Category    core.Category        `json:"category"`
	AccountID   string               `json:"accountId,omitempty"`
}

// OccurrencesInMonth expands recurring templates into their occurrences
// within the calendar month containing ref.
func OccurrencesInMonth(templates []core.RecurringTransaction, ref time.Time) []Occurrence {
	start, next := monthBounds(ref)
	return occurrencesBetween(templates, start, next)
}

// UpcomingOccurrences expands recurring templates into their occurrences
// within [now, now+daysAhead]. The window closes at end of day, so a
// mid-day now never admits occurrences dated a day past the horizon.
func UpcomingOccurrences(templates []core.RecurringTransaction, now time.Time, daysAhead int) []Occurrence {
	if daysAhead <= 0 {
		return nil
	}
	next := startOfDay(now).AddDate(0, 0, daysAhead+1)
	return occurrencesBetween(templates, now, next)
}

// occurrencesBetween emits one occurrence per frequency step inside
// [start, next). The first step is located with a closed-form jump from
// the template's anchor, so the loop below is bounded by the window
// length alone; an unknown frequency yields no occurrences.
func occurrencesBetween(templates []core.RecurringTransaction, start, next time.Time) []Occurrence {
	var out []Occurrence
	for i := range templates {
		rt := &templates[i]
		if !rt.Active {
			continue
		}
		if !rt.StartDate.IsZero() && !rt.StartDate.Before(next) {
			continue
		}
		if !rt.EndDate.IsZero() && rt.EndDate.Before(start) {
			continue
		}

		anchor := rt.NextDue
		if !rt.StartDate.IsZero() && rt.StartDate.Before(anchor) {
			anchor = rt.StartDate
		}
		if anchor.IsZero() {
			continue
		}

		windowStart := start
		if !rt.StartDate.IsZero() && rt.StartDate.After(windowStart) {
			windowStart = rt.StartDate
		}

		n, ok := rt.Frequency.StepsUntil(anchor, windowStart)
		if !ok {
			continue
		}
		for {
			d := rt.Frequency.Jump(anchor, n)
			if !d.Before(next) {
				break
			}
			if !rt.EndDate.IsZero() && d.After(rt.EndDate) {
				break
			}
			out = append(out, Occurrence{
				TemplateID:  rt.ID,
				Date:        d,
				Description: rt.Description,
				Amount:      rt.Amount,
				Type:        rt.Type,
				Category:    rt.Category,
				AccountID:   rt.AccountID,
			})
			n++
			if rt.Frequency.Jump(anchor, n).Equal(d) {
				// Jump stopped advancing; treat as terminal.
				break
			}
		}
	}
	return out
}
