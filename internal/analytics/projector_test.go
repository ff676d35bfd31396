package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
)

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func template(id string, freq core.Frequency, nextDue time.Time) core.RecurringTransaction {
	return core.RecurringTransaction{
		ID:          id,
		Description: id,
		Amount:      core.Money{Cents: 1000},
		Type:        core.TypeExpense,
		Frequency:   freq,
		NextDue:     nextDue,
		Active:      true,
	}
}

func TestOccurrencesInMonth_Monthly(t *testing.T) {
	rt := template("rent", core.Monthly, date(2025, 1, 5))
	rt.StartDate = date(2025, 1, 5)

	// Before the start month: nothing.
	assert.Empty(t, OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2024, 12, 1)))

	// Start month and every month after: exactly one.
	for _, m := range []time.Time{date(2025, 1, 1), date(2025, 2, 1), date(2025, 7, 1)} {
		got := OccurrencesInMonth([]core.RecurringTransaction{rt}, m)
		require.Len(t, got, 1, "month %v", m)
		assert.Equal(t, "rent", got[0].TemplateID)
		assert.Equal(t, 5, got[0].Date.Day())
		assert.True(t, sameMonth(got[0].Date, m))
	}
}

func TestOccurrencesInMonth_AnchorBehindWindow(t *testing.T) {
	// NextDue far in the past: the projector jumps to the target
	// window instead of stepping through every period.
	rt := template("gym", core.Weekly, date(2020, 1, 6))

	got := OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 6, 1))
	require.NotEmpty(t, got)
	for i, occ := range got {
		assert.True(t, sameMonth(occ.Date, date(2025, 6, 1)))
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, occ.Date.Sub(got[i-1].Date))
		}
	}
}

func TestOccurrencesInMonth_DailyCount(t *testing.T) {
	rt := template("coffee", core.Daily, date(2025, 4, 1))
	got := OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 4, 10))
	assert.Len(t, got, 30)
}

func TestOccurrencesInMonth_Biweekly(t *testing.T) {
	rt := template("cleaner", core.Biweekly, date(2025, 3, 3))
	got := OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 3, 1))
	require.Len(t, got, 3)
	assert.Equal(t, date(2025, 3, 3), got[0].Date)
	assert.Equal(t, date(2025, 3, 17), got[1].Date)
	assert.Equal(t, date(2025, 3, 31), got[2].Date)
}

func TestOccurrencesInMonth_EndDate(t *testing.T) {
	rt := template("loan", core.Monthly, date(2025, 1, 15))
	rt.EndDate = date(2025, 3, 1)

	assert.Len(t, OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 2, 1)), 1)
	// End date passed mid-month: the 15th is after March 1st.
	assert.Empty(t, OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 3, 1)))
	assert.Empty(t, OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 4, 1)))
}

func TestOccurrencesInMonth_Inactive(t *testing.T) {
	rt := template("paused", core.Monthly, date(2025, 1, 1))
	rt.Active = false
	assert.Empty(t, OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 1, 1)))
}

func TestOccurrencesInMonth_UnknownFrequency(t *testing.T) {
	rt := template("weird", core.Frequency("hourly"), date(2025, 1, 1))
	assert.Empty(t, OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 1, 1)))
}

func TestOccurrencesInMonth_StartDateInsideMonth(t *testing.T) {
	// Daily template starting mid-month must not emit before its start.
	rt := template("sub", core.Daily, date(2025, 5, 20))
	rt.StartDate = date(2025, 5, 20)

	got := OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 5, 1))
	require.NotEmpty(t, got)
	assert.Equal(t, date(2025, 5, 20), got[0].Date)
	assert.Len(t, got, 12)
}

func TestOccurrencesInMonth_MonthEndClamp(t *testing.T) {
	rt := template("salary", core.Monthly, date(2025, 1, 31))

	feb := OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 2, 1))
	require.Len(t, feb, 1)
	assert.Equal(t, date(2025, 2, 28), feb[0].Date)

	// The anchor day recovers in a long month.
	mar := OccurrencesInMonth([]core.RecurringTransaction{rt}, date(2025, 3, 1))
	require.Len(t, mar, 1)
	assert.Equal(t, date(2025, 3, 31), mar[0].Date)
}

func TestUpcomingOccurrences(t *testing.T) {
	now := date(2025, 3, 28)
	rts := []core.RecurringTransaction{
		template("rent", core.Monthly, date(2025, 4, 1)),
		template("coffee", core.Daily, date(2025, 3, 28)),
	}

	got := UpcomingOccurrences(rts, now, 7)

	var rent, coffee int
	for _, occ := range got {
		switch occ.TemplateID {
		case "rent":
			rent++
		case "coffee":
			coffee++
		}
		assert.False(t, occ.Date.Before(now))
		assert.False(t, occ.Date.After(now.AddDate(0, 0, 8)))
	}
	assert.Equal(t, 1, rent)
	assert.Equal(t, 8, coffee) // today through day seven inclusive

	assert.Empty(t, UpcomingOccurrences(rts, now, 0))
	assert.Empty(t, UpcomingOccurrences(nil, now, 30))
}

func TestUpcomingOccurrences_MidDayNow(t *testing.T) {
	// An afternoon now must not stretch the horizon into the next day:
	// occurrences are midnight-dated, the window is counted in days.
	now := date(2025, 3, 28).Add(14 * time.Hour)
	rts := []core.RecurringTransaction{template("coffee", core.Daily, date(2025, 3, 28))}

	got := UpcomingOccurrences(rts, now, 7)
	require.Len(t, got, 7)
	assert.Equal(t, date(2025, 3, 29), got[0].Date)
	for _, occ := range got {
		assert.False(t, occ.Date.After(date(2025, 4, 4)),
			"occurrence %v beyond the seven day horizon", occ.Date)
	}
}
