package core

import "time"

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

// Frequency is the cadence of a recurring transaction.
type Frequency string

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Biweekly, Monthly, Yearly:
		return true
	}
	return false
}

// days returns the fixed step length in days, or 0 for calendar-based
// frequencies (monthly, yearly).
func (f Frequency) days() int {
	switch f {
	case Daily:
		return 1
	case Weekly:
		return 7
	case Biweekly:
		return 14
	}
	return 0
}

// Next returns t advanced by one step. Equivalent to Jump(t, 1).
func (f Frequency) Next(t time.Time) time.Time {
	return f.Jump(t, 1)
}

// Jump returns t advanced by n steps in a single calendar-aware move.
// Month and year steps are always taken from the original anchor so the
// day-of-month never drifts: the 31st clamps to a short month's last day
// and recovers on the next long month. n <= 0 returns t unchanged.
// Unknown frequencies return t unchanged, which callers treat as a
// terminal state rather than an error.
func (f Frequency) Jump(t time.Time, n int) time.Time {
	if n <= 0 {
		return t
	}
	switch f {
	case Daily, Weekly, Biweekly:
		return t.AddDate(0, 0, n*f.days())
	case Monthly:
		return addMonthsClamped(t, n)
	case Yearly:
		return addMonthsClamped(t, 12*n)
	}
	return t
}

// StepsUntil returns the smallest n >= 0 such that Jump(from, n) is not
// before target. Returns 0, false for unknown frequencies.
func (f Frequency) StepsUntil(from, target time.Time) (int, bool) {
	if !f.Valid() {
		return 0, false
	}
	if !from.Before(target) {
		return 0, true
	}
	var n int
	switch f {
	case Daily, Weekly, Biweekly:
		step := f.days()
		days := int(target.Sub(from).Hours() / 24)
		n = days / step
	case Monthly:
		n = monthsBetween(from, target)
	case Yearly:
		n = monthsBetween(from, target) / 12
	}
	// The estimate can land one step short because of clamping and
	// partial periods; correct forward.
	for f.Jump(from, n).Before(target) {
		n++
	}
	return n, true
}

// addMonthsClamped adds n months, clamping the day to the target month's
// length instead of letting time.AddDate normalize past it.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	h, min, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}

func monthsBetween(a, b time.Time) int {
	n := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if n < 0 {
		return 0
	}
	return n
}
