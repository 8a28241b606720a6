// Package analytics is the budget and period aggregation engine. Every
// function in this package is pure: callers load the inputs from storage and
// the package derives spend, status, trends, rankings and composite views.
package analytics

import "time"

// Period is the recurrence length of a budget.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// IsValid reports whether p is a known period.
func (p Period) IsValid() bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return true
	}
	return false
}

// Months returns the number of calendar months covered by the period.
// Unknown periods count as one month.
func (p Period) Months() int {
	switch p {
	case PeriodQuarterly:
		return 3
	case PeriodYearly:
		return 12
	default:
		return 1
	}
}

// Window is a closed time interval: both Start and End are inclusive.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the window length in whole days, rounded up.
func (w Window) Days() int {
	d := w.End.Sub(w.Start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// AddMonths adds n calendar months to t, clamping the day to the last day of
// the target month: Jan 31 + 1 month is Feb 28 (or 29 in leap years).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(target.Year(), target.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PeriodEnd returns the end date of a budget period starting at start. The
// start is normalized to the beginning of its day first.
func PeriodEnd(start time.Time, p Period) time.Time {
	return AddMonths(StartOfDay(start), p.Months())
}

// MonthWindow returns the calendar month containing t, from its first
// instant to its last.
func MonthWindow(t time.Time) Window {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return Window{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

// TrailingMonths returns the n month windows ending with the anchor's month,
// oldest first.
func TrailingMonths(anchor time.Time, n int) []Window {
	if n <= 0 {
		return []Window{}
	}
	first := MonthWindow(anchor).Start
	windows := make([]Window, n)
	for i := 0; i < n; i++ {
		windows[i] = MonthWindow(AddMonths(first, i-(n-1)))
	}
	return windows
}

// TrendWindow spans all of TrailingMonths(anchor, n).
func TrendWindow(anchor time.Time, n int) Window {
	if n <= 0 {
		return MonthWindow(anchor)
	}
	months := TrailingMonths(anchor, n)
	return Window{Start: months[0].Start, End: months[n-1].End}
}

// monthIndex is the number of calendar months from the month of from to the
// month of t, in from's location.
func monthIndex(from, t time.Time) int {
	t = t.In(from.Location())
	return (t.Year()-from.Year())*12 + int(t.Month()) - int(from.Month())
}
