package analytics

import (
	"time"

	"budgetwise/internal/money"
)

// TrendLabelLayout formats a trend point's month label.
const TrendLabelLayout = "Jan 2006"

// TrendPoint is one month of income and expense totals.
type TrendPoint struct {
	PeriodLabel string      `json:"period_label"`
	PeriodStart time.Time   `json:"period_start"`
	PeriodEnd   time.Time   `json:"period_end"`
	Income      money.Cents `json:"income"`
	Expenses    money.Cents `json:"expenses"`
	Net         money.Cents `json:"net"`
}

// BuildTrend buckets txns into the n months ending with the anchor's month.
// The result always has n points ordered oldest first; months without
// activity are zero. Transactions outside the trend window are ignored.
func BuildTrend(txns []Transaction, anchor time.Time, n int) []TrendPoint {
	windows := TrailingMonths(anchor, n)
	points := make([]TrendPoint, len(windows))
	for i, w := range windows {
		points[i] = TrendPoint{
			PeriodLabel: w.Start.Format(TrendLabelLayout),
			PeriodStart: w.Start,
			PeriodEnd:   w.End,
		}
	}
	if len(windows) == 0 {
		return points
	}

	first := windows[0].Start
	for _, t := range txns {
		idx := monthIndex(first, t.Date)
		if idx < 0 || idx >= len(points) {
			continue
		}
		switch t.Kind {
		case Income:
			points[idx].Income += t.Amount
		case Expense:
			points[idx].Expenses += t.Amount
		}
	}

	for i := range points {
		points[i].Net = points[i].Income - points[i].Expenses
	}
	return points
}
