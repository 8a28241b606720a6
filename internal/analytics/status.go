package analytics

import (
	"errors"
	"math"
	"time"

	"budgetwise/internal/money"
)

// Status classifies a budget against its spend and period.
type Status string

const (
	StatusActive    Status = "active"
	StatusExceeded  Status = "exceeded"
	StatusCompleted Status = "completed"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExceeded, StatusCompleted:
		return true
	}
	return false
}

// AtRiskPercent is the usage at which a budget is counted as at risk.
const AtRiskPercent = 80

// ErrNonPositiveAllotment is returned when a budget's allotted amount is not
// positive. Creation-time validation makes this unreachable for stored budgets.
var ErrNonPositiveAllotment = errors.New("analytics: allotted amount must be positive")

// BudgetEvaluation is the computed progress of a budget.
type BudgetEvaluation struct {
	Allotted  money.Cents
	Spent     money.Cents
	Remaining money.Cents
	// Percentage is spent/allotted*100, not clamped.
	Percentage float64
	Status     Status
}

// DisplayPercentage is Percentage clamped to 100.
func (e BudgetEvaluation) DisplayPercentage() float64 {
	return math.Min(e.Percentage, 100)
}

// Exceeded reports whether spend is strictly over the allotment.
func (e BudgetEvaluation) Exceeded() bool {
	return e.Spent > e.Allotted
}

// AtRisk reports whether usage has reached AtRiskPercent. The comparison is
// done on cents so it is not affected by percentage rounding.
func (e BudgetEvaluation) AtRisk() bool {
	return int64(e.Spent)*100 >= int64(e.Allotted)*AtRiskPercent
}

// EvaluateBudget computes remaining amount, usage and status. completed takes
// precedence once now is past end; otherwise exceeded when spent > allotted.
func EvaluateBudget(allotted, spent money.Cents, end, now time.Time) (BudgetEvaluation, error) {
	if allotted <= 0 {
		return BudgetEvaluation{}, ErrNonPositiveAllotment
	}

	e := BudgetEvaluation{
		Allotted:   allotted,
		Spent:      spent,
		Remaining:  allotted - spent,
		Percentage: money.Percent(spent, allotted),
	}
	switch {
	case now.After(end):
		e.Status = StatusCompleted
	case e.Exceeded():
		e.Status = StatusExceeded
	default:
		e.Status = StatusActive
	}
	return e, nil
}
