package analytics

import (
	"fmt"
	"sort"
	"time"

	"budgetwise/internal/money"
)

const (
	// TrendMonths is the length of dashboard and report trend series.
	TrendMonths = 6
	// RecentLimit caps the dashboard's recent transaction list.
	RecentLimit = 10
	// TopExpenseLimit caps the report's largest-expense list.
	TopExpenseLimit = 10
	// NoCategory is the top category label when nothing was spent.
	NoCategory = "None"
)

// Summary holds the totals of a set of transactions.
type Summary struct {
	TotalIncome      money.Cents `json:"total_income"`
	TotalExpenses    money.Cents `json:"total_expenses"`
	NetSavings       money.Cents `json:"net_savings"`
	TransactionCount int         `json:"transaction_count"`
}

// Summarize totals txns.
func Summarize(txns []Transaction) Summary {
	income, expenses := Totals(txns)
	return Summary{
		TotalIncome:      income,
		TotalExpenses:    expenses,
		NetSavings:       income - expenses,
		TransactionCount: len(txns),
	}
}

// BudgetInput is a stored budget together with the candidate transactions
// its spend is computed from.
type BudgetInput struct {
	ID           string
	Name         string
	Period       Period
	Allotted     money.Cents
	StartDate    time.Time
	EndDate      time.Time
	CategoryIDs  []string
	Transactions []Transaction
}

// Window is the budget's own closed date range.
func (b BudgetInput) Window() Window {
	return Window{Start: b.StartDate, End: b.EndDate}
}

// Evaluate computes the budget's progress for ownerID at now.
func (b BudgetInput) Evaluate(ownerID string, now time.Time) (BudgetEvaluation, error) {
	spent := SumExpenses(b.Transactions, ownerID, b.CategoryIDs, b.Window())
	eval, err := EvaluateBudget(b.Allotted, spent, b.EndDate, now)
	if err != nil {
		return BudgetEvaluation{}, fmt.Errorf("budget %s: %w", b.ID, err)
	}
	return eval, nil
}

// BudgetStatus is a budget's computed progress as shown on the dashboard.
type BudgetStatus struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Period        Period      `json:"period"`
	Amount        money.Cents `json:"amount"`
	Spent         money.Cents `json:"spent"`
	Remaining     money.Cents `json:"remaining"`
	Percentage    float64     `json:"percentage"`
	RawPercentage float64     `json:"raw_percentage"`
	Status        Status      `json:"status"`
	StartDate     time.Time   `json:"start_date"`
	EndDate       time.Time   `json:"end_date"`
}

// Insights are derived highlights of a dashboard.
type Insights struct {
	AverageDailySpending money.Cents `json:"average_daily_spending"`
	TopCategory          string      `json:"top_category"`
	TopCategoryAmount    money.Cents `json:"top_category_amount"`
	BudgetsAtRisk        int         `json:"budgets_at_risk"`
}

// DashboardInput is everything ComposeDashboard needs. RangeTransactions
// cover Range; TrendTransactions cover TrendWindow(Now, TrendMonths).
type DashboardInput struct {
	OwnerID           string
	Range             Window
	Now               time.Time
	RangeTransactions []Transaction
	TrendTransactions []Transaction
	Budgets           []BudgetInput
}

// Dashboard is the composite overview for one owner.
type Dashboard struct {
	Range              Window          `json:"range"`
	Summary            Summary         `json:"summary"`
	SpendingByCategory []CategorySpend `json:"spending_by_category"`
	MonthlyTrends      []TrendPoint    `json:"monthly_trends"`
	Budgets            []BudgetStatus  `json:"budgets"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
	Insights           Insights        `json:"insights"`
}

// ComposeDashboard assembles a dashboard from a complete input. Budgets whose
// end date is before Now are left out. An error is returned only when a
// budget violates the positive-allotment invariant.
func ComposeDashboard(in DashboardInput) (*Dashboard, error) {
	txns := OwnedWithin(in.RangeTransactions, in.OwnerID, in.Range)
	summary := Summarize(txns)
	ranked := RankCategories(txns)

	trendTxns := OwnedWithin(in.TrendTransactions, in.OwnerID, TrendWindow(in.Now, TrendMonths))

	budgets := make([]BudgetStatus, 0, len(in.Budgets))
	atRisk := 0
	for _, b := range in.Budgets {
		if b.EndDate.Before(in.Now) {
			continue
		}
		eval, err := b.Evaluate(in.OwnerID, in.Now)
		if err != nil {
			return nil, err
		}
		if eval.AtRisk() {
			atRisk++
		}
		budgets = append(budgets, BudgetStatus{
			ID:            b.ID,
			Name:          b.Name,
			Period:        b.Period,
			Amount:        b.Allotted,
			Spent:         eval.Spent,
			Remaining:     eval.Remaining,
			Percentage:    eval.DisplayPercentage(),
			RawPercentage: eval.Percentage,
			Status:        eval.Status,
			StartDate:     b.StartDate,
			EndDate:       b.EndDate,
		})
	}

	insights := Insights{
		AverageDailySpending: money.PerDay(summary.TotalExpenses, in.Range.Days()),
		TopCategory:          NoCategory,
		BudgetsAtRisk:        atRisk,
	}
	if len(ranked) > 0 {
		insights.TopCategory = ranked[0].CategoryName
		insights.TopCategoryAmount = ranked[0].Total
	}

	return &Dashboard{
		Range:              in.Range,
		Summary:            summary,
		SpendingByCategory: ranked,
		MonthlyTrends:      BuildTrend(trendTxns, in.Now, TrendMonths),
		Budgets:            budgets,
		RecentTransactions: mostRecent(txns, RecentLimit),
		Insights:           insights,
	}, nil
}

func mostRecent(txns []Transaction, limit int) []Transaction {
	sorted := make([]Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// ReportWindow is the calendar month (year, month) in loc.
func ReportWindow(year int, month time.Month, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	return MonthWindow(time.Date(year, month, 1, 0, 0, 0, 0, loc))
}

// ReportInput is everything ComposeReport needs. MonthTransactions cover
// ReportWindow; TrendTransactions cover the TrendMonths ending at that month.
type ReportInput struct {
	OwnerID           string
	Year              int
	Month             time.Month
	Location          *time.Location
	MonthTransactions []Transaction
	TrendTransactions []Transaction
}

// ReportSummary extends Summary with the share of income that was saved.
type ReportSummary struct {
	Summary
	SavingsRate float64 `json:"savings_rate"`
}

// Report is the monthly report for one owner.
type Report struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	PeriodLabel        string          `json:"period_label"`
	Period             Window          `json:"period"`
	Summary            ReportSummary   `json:"summary"`
	SpendingByCategory []CategorySpend `json:"spending_by_category"`
	MonthlyTrends      []TrendPoint    `json:"monthly_trends"`
	TopTransactions    []Transaction   `json:"top_transactions"`
}

// ComposeReport assembles the report for the selected month. The trend is
// anchored at the selected month, not the current one.
func ComposeReport(in ReportInput) *Report {
	window := ReportWindow(in.Year, in.Month, in.Location)
	txns := OwnedWithin(in.MonthTransactions, in.OwnerID, window)
	summary := Summarize(txns)

	savingsRate := 0.0
	if summary.TotalIncome > 0 {
		savingsRate = money.Percent(summary.NetSavings, summary.TotalIncome)
	}

	trendTxns := OwnedWithin(in.TrendTransactions, in.OwnerID, TrendWindow(window.Start, TrendMonths))

	return &Report{
		Year:               in.Year,
		Month:              int(in.Month),
		PeriodLabel:        window.Start.Format("January 2006"),
		Period:             window,
		Summary:            ReportSummary{Summary: summary, SavingsRate: savingsRate},
		SpendingByCategory: RankCategories(txns),
		MonthlyTrends:      BuildTrend(trendTxns, window.Start, TrendMonths),
		TopTransactions:    largestExpenses(txns, TopExpenseLimit),
	}
}

func largestExpenses(txns []Transaction, limit int) []Transaction {
	expenses := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Kind == Expense {
			expenses = append(expenses, t)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		if expenses[i].Amount != expenses[j].Amount {
			return expenses[i].Amount > expenses[j].Amount
		}
		return expenses[i].Date.After(expenses[j].Date)
	})
	if len(expenses) > limit {
		expenses = expenses[:limit]
	}
	return expenses
}
