package models

import (
	"time"

	"budgetwise/internal/analytics"
	"budgetwise/internal/money"

	"gorm.io/gorm"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly   BudgetPeriod = "monthly"
	BudgetPeriodQuarterly BudgetPeriod = "quarterly"
	BudgetPeriodYearly    BudgetPeriod = "yearly"
)

// Budget caps spending across one or more categories over a period.
// EndDate is derived from StartDate and Period on every save.
type Budget struct {
	Base
	UserID    string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string       `gorm:"size:100;not null" json:"name"`
	Amount    money.Cents  `gorm:"type:bigint;not null" json:"amount"`
	Period    BudgetPeriod `gorm:"not null" json:"period"`
	StartDate time.Time    `gorm:"not null" json:"start_date"`
	EndDate   time.Time    `gorm:"not null;index" json:"end_date"`

	// Relationships
	Categories []Category `gorm:"many2many:budget_categories" json:"categories"`
}

// BeforeSave normalizes the start date and derives the end date
func (b *Budget) BeforeSave(tx *gorm.DB) error {
	b.StartDate = analytics.StartOfDay(b.StartDate.UTC())
	b.EndDate = analytics.PeriodEnd(b.StartDate, analytics.Period(b.Period))
	return nil
}

// CategoryIDs returns the IDs of the loaded categories.
func (b *Budget) CategoryIDs() []string {
	ids := make([]string, len(b.Categories))
	for i, c := range b.Categories {
		ids[i] = c.ID
	}
	return ids
}

// Analytics converts the budget and candidate transactions to the
// aggregation engine's input.
func (b *Budget) Analytics(txns []Transaction) analytics.BudgetInput {
	return analytics.BudgetInput{
		ID:           b.ID,
		Name:         b.Name,
		Period:       analytics.Period(b.Period),
		Allotted:     b.Amount,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		CategoryIDs:  b.CategoryIDs(),
		Transactions: ToAnalytics(txns),
	}
}
