package models

import (
	"time"

	"budgetwise/internal/analytics"
	"budgetwise/internal/money"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single income or expense entry of a user
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index:idx_transactions_user_date" json:"user_id"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      money.Cents     `gorm:"type:bigint;not null" json:"amount"`
	Description string          `gorm:"size:500" json:"description"`
	Date        time.Time       `gorm:"not null;index:idx_transactions_user_date" json:"date"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Analytics converts the row to the aggregation engine's view. Category
// details are included when the relation is loaded.
func (t Transaction) Analytics() analytics.Transaction {
	at := analytics.Transaction{
		ID:          t.ID,
		OwnerID:     t.UserID,
		Kind:        analytics.Kind(t.Type),
		Amount:      t.Amount,
		CategoryID:  t.CategoryID,
		Date:        t.Date,
		Description: t.Description,
	}
	if t.Category != nil {
		at.CategoryName = t.Category.Name
		at.CategoryIcon = t.Category.Icon
		at.CategoryColor = t.Category.Color
	}
	return at
}

// ToAnalytics converts a slice of rows.
func ToAnalytics(txns []Transaction) []analytics.Transaction {
	out := make([]analytics.Transaction, len(txns))
	for i := range txns {
		out[i] = txns[i].Analytics()
	}
	return out
}
