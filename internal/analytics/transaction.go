package analytics

import (
	"time"

	"budgetwise/internal/money"
)

// Kind distinguishes income from expense entries.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// Transaction is the storage-independent view of a ledger entry consumed by
// the aggregation functions.
type Transaction struct {
	ID            string      `json:"id"`
	OwnerID       string      `json:"-"`
	Kind          Kind        `json:"type"`
	Amount        money.Cents `json:"amount"`
	CategoryID    string      `json:"category_id"`
	CategoryName  string      `json:"category_name"`
	CategoryIcon  string      `json:"category_icon,omitempty"`
	CategoryColor string      `json:"category_color,omitempty"`
	Date          time.Time   `json:"date"`
	Description   string      `json:"description,omitempty"`
}

// Totals sums income and expense amounts of txns.
func Totals(txns []Transaction) (income, expenses money.Cents) {
	for _, t := range txns {
		switch t.Kind {
		case Income:
			income += t.Amount
		case Expense:
			expenses += t.Amount
		}
	}
	return income, expenses
}

// OwnedWithin returns the transactions of ownerID dated inside w, keeping order.
func OwnedWithin(txns []Transaction, ownerID string, w Window) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if t.OwnerID == ownerID && w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
