package analytics

import "budgetwise/internal/money"

// SumExpenses totals the expense transactions of ownerID whose category is in
// categoryIDs and whose date falls inside window. Returns 0 when nothing matches.
func SumExpenses(txns []Transaction, ownerID string, categoryIDs []string, window Window) money.Cents {
	if len(categoryIDs) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		set[id] = struct{}{}
	}

	var total money.Cents
	for _, t := range txns {
		if t.Kind != Expense || t.OwnerID != ownerID {
			continue
		}
		if _, ok := set[t.CategoryID]; !ok {
			continue
		}
		if !window.Contains(t.Date) {
			continue
		}
		total += t.Amount
	}
	return total
}
