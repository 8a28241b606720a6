package analytics

import (
	"sort"

	"budgetwise/internal/money"
)

// CategorySpend is the expense total of one category.
type CategorySpend struct {
	CategoryID        string      `json:"category_id"`
	CategoryName      string      `json:"category_name"`
	CategoryColor     string      `json:"category_color,omitempty"`
	CategoryIcon      string      `json:"category_icon,omitempty"`
	Total             money.Cents `json:"total"`
	PercentageOfTotal float64     `json:"percentage"`
}

// RankCategories groups expense transactions by category and orders the
// groups by descending total. Equal totals keep the order in which their
// category was first seen.
func RankCategories(txns []Transaction) []CategorySpend {
	index := make(map[string]int)
	ranked := make([]CategorySpend, 0)
	var grand money.Cents

	for _, t := range txns {
		if t.Kind != Expense {
			continue
		}
		grand += t.Amount
		if i, ok := index[t.CategoryID]; ok {
			ranked[i].Total += t.Amount
			continue
		}
		index[t.CategoryID] = len(ranked)
		ranked = append(ranked, CategorySpend{
			CategoryID:    t.CategoryID,
			CategoryName:  t.CategoryName,
			CategoryColor: t.CategoryColor,
			CategoryIcon:  t.CategoryIcon,
			Total:         t.Amount,
		})
	}

	for i := range ranked {
		ranked[i].PercentageOfTotal = money.Percent(ranked[i].Total, grand)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	return ranked
}

// TopN returns at most k leading entries of ranked.
func TopN(ranked []CategorySpend, k int) []CategorySpend {
	if k < 0 {
		k = 0
	}
	if len(ranked) <= k {
		return ranked
	}
	return ranked[:k]
}
