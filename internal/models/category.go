package models

// Category is shared reference data used to classify transactions and scope
// budgets. Categories are not owned by users.
type Category struct {
	Base
	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Icon  string `json:"icon"`
	Color string `gorm:"size:7" json:"color"`
}

// DefaultCategories are seeded on startup.
var DefaultCategories = []Category{
	{Name: "Housing", Icon: "home", Color: "#4F46E5"},
	{Name: "Food & Dining", Icon: "utensils", Color: "#F59E0B"},
	{Name: "Transportation", Icon: "car", Color: "#3B82F6"},
	{Name: "Utilities", Icon: "bolt", Color: "#10B981"},
	{Name: "Entertainment", Icon: "film", Color: "#EC4899"},
	{Name: "Healthcare", Icon: "heart-pulse", Color: "#EF4444"},
	{Name: "Shopping", Icon: "shopping-bag", Color: "#8B5CF6"},
	{Name: "Personal Care", Icon: "sparkles", Color: "#14B8A6"},
	{Name: "Education", Icon: "graduation-cap", Color: "#6366F1"},
	{Name: "Savings", Icon: "piggy-bank", Color: "#22C55E"},
	{Name: "Salary", Icon: "briefcase", Color: "#0EA5E9"},
	{Name: "Other", Icon: "ellipsis", Color: "#6B7280"},
}
