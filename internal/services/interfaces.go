package services

import (
	"context"
	"io"
	"time"

	"budgetwise/internal/analytics"
	"budgetwise/internal/models"
	"budgetwise/internal/money"
	"budgetwise/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryServicer defines the contract for the shared category list.
type CategoryServicer interface {
	ListCategories() ([]models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	CreateCategory(name, icon, color string) (*models.Category, error)
	DeleteCategory(id string) error
	SeedDefaults() error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	// Search matches a case-insensitive substring of the description.
	Search string
}

// TransactionInput holds the fields of a new transaction. A zero Date means now.
type TransactionInput struct {
	Type        models.TransactionType
	Amount      money.Cents
	CategoryID  string
	Date        time.Time
	Description string
}

// TransactionUpdate holds the fields to change; nil fields are left as is.
type TransactionUpdate struct {
	Type        *models.TransactionType
	Amount      *money.Cents
	CategoryID  *string
	Date        *time.Time
	Description *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, upd TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetView is a stored budget with its progress computed at read time.
type BudgetView struct {
	models.Budget
	Spent     money.Cents `json:"spent"`
	Remaining money.Cents `json:"remaining"`
	// Percentage is clamped to 100 for display; RawPercentage is not.
	Percentage    float64          `json:"percentage"`
	RawPercentage float64          `json:"raw_percentage"`
	Status        analytics.Status `json:"status"`
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	Period *models.BudgetPeriod
	Status *analytics.Status
	Search string
}

// BudgetInput holds the fields of a new budget.
type BudgetInput struct {
	Name        string
	Amount      money.Cents
	Period      models.BudgetPeriod
	StartDate   time.Time
	CategoryIDs []string
}

// BudgetUpdate holds the fields to change; nil fields are left as is.
// A non-nil CategoryIDs replaces the budget's categories.
type BudgetUpdate struct {
	Name        *string
	Amount      *money.Cents
	Period      *models.BudgetPeriod
	StartDate   *time.Time
	CategoryIDs []string
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, in BudgetInput) (*BudgetView, error)
	GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[BudgetView], error)
	GetBudgetByID(userID, budgetID string) (*BudgetView, error)
	UpdateBudget(userID, budgetID string, upd BudgetUpdate) (*BudgetView, error)
	DeleteBudget(userID, budgetID string) error
}

// DashboardServicer builds the overview dashboard.
type DashboardServicer interface {
	GetDashboard(ctx context.Context, userID string, rng analytics.Window, now time.Time) (*analytics.Dashboard, error)
}

// ReportServicer builds monthly reports and exports.
type ReportServicer interface {
	GetReport(ctx context.Context, userID string, year int, month time.Month) (*analytics.Report, error)
	ExportTransactionsCSV(ctx context.Context, userID string, year int, month time.Month, w io.Writer) (int, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
