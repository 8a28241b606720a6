package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"budgetwise/internal/analytics"
	"budgetwise/internal/cache"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/models"
	"budgetwise/internal/pagination"
)

// MaxBudgetNameLength bounds a budget's name.
const MaxBudgetNameLength = 100

// budgetService handles budget-related business logic. Progress is never
// stored; it is recomputed from transactions on every read.
type budgetService struct {
	db    *gorm.DB
	cache cache.Invalidator
	now   func() time.Time
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, inv cache.Invalidator) BudgetServicer {
	return &budgetService{
		db:    db,
		cache: inv,
		now:   time.Now,
	}
}

func validateBudgetName(name string) error {
	if name == "" || len(name) > MaxBudgetNameLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name must be between 1 and 100 characters")
	}
	return nil
}

func validateBudgetPeriod(p models.BudgetPeriod) error {
	if !analytics.Period(p).IsValid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be monthly, quarterly or yearly")
	}
	return nil
}

// CreateBudget creates a budget over one or more existing categories
func (s *budgetService) CreateBudget(userID string, in BudgetInput) (*BudgetView, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateBudgetName(name); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := validateBudgetPeriod(in.Period); err != nil {
		return nil, err
	}
	if in.StartDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}

	categories, err := checkCategoriesExist(s.db, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		Name:       name,
		Amount:     in.Amount,
		Period:     in.Period,
		StartDate:  in.StartDate,
		Categories: categories,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Invalidate(context.Background(), userID)
	return s.view(budget)
}

// GetUserBudgets lists a user's budgets with progress, newest first. The
// status filter applies to computed progress, so it runs after loading and
// pagination is applied to the filtered result.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[BudgetView], error) {
	query := s.db.Preload("Categories").Where("user_id = ?", userID)
	if filter.Period != nil {
		query = query.Where("period = ?", *filter.Period)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var budgets []models.Budget
	if err := query.Order("created_at DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]BudgetView, 0, len(budgets))
	for i := range budgets {
		v, err := s.view(&budgets[i])
		if err != nil {
			return nil, err
		}
		if filter.Status != nil && v.Status != *filter.Status {
			continue
		}
		views = append(views, *v)
	}

	result := pagination.Slice(views, page)
	return &result, nil
}

func (s *budgetService) getBudget(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Categories").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetByID retrieves a budget with its progress. Budgets of other
// users are reported as not found.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*BudgetView, error) {
	budget, err := s.getBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.view(budget)
}

// UpdateBudget applies the non-nil fields of upd. The end date follows any
// change of start date or period.
func (s *budgetService) UpdateBudget(userID, budgetID string, upd BudgetUpdate) (*BudgetView, error) {
	budget, err := s.getBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if err := validateBudgetName(name); err != nil {
			return nil, err
		}
		budget.Name = name
	}
	if upd.Amount != nil {
		if *upd.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		budget.Amount = *upd.Amount
	}
	if upd.Period != nil {
		if err := validateBudgetPeriod(*upd.Period); err != nil {
			return nil, err
		}
		budget.Period = *upd.Period
	}
	if upd.StartDate != nil {
		budget.StartDate = *upd.StartDate
	}

	var categories []models.Category
	if upd.CategoryIDs != nil {
		if categories, err = checkCategoriesExist(s.db, upd.CategoryIDs); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories").Save(budget).Error; err != nil {
			return err
		}
		if categories != nil {
			return tx.Model(budget).Association("Categories").Replace(categories)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Invalidate(context.Background(), userID)
	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget deletes one of the user's budgets and its category links
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.getBudget(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Select("Categories").Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Invalidate(context.Background(), userID)
	return nil
}

func (s *budgetService) view(budget *models.Budget) (*BudgetView, error) {
	txns, err := budgetTransactions(s.db, budget)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return newBudgetView(budget, txns, s.now())
}

// budgetTransactions loads the expenses that can count towards a budget.
func budgetTransactions(db *gorm.DB, budget *models.Budget) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := db.Where("user_id = ? AND type = ? AND category_id IN ? AND date >= ? AND date <= ?",
		budget.UserID, models.TransactionTypeExpense, budget.CategoryIDs(), budget.StartDate, budget.EndDate).
		Find(&txns).Error
	return txns, err
}

func newBudgetView(budget *models.Budget, txns []models.Transaction, now time.Time) (*BudgetView, error) {
	eval, err := budget.Analytics(txns).Evaluate(budget.UserID, now)
	if err != nil {
		logger.Get().Errorw("budget invariant violated", "budget_id", budget.ID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &BudgetView{
		Budget:        *budget,
		Spent:         eval.Spent,
		Remaining:     eval.Remaining,
		Percentage:    eval.DisplayPercentage(),
		RawPercentage: eval.Percentage,
		Status:        eval.Status,
	}, nil
}
