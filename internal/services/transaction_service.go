package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"budgetwise/internal/cache"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
	"budgetwise/internal/pagination"
)

// MaxDescriptionLength bounds the free-text note on a transaction.
const MaxDescriptionLength = 500

// transactionService handles transaction-related business logic.
type transactionService struct {
	db    *gorm.DB
	cache cache.Invalidator
	now   func() time.Time
}

// NewTransactionService creates a new TransactionServicer. Every mutation
// invalidates the owner's cached dashboards through inv.
func NewTransactionService(db *gorm.DB, inv cache.Invalidator) TransactionServicer {
	return &transactionService{
		db:    db,
		cache: inv,
		now:   time.Now,
	}
}

func validateTransactionType(t models.TransactionType) error {
	switch t {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return nil
	}
	return apperrors.ErrInvalidTransactionType
}

// CreateTransaction records a new income or expense for a user
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionType(in.Type); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if len(in.Description) > MaxDescriptionLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 500 characters")
	}
	if _, err := checkCategoriesExist(s.db, []string{in.CategoryID}); err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        date.UTC(),
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Invalidate(context.Background(), userID)
	return s.GetTransactionByID(userID, transaction.ID)
}

// GetUserTransactions retrieves a paginated, filtered list of a user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	query := func() *gorm.DB {
		return applyTransactionFilters(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)
	}

	var totalItems int64
	if err := query().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := query().
		Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
// Transactions of other users are reported as not found.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the non-nil fields of upd
func (s *transactionService) UpdateTransaction(userID, transactionID string, upd TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if upd.Type != nil {
		if err := validateTransactionType(*upd.Type); err != nil {
			return nil, err
		}
		transaction.Type = *upd.Type
	}
	if upd.Amount != nil {
		if *upd.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		transaction.Amount = *upd.Amount
	}
	if upd.CategoryID != nil {
		if _, err := checkCategoriesExist(s.db, []string{*upd.CategoryID}); err != nil {
			return nil, err
		}
		transaction.CategoryID = *upd.CategoryID
	}
	if upd.Date != nil {
		transaction.Date = upd.Date.UTC()
	}
	if upd.Description != nil {
		if len(*upd.Description) > MaxDescriptionLength {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 500 characters")
		}
		transaction.Description = strings.TrimSpace(*upd.Description)
	}

	// The preloaded relation would otherwise overwrite CategoryID on save.
	transaction.Category = nil
	if err := s.db.Omit("Category").Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Invalidate(context.Background(), userID)
	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction deletes one of the user's transactions
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	result := s.db.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	s.cache.Invalidate(context.Background(), userID)
	return nil
}
