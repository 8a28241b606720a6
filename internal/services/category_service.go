package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
)

// categoryService manages the shared category list.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories returns every category ordered by name
func (s *categoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// CreateCategory adds a category. A previously deleted category with the
// same name is restored instead.
func (s *categoryService) CreateCategory(name, icon, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var existing models.Category
	err := s.db.Unscoped().Where("name = ?", name).First(&existing).Error
	switch {
	case err == nil && !existing.DeletedAt.Valid:
		return nil, apperrors.ErrDuplicateCategory
	case err == nil:
		updates := map[string]interface{}{"deleted_at": nil, "icon": icon, "color": color}
		if err := s.db.Unscoped().Model(&existing).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.GetCategoryByID(existing.ID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category := &models.Category{Name: name, Icon: icon, Color: color}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes a category that no transaction or budget references
func (s *categoryService) DeleteCategory(id string) error {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	var budgetCount int64
	if err := s.db.Table("budget_categories").
		Joins("JOIN budgets ON budgets.id = budget_categories.budget_id AND budgets.deleted_at IS NULL").
		Where("budget_categories.category_id = ?", id).
		Count(&budgetCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budgetCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SeedDefaults inserts the default categories that have never existed.
// Defaults deleted by an administrator stay deleted.
func (s *categoryService) SeedDefaults() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, def := range models.DefaultCategories {
			var category models.Category
			err := tx.Unscoped().
				Where(models.Category{Name: def.Name}).
				Attrs(models.Category{Icon: def.Icon, Color: def.Color}).
				FirstOrCreate(&category).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
}

// checkCategoriesExist verifies every ID refers to a live category and
// returns them. Duplicate IDs are collapsed.
func checkCategoriesExist(db *gorm.DB, ids []string) ([]models.Category, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one category is required")
	}

	var categories []models.Category
	if err := db.Where("id IN ?", unique).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(categories) != len(unique) {
		return nil, apperrors.ErrInvalidCategory
	}
	return categories, nil
}
