package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
	"budgetwise/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	listCategoriesFn func() ([]models.Category, error)
	createCategoryFn func(name, icon, color string) (*models.Category, error)
	deleteCategoryFn func(id string) error
}

func (m *mockCategoryService) ListCategories() ([]models.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn()
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return &models.Category{Base: models.Base{ID: id}}, nil
}

func (m *mockCategoryService) CreateCategory(name, icon, color string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(name, icon, color)
	}
	return &models.Category{Name: name, Icon: icon, Color: color}, nil
}

func (m *mockCategoryService) DeleteCategory(id string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(id)
	}
	return nil
}

func (m *mockCategoryService) SeedDefaults() error { return nil }

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.GET("/categories", injectUserID(testUserID), handler.GetCategories)
	r.POST("/admin/categories", handler.CreateCategory)
	r.DELETE("/admin/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_GetCategories(t *testing.T) {
	svc := &mockCategoryService{
		listCategoriesFn: func() ([]models.Category, error) {
			return []models.Category{{Name: "Food & Dining"}, {Name: "Housing"}}, nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc))

	rec := doRequest(r, "GET", "/categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	categories := parseJSON(t, rec)["categories"].([]any)
	if len(categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(categories))
	}
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/admin/categories", `{"name":"Pets","icon":"paw","color":"#A3E635"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		category := parseJSON(t, rec)["category"].(map[string]any)
		if category["name"] != "Pets" {
			t.Errorf("expected Pets, got %v", category["name"])
		}
	})

	t.Run("returns 400 on invalid color", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/admin/categories", `{"name":"Pets","color":"green"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(string, string, string) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/admin/categories", `{"name":"Housing"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var deleted string
		svc := &mockCategoryService{deleteCategoryFn: func(id string) error { deleted = id; return nil }}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "DELETE", "/admin/categories/"+testUserID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != testUserID {
			t.Errorf("expected delete of %s, got %s", testUserID, deleted)
		}
	})

	t.Run("returns 404 on malformed id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "DELETE", "/admin/categories/abc", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("returns 409 when in use", func(t *testing.T) {
		svc := &mockCategoryService{deleteCategoryFn: func(string) error { return apperrors.ErrCategoryInUse }}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "DELETE", "/admin/categories/"+testUserID, "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})
}
