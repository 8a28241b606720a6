package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
	"budgetwise/internal/pagination"
	"budgetwise/internal/services"
)

const testCategoryID = "0190a7a4-7e2b-7c1f-9a6e-2f3b4c5d6e90"

// --- mock transaction service ---

type mockTransactionService struct {
	createFn func(userID string, in services.TransactionInput) (*models.Transaction, error)
	listFn   func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getFn    func(userID, transactionID string) (*models.Transaction, error)
	updateFn func(userID, transactionID string, upd services.TransactionUpdate) (*models.Transaction, error)
	deleteFn func(userID, transactionID string) error
}

func (m *mockTransactionService) CreateTransaction(userID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listFn != nil {
		return m.listFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, upd services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, transactionID, upd)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, transactionID)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/:id", handler.GetTransaction)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 with decimal amount", func(t *testing.T) {
		var got services.TransactionInput
		svc := &mockTransactionService{
			createFn: func(userID string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{
					Base:       models.Base{ID: testOtherID},
					UserID:     userID,
					CategoryID: in.CategoryID,
					Type:       in.Type,
					Amount:     in.Amount,
					Date:       in.Date,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(svc, audit))

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":"120.50","category_id":"`+testCategoryID+`","date":"2024-03-10"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount != 12050 {
			t.Errorf("expected 12050 cents, got %d", got.Amount)
		}
		if !got.Date.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %s", got.Date)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]any)
		if tx["amount"] != 120.5 {
			t.Errorf("expected amount 120.5 in response, got %v", tx["amount"])
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "CREATE_TRANSACTION" {
			t.Errorf("expected CREATE_TRANSACTION audit entry, got %v", actions)
		}
	})

	t.Run("omitted date is left to the service", func(t *testing.T) {
		var got services.TransactionInput
		svc := &mockTransactionService{
			createFn: func(_ string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"type":"income","amount":3000,"category_id":"`+testCategoryID+`"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Date.IsZero() {
			t.Errorf("expected zero date, got %s", got.Date)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"invalid type", `{"type":"transfer","amount":10,"category_id":"` + testCategoryID + `"}`},
		{"zero amount", `{"type":"expense","amount":0,"category_id":"` + testCategoryID + `"}`},
		{"negative amount", `{"type":"expense","amount":"-5","category_id":"` + testCategoryID + `"}`},
		{"sub-cent amount", `{"type":"expense","amount":"1.005","category_id":"` + testCategoryID + `"}`},
		{"missing category", `{"type":"expense","amount":10}`},
		{"bad date", `{"type":"expense","amount":10,"category_id":"` + testCategoryID + `","date":"10/03/2024"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/transactions", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		svc := &mockTransactionService{
			createFn: func(string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidCategory
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"type":"expense","amount":10,"category_id":"`+testCategoryID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CATEGORY")
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes filters to the service", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.TransactionFilter
		svc := &mockTransactionService{
			listFn: func(_ string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotPage, gotFilter = page, filter
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 42)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?type=expense&category_id="+testCategoryID+
			"&start_date=2024-03-01&end_date=2024-03-31&search=coffee&page=2&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Error("expected expense type filter")
		}
		if gotFilter.CategoryID == nil || *gotFilter.CategoryID != testCategoryID {
			t.Error("expected category filter")
		}
		wantTo := time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC)
		if gotFilter.ToDate == nil || !gotFilter.ToDate.Equal(wantTo) {
			t.Errorf("expected end date to cover the whole day, got %v", gotFilter.ToDate)
		}
		if gotFilter.Search != "coffee" {
			t.Errorf("expected search coffee, got %q", gotFilter.Search)
		}
		if total := parseJSON(t, rec)["total_items"]; total != float64(42) {
			t.Errorf("expected total_items 42, got %v", total)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on reversed range", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?start_date=2024-03-31&end_date=2024-03-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns 404 for another user's transaction", func(t *testing.T) {
		svc := &mockTransactionService{
			getFn: func(string, string) (*models.Transaction, error) { return nil, apperrors.ErrTransactionNotFound },
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/"+testOtherID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})

	t.Run("returns 404 for malformed id", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/123", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	var got services.TransactionUpdate
	svc := &mockTransactionService{
		updateFn: func(_, _ string, upd services.TransactionUpdate) (*models.Transaction, error) {
			got = upd
			return &models.Transaction{}, nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/transactions/"+testOtherID, `{"amount":"99.99","date":"2024-04-01T10:00:00Z"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Amount == nil || *got.Amount != 9999 {
		t.Errorf("expected amount 9999, got %v", got.Amount)
	}
	if got.Date == nil || got.Date.Hour() != 10 {
		t.Errorf("expected RFC3339 date, got %v", got.Date)
	}
	if got.Type != nil || got.CategoryID != nil || got.Description != nil {
		t.Error("expected omitted fields to stay nil")
	}
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	audit := &mockAuditService{}
	r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, audit))

	rec := doRequest(r, "DELETE", "/transactions/"+testOtherID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if actions := audit.actions(); len(actions) != 1 || actions[0] != "DELETE_TRANSACTION" {
		t.Errorf("expected DELETE_TRANSACTION audit entry, got %v", actions)
	}
}
