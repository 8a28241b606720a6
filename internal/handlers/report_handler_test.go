package handlers

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/analytics"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/services"
)

type mockReportService struct {
	getReportFn func(ctx context.Context, userID string, year int, month time.Month) (*analytics.Report, error)
	exportFn    func(ctx context.Context, userID string, year int, month time.Month, w io.Writer) (int, error)
}

func (m *mockReportService) GetReport(ctx context.Context, userID string, year int, month time.Month) (*analytics.Report, error) {
	if m.getReportFn != nil {
		return m.getReportFn(ctx, userID, year, month)
	}
	return &analytics.Report{Year: year, Month: int(month)}, nil
}

func (m *mockReportService) ExportTransactionsCSV(ctx context.Context, userID string, year int, month time.Month, w io.Writer) (int, error) {
	if m.exportFn != nil {
		return m.exportFn(ctx, userID, year, month, w)
	}
	_, err := io.WriteString(w, "Date,Description,Category,Type,Amount\n")
	return 0, err
}

var _ services.ReportServicer = (*mockReportService)(nil)

func setupReportRouter(svc services.ReportServicer) *gin.Engine {
	handler := NewReportHandler(svc)
	handler.now = func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC) }
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/reports", handler.GetReport)
	auth.GET("/reports/export", handler.ExportTransactions)
	return r
}

func TestReportHandler_GetReport(t *testing.T) {
	t.Run("defaults to the current month", func(t *testing.T) {
		rec := doRequest(setupReportRouter(&mockReportService{}), "GET", "/reports", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["year"] != float64(2024) || result["month"] != float64(3) {
			t.Errorf("expected 2024-03, got %v-%v", result["year"], result["month"])
		}
	})

	t.Run("uses the selected month", func(t *testing.T) {
		rec := doRequest(setupReportRouter(&mockReportService{}), "GET", "/reports?year=2023&month=11", "")

		result := parseJSON(t, rec)
		if result["year"] != float64(2023) || result["month"] != float64(11) {
			t.Errorf("expected 2023-11, got %v-%v", result["year"], result["month"])
		}
	})

	for _, query := range []string{"month=13", "month=0", "month=march", "year=abc"} {
		t.Run("returns 400 on "+query, func(t *testing.T) {
			rec := doRequest(setupReportRouter(&mockReportService{}), "GET", "/reports?"+query, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 503 when a source fails", func(t *testing.T) {
		svc := &mockReportService{
			getReportFn: func(context.Context, string, int, time.Month) (*analytics.Report, error) {
				return nil, apperrors.ErrReportUnavailable
			},
		}
		rec := doRequest(setupReportRouter(svc), "GET", "/reports", "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestReportHandler_ExportTransactions(t *testing.T) {
	t.Run("returns csv attachment", func(t *testing.T) {
		svc := &mockReportService{
			exportFn: func(_ context.Context, _ string, _ int, _ time.Month, w io.Writer) (int, error) {
				_, err := io.WriteString(w, "Date,Description,Category,Type,Amount\n2024-02-03,Lunch,Food & Dining,EXPENSE,12.50\n")
				return 1, err
			},
		}
		rec := doRequest(setupReportRouter(svc), "GET", "/reports/export?year=2024&month=2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
			t.Errorf("unexpected content type %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="transactions-2024-02.csv"` {
			t.Errorf("unexpected content disposition %q", cd)
		}
		if body := rec.Body.String(); body != "Date,Description,Category,Type,Amount\n2024-02-03,Lunch,Food & Dining,EXPENSE,12.50\n" {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("returns json error on failure", func(t *testing.T) {
		svc := &mockReportService{
			exportFn: func(context.Context, string, int, time.Month, io.Writer) (int, error) {
				return 0, apperrors.ErrReportUnavailable
			},
		}
		rec := doRequest(setupReportRouter(svc), "GET", "/reports/export", "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REPORT_UNAVAILABLE")
	})
}
