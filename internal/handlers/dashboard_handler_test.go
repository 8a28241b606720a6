package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/analytics"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/services"
)

type mockDashboardService struct {
	getDashboardFn func(ctx context.Context, userID string, rng analytics.Window, now time.Time) (*analytics.Dashboard, error)
}

func (m *mockDashboardService) GetDashboard(ctx context.Context, userID string, rng analytics.Window, now time.Time) (*analytics.Dashboard, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(ctx, userID, rng, now)
	}
	return &analytics.Dashboard{Range: rng}, nil
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func setupDashboardRouter(svc services.DashboardServicer, now time.Time) *gin.Engine {
	handler := NewDashboardHandler(svc)
	handler.now = func() time.Time { return now }
	r := gin.New()
	r.GET("/dashboard", injectUserID(testUserID), handler.GetDashboard)
	return r
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 4, 5, 0, time.UTC)

	t.Run("defaults to the current month", func(t *testing.T) {
		var gotRange analytics.Window
		var gotNow time.Time
		svc := &mockDashboardService{
			getDashboardFn: func(_ context.Context, userID string, rng analytics.Window, n time.Time) (*analytics.Dashboard, error) {
				gotRange, gotNow = rng, n
				return &analytics.Dashboard{Range: rng, Insights: analytics.Insights{TopCategory: analytics.NoCategory}}, nil
			},
		}
		r := setupDashboardRouter(svc, now)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotRange != analytics.MonthWindow(now) {
			t.Errorf("expected March window, got %+v", gotRange)
		}
		if !gotNow.Equal(now) {
			t.Errorf("expected now %s, got %s", now, gotNow)
		}
		insights := parseJSON(t, rec)["insights"].(map[string]any)
		if insights["top_category"] != "None" {
			t.Errorf("expected top_category None, got %v", insights["top_category"])
		}
	})

	t.Run("accepts explicit range", func(t *testing.T) {
		var gotRange analytics.Window
		svc := &mockDashboardService{
			getDashboardFn: func(_ context.Context, _ string, rng analytics.Window, _ time.Time) (*analytics.Dashboard, error) {
				gotRange = rng
				return &analytics.Dashboard{}, nil
			},
		}
		r := setupDashboardRouter(svc, now)

		rec := doRequest(r, "GET", "/dashboard?start_date=2024-01-01&end_date=2024-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		wantEnd := time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC)
		if !gotRange.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || !gotRange.End.Equal(wantEnd) {
			t.Errorf("unexpected range %+v", gotRange)
		}
	})

	t.Run("date-only end covers the whole last day", func(t *testing.T) {
		var gotRange analytics.Window
		svc := &mockDashboardService{
			getDashboardFn: func(_ context.Context, _ string, rng analytics.Window, _ time.Time) (*analytics.Dashboard, error) {
				gotRange = rng
				return &analytics.Dashboard{}, nil
			},
		}
		r := setupDashboardRouter(svc, now)

		rec := doRequest(r, "GET", "/dashboard?start_date=2024-03-01&end_date=2024-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if days := gotRange.Days(); days != 31 {
			t.Errorf("expected 31 days, got %d", days)
		}
		if !gotRange.Contains(time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC)) {
			t.Errorf("expected range to include the evening of March 31, got %+v", gotRange)
		}
	})

	t.Run("returns 400 when end precedes start", func(t *testing.T) {
		r := setupDashboardRouter(&mockDashboardService{}, now)

		rec := doRequest(r, "GET", "/dashboard?start_date=2024-03-31&end_date=2024-03-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupDashboardRouter(&mockDashboardService{}, now)

		rec := doRequest(r, "GET", "/dashboard?start_date=March", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 503 when a source fails", func(t *testing.T) {
		svc := &mockDashboardService{
			getDashboardFn: func(context.Context, string, analytics.Window, time.Time) (*analytics.Dashboard, error) {
				return nil, apperrors.ErrDashboardUnavailable
			},
		}
		r := setupDashboardRouter(svc, now)

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DASHBOARD_UNAVAILABLE")
	})
}
