package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/analytics"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/services"
)

// DashboardHandler serves the overview dashboard.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	now              func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, now: time.Now}
}

// GetDashboard returns the dashboard for a date range
// @Summary     Get dashboard
// @Description Totals, category breakdown, six-month trend, current budgets, recent transactions and insights. The range defaults to the current month.
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Range start (YYYY-MM-DD or RFC3339)"
// @Param       end_date   query string false "Range end (YYYY-MM-DD or RFC3339), inclusive"
// @Success     200 {object} analytics.Dashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Dashboard temporarily unavailable"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := h.now().UTC()
	rng := analytics.MonthWindow(now)

	start, err := parseOptionalDate(c, "start_date", false)
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseOptionalDate(c, "end_date", true)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if start != nil {
		rng.Start = *start
	}
	if end != nil {
		rng.End = *end
	}
	if rng.End.Before(rng.Start) {
		respondWithError(c, apperrors.ErrInvalidDateRange)
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), userID, rng, now)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
