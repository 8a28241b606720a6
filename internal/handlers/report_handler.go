package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/services"
)

// ReportHandler serves monthly reports and CSV exports.
type ReportHandler struct {
	reportService services.ReportServicer
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// parseYearMonth reads the year and month query parameters, defaulting to
// the current UTC month.
func (h *ReportHandler) parseYearMonth(c *gin.Context) (int, time.Month, error) {
	now := h.now().UTC()
	year, month := now.Year(), now.Month()

	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be a four-digit number")
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// GetReport returns the monthly report
// @Summary     Get monthly report
// @Description Summary, savings rate, category breakdown, six-month trend and largest expenses for a month
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Year (default current)"
// @Param       month query int false "Month 1-12 (default current)"
// @Success     200 {object} analytics.Report "Report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Report temporarily unavailable"
// @Router      /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := h.parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), userID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportTransactions returns the month's transactions as CSV
// @Summary     Export transactions
// @Description Download the month's transactions as CSV (Date, Description, Category, Type, Amount)
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       year  query int false "Year (default current)"
// @Param       month query int false "Month 1-12 (default current)"
// @Success     200 {file} file "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Report temporarily unavailable"
// @Router      /reports/export [get]
func (h *ReportHandler) ExportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := h.parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Buffer so a failure can still be reported as a JSON error.
	var buf bytes.Buffer
	if _, err := h.reportService.ExportTransactionsCSV(c.Request.Context(), userID, year, month, &buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions-%d-%02d.csv", year, int(month))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
