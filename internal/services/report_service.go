package services

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"budgetwise/internal/analytics"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/models"
)

// CSVHeader is the first row of a transaction export.
var CSVHeader = []string{"Date", "Description", "Category", "Type", "Amount"}

// reportService builds monthly reports and CSV exports. Months are UTC
// calendar months.
type reportService struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, timeout time.Duration) ReportServicer {
	return &reportService{db: db, timeout: timeout}
}

func (s *reportService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *reportService) monthTransactions(ctx context.Context, userID string, window analytics.Window) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, window.Start, window.End).
		Order("date DESC, created_at DESC").
		Find(&txns).Error
	return txns, err
}

// GetReport returns the report for the given month with a trend of the six
// months ending at it.
func (s *reportService) GetReport(ctx context.Context, userID string, year int, month time.Month) (*analytics.Report, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	window := analytics.ReportWindow(year, month, time.UTC)
	trend := analytics.TrendWindow(window.Start, analytics.TrendMonths)

	var monthTxns, trendTxns []models.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		monthTxns, err = s.monthTransactions(gctx, userID, window)
		return err
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ? AND date >= ? AND date <= ?", userID, trend.Start, trend.End).
			Find(&trendTxns).Error
	})
	if err := g.Wait(); err != nil {
		logger.Get().Errorw("failed to load report inputs", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrReportUnavailable, err)
	}

	return analytics.ComposeReport(analytics.ReportInput{
		OwnerID:           userID,
		Year:              year,
		Month:             month,
		Location:          time.UTC,
		MonthTransactions: models.ToAnalytics(monthTxns),
		TrendTransactions: models.ToAnalytics(trendTxns),
	}), nil
}

// ExportTransactionsCSV writes the month's transactions as CSV, newest
// first, and returns the number of data rows written.
func (s *reportService) ExportTransactionsCSV(ctx context.Context, userID string, year int, month time.Month, w io.Writer) (int, error) {
	if month < time.January || month > time.December {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	txns, err := s.monthTransactions(ctx, userID, analytics.ReportWindow(year, month, time.UTC))
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrReportUnavailable, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, t := range txns {
		category := ""
		if t.Category != nil {
			category = t.Category.Name
		}
		row := []string{
			t.Date.UTC().Format(time.DateOnly),
			t.Description,
			category,
			strings.ToUpper(string(t.Type)),
			t.Amount.String(),
		}
		if err := cw.Write(row); err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(txns), nil
}
