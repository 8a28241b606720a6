package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"budgetwise/internal/analytics"
	"budgetwise/internal/cache"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/metrics"
	"budgetwise/internal/models"
)

// dashboardService loads dashboard inputs concurrently and composes them.
type dashboardService struct {
	db      *gorm.DB
	cache   cache.DashboardCache
	timeout time.Duration
}

// NewDashboardService creates a new DashboardServicer. timeout bounds the
// storage calls of a single dashboard; zero means no extra bound.
func NewDashboardService(db *gorm.DB, c cache.DashboardCache, timeout time.Duration) DashboardServicer {
	return &dashboardService{db: db, cache: c, timeout: timeout}
}

// GetDashboard returns the dashboard of userID for rng as of now. If any
// input fails to load the whole dashboard fails with DASHBOARD_UNAVAILABLE.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string, rng analytics.Window, now time.Time) (*analytics.Dashboard, error) {
	if rng.End.Before(rng.Start) {
		return nil, apperrors.ErrInvalidDateRange
	}
	now = now.UTC()

	key := cache.Key{OwnerID: userID, Range: rng, Today: analytics.StartOfDay(now)}
	dash, token, ok := s.cache.Get(ctx, key)
	if ok {
		return dash, nil
	}

	started := time.Now()
	in, err := s.load(ctx, userID, rng, now)
	if err != nil {
		logger.Get().Errorw("failed to load dashboard inputs", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrDashboardUnavailable, err)
	}

	dash, err = analytics.ComposeDashboard(*in)
	if err != nil {
		logger.Get().Errorw("failed to compose dashboard", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	metrics.DashboardBuild.Observe(time.Since(started).Seconds())

	s.cache.Set(ctx, token, dash)
	return dash, nil
}

func (s *dashboardService) load(ctx context.Context, userID string, rng analytics.Window, now time.Time) (*analytics.DashboardInput, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		rangeTxns []models.Transaction
		trendTxns []models.Transaction
		budgets   []models.Budget
	)
	trend := analytics.TrendWindow(now, analytics.TrendMonths)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Preload("Category").
			Where("user_id = ? AND date >= ? AND date <= ?", userID, rng.Start.UTC(), rng.End.UTC()).
			Order("date DESC").
			Find(&rangeTxns).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ? AND date >= ? AND date <= ?", userID, trend.Start, trend.End).
			Find(&trendTxns).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Preload("Categories").
			Where("user_id = ? AND end_date >= ?", userID, now).
			Order("end_date ASC").
			Find(&budgets).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Each budget's spend comes from its own window, not the requested range.
	spend := make([][]models.Transaction, len(budgets))
	g, gctx = errgroup.WithContext(ctx)
	for i := range budgets {
		g.Go(func() error {
			txns, err := budgetTransactions(s.db.WithContext(gctx), &budgets[i])
			spend[i] = txns
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inputs := make([]analytics.BudgetInput, len(budgets))
	for i := range budgets {
		inputs[i] = budgets[i].Analytics(spend[i])
	}

	return &analytics.DashboardInput{
		OwnerID:           userID,
		Range:             rng,
		Now:               now,
		RangeTransactions: models.ToAnalytics(rangeTxns),
		TrendTransactions: models.ToAnalytics(trendTxns),
		Budgets:           inputs,
	}, nil
}
