package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgetwise/internal/cache"
	"budgetwise/internal/config"
	"budgetwise/internal/database"
	"budgetwise/internal/handlers"
	"budgetwise/internal/logger"
	"budgetwise/internal/server"
	"budgetwise/internal/services"
	"budgetwise/internal/validator"
)

// @title           Budgetwise API
// @version         1.0
// @description     Budgetwise is a personal budgeting application that tracks income and expenses, manages category budgets, and reports on spending.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	categoryService := services.NewCategoryService(db)
	if err := categoryService.SeedDefaults(); err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Dashboard cache
	var dashboardCache cache.DashboardCache = cache.Noop{}
	if appConfig.RedisURL != "" {
		rc, err := cache.Connect(ctx, appConfig.RedisURL, appConfig.CacheTTL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rc.Close()
		dashboardCache = rc
		log.Infof("Dashboard cache enabled (ttl %s)", appConfig.CacheTTL)
	}

	// Initialize services
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db, dashboardCache)
	budgetService := services.NewBudgetService(db, dashboardCache)
	dashboardService := services.NewDashboardService(db, dashboardCache, appConfig.QueryTimeout)
	reportService := services.NewReportService(db, appConfig.QueryTimeout)
	auditService := services.NewAuditService(db)

	router := server.NewRouter(server.Handlers{
		Auth:        handlers.NewAuthHandler(userService),
		Category:    handlers.NewCategoryHandler(categoryService),
		Transaction: handlers.NewTransactionHandler(transactionService, auditService),
		Budget:      handlers.NewBudgetHandler(budgetService, auditService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
		Report:      handlers.NewReportHandler(reportService),
	}, server.Options{
		CORSOrigins: appConfig.CORSOrigins,
		AdminAPIKey: appConfig.AdminAPIKey,
		DB:          dbManager,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Budgetwise backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
