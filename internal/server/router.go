// Package server assembles the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"budgetwise/internal/handlers"
	"budgetwise/internal/metrics"
	"budgetwise/internal/middleware"

	_ "budgetwise/internal/docs" // Import swagger docs
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping() error
}

// Handlers bundles the HTTP handlers mounted by the router.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Category    *handlers.CategoryHandler
	Transaction *handlers.TransactionHandler
	Budget      *handlers.BudgetHandler
	Dashboard   *handlers.DashboardHandler
	Report      *handlers.ReportHandler
}

// Options configures the router.
type Options struct {
	CORSOrigins []string
	// AdminAPIKey guards /admin routes. Empty answers them with 503.
	AdminAPIKey string
	// DB backs the health check. Nil reports healthy unconditionally.
	DB Pinger
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/api/health", func(c *gin.Context) {
		if opts.DB != nil {
			if err := opts.DB.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(middleware.APIKeyMiddleware(opts.AdminAPIKey))
	admin.POST("/categories", h.Category.CreateCategory)
	admin.DELETE("/categories/:id", h.Category.DeleteCategory)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", h.Auth.GetProfile)
	protected.GET("/categories", h.Category.GetCategories)

	transactions := protected.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	protected.GET("/dashboard", h.Dashboard.GetDashboard)

	reports := protected.Group("/reports")
	reports.GET("", h.Report.GetReport)
	reports.GET("/export", h.Report.ExportTransactions)

	return router
}
