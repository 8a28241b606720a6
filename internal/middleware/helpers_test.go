package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/config"
	"budgetwise/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	config.Set(&config.Config{
		Env:              "test",
		JWTSecret:        "test-secret",
		JWTExpirationDur: 15 * time.Minute,
	})
}
