package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liliang-cn/azrag/internal/api/admin"
	"github.com/liliang-cn/azrag/internal/api/ask"
	"github.com/liliang-cn/azrag/internal/api/middleware"
	"github.com/liliang-cn/azrag/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
	Logger       *zap.Logger
}

// SetupRouter sets up the Gin router
func SetupRouter(
	asker ask.Asker,
	adminService *service.AdminService,
	cfg RouterConfig,
) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Question answering (public)
	ask.NewHandler(asker).RegisterRoutes(r)

	// Admin API (requires API key)
	if adminService != nil {
		adminHandler := admin.NewHandler(adminService)
		adminGroup := r.Group("/api/admin")
		adminGroup.Use(middleware.Auth(cfg.APIKey))
		adminHandler.RegisterRoutes(adminGroup)
	}

	return r
}
