// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/config"
	"github.com/omstudio/studio-ops/internal/handlers"
	"github.com/omstudio/studio-ops/internal/middleware"
	"github.com/omstudio/studio-ops/internal/services"
	"github.com/omstudio/studio-ops/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	engine := services.NewEngine(db)

	// Initialize handlers
	assetHandler := handlers.NewAssetHandler(engine.Assets)
	equityHandler := handlers.NewEquityHandler(engine.Equity)
	employeeHandler := handlers.NewEmployeeHandler(engine.Employees)
	ledgerHandler := handlers.NewLedgerHandler(engine.Ledger)
	auditHandler := handlers.NewAuditHandler(engine.Audit)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	if cfg.Server.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(middleware.AuthRequired())
	{
		assets := v1.Group("/assets")
		{
			assets.GET("", assetHandler.GetAssets)
			assets.POST("", assetHandler.CreateAsset)
			assets.GET("/:id", assetHandler.GetAsset)
			assets.PUT("/:id", assetHandler.UpdateAsset)
			assets.POST("/:id/submit", assetHandler.SubmitForReview)
			assets.POST("/:id/sign", assetHandler.SignAsset)
			assets.POST("/:id/reject", assetHandler.RejectAsset)
		}

		equity := v1.Group("/equity")
		{
			equity.GET("/shareholders", equityHandler.GetShareholders)
			equity.POST("/shareholders", equityHandler.AddShareholder)
			equity.GET("/pool", equityHandler.GetPool)
			equity.PUT("/pool", equityHandler.ResizePool)
			equity.POST("/grants", equityHandler.GrantOptions)
			equity.GET("/summary", equityHandler.GetSummary)
		}

		employees := v1.Group("/employees")
		{
			employees.GET("", employeeHandler.GetEmployees)
			employees.POST("", employeeHandler.CreateEmployee)
			employees.GET("/:id", employeeHandler.GetEmployee)
		}

		ledger := v1.Group("/ledger")
		{
			ledger.GET("/contracts", ledgerHandler.GetContracts)
			ledger.POST("/contracts", ledgerHandler.RecordContract)
			ledger.GET("/receipts", ledgerHandler.GetReceipts)
			ledger.POST("/receipts", ledgerHandler.RecordReceipt)
			ledger.GET("/valuation", ledgerHandler.GetValuation)
		}

		// The audit trail is readable by admins only.
		v1.GET("/audit-logs", middleware.AdminRequired(), auditHandler.GetAuditLogs)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})

	return r
}
