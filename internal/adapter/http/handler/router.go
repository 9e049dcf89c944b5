package handler

import (
	"taxcore/internal/adapter/http/middleware"
	"taxcore/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TaxSvc         ports.TaxService
	CostBasisSvc   ports.CostBasisService
	CorrectionSvc  ports.CorrectionService
	LedgerSvc      ports.LedgerService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	taxHandler := NewTaxHandler(deps.TaxSvc)
	assetHandler := NewAssetHandler(deps.CostBasisSvc)
	recordHandler := NewRecordHandler(deps.CorrectionSvc)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)

	// API v1 routes, all JWT-authenticated
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	tax := v1.Group("/tax")
	{
		tax.POST("/calculations", taxHandler.Compute)
	}

	rules := v1.Group("/rules")
	{
		rules.POST("", taxHandler.PublishTable)
		rules.GET("/:tax_type", taxHandler.GetActiveTable)
	}

	assets := v1.Group("/assets")
	{
		assets.POST("/acquisitions", assetHandler.RecordAcquisition)
		assets.POST("/disposals", assetHandler.ApplyDisposal)
		assets.POST("/income", assetHandler.RecordIncomeEvent)
	}

	records := v1.Group("/records")
	{
		records.POST("", recordHandler.Create)
		records.GET("", recordHandler.List)
		records.POST("/:id/corrections", recordHandler.Correct)
		records.POST("/:id/finalize", recordHandler.Finalize)
		records.GET("/:id/history", recordHandler.GetHistory)
	}

	audit := v1.Group("/audit")
	{
		audit.GET("", ledgerHandler.ListRecent)
		audit.GET("/verify", ledgerHandler.Verify)
	}

	return r
}
