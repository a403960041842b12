package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	scans := NewScanController(cfg.Decoder, cfg.AuditService)
	imports := NewImportController(cfg.ImportService, cfg.TaskClient, cfg.MaxUploadBytes, cfg.SpoolDir)
	auditController := NewAuditController(cfg.AuditService)

	router.GET("/healthz", health.Status)

	api := router.Group("/api")
	{
		api.POST("/scan/classify", scans.Classify)
		api.POST("/scan/image", scans.DecodeImage)

		api.POST("/import/books", imports.ImportBooks)
		api.POST("/import/students", imports.ImportStudents)

		api.GET("/audit", auditController.GetAuditEvents)
	}

	if cfg.Workflow != nil {
		circulation := NewTransactionsController(cfg.Workflow, cfg.AuditService)
		api.POST("/transactions/issue", circulation.Issue)
		api.POST("/transactions/return", circulation.Return)
		api.POST("/checkins", circulation.CheckIn)
	}

	return router
}
