package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/granthpal/libscan/internal/audit"
	"github.com/granthpal/libscan/internal/barcode"
	"github.com/granthpal/libscan/internal/config"
	"github.com/granthpal/libscan/internal/database"
	auditrepo "github.com/granthpal/libscan/internal/database/audit"
	"github.com/granthpal/libscan/internal/database/books"
	"github.com/granthpal/libscan/internal/database/students"
	"github.com/granthpal/libscan/internal/database/transactions"
	http_controllers "github.com/granthpal/libscan/internal/http"
	"github.com/granthpal/libscan/internal/importers"
	"github.com/granthpal/libscan/internal/scheduler"
	"github.com/granthpal/libscan/internal/tasks"
	"github.com/granthpal/libscan/internal/workflow"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server with
	// the configured timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting libscan v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories and services
	bookRepo := books.NewRepository(db.DB)
	studentRepo := students.NewRepository(db.DB)
	txnRepo := transactions.NewRepository(db.DB)
	auditRepo := auditrepo.NewRepository(db.DB)

	auditService := audit.NewService(auditRepo)
	importService := importers.NewService(bookRepo, studentRepo, auditService)
	workflowService := workflow.NewService(bookRepo, studentRepo, txnRepo, cfg.Fines.LoanDays)
	decoder := barcode.NewImageDecoder()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewImportDocumentQueue(importService),
			tasks.NewCleanupAuditEventsQueue(auditRepo),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Schedule the retention sweep once per startup
		if _, err := taskClient.Add(tasks.CleanupAuditEventsTask{
			RetentionDays: cfg.Audit.RetentionDays,
		}).Save(); err != nil {
			log.Printf("WARNING: Failed to enqueue audit cleanup: %v", err)
		}
	}

	// Start the fine accrual scheduler
	fineScheduler := scheduler.NewFineScheduler(txnRepo, auditService, scheduler.FinesConfig{
		Enabled:    cfg.Fines.Enabled,
		Schedule:   cfg.Fines.Schedule,
		RatePerDay: cfg.Fines.RatePerDay,
	})
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := fineScheduler.Start(schedulerCtx); err != nil {
		log.Fatalf("Failed to start fine scheduler: %v", err)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		ImportService:  importService,
		Workflow:       workflowService,
		AuditService:   auditService,
		Decoder:        decoder,
		TaskClient:     taskClient,
		MaxUploadBytes: cfg.Import.MaxUploadBytes,
		SpoolDir:       cfg.Import.SpoolDir,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		fineScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
