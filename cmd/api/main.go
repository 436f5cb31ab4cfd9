package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	_ "github.com/prodtrackhq/prodtrack-api/api/swagger"
	"github.com/prodtrackhq/prodtrack-api/internal/handler"
	"github.com/prodtrackhq/prodtrack-api/internal/repository"
	"github.com/prodtrackhq/prodtrack-api/internal/router"
	"github.com/prodtrackhq/prodtrack-api/internal/seed"
	"github.com/prodtrackhq/prodtrack-api/internal/service"
	"github.com/prodtrackhq/prodtrack-api/pkg/cache"
	"github.com/prodtrackhq/prodtrack-api/pkg/config"
	"github.com/prodtrackhq/prodtrack-api/pkg/database"
	"github.com/prodtrackhq/prodtrack-api/pkg/jobs"
	"github.com/prodtrackhq/prodtrack-api/pkg/logger"
	"github.com/prodtrackhq/prodtrack-api/pkg/storage"
)

// @title ProdTrack API
// @version 1.0.0
// @description Production tracking backend: assignments, task completion, and reporting
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seed.Schema(ctx, db); err != nil {
		sugar.Fatalw("failed to apply schema", "error", err)
	}
	if cfg.Seed.Demo {
		if err := seed.Demo(ctx, db, logr); err != nil {
			sugar.Fatalw("failed to seed demo data", "error", err)
		}
	}

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		sugar.Warnw("redis unavailable, dashboard caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	reportJobRepo := repository.NewReportJobRepository(db)

	validate := validator.New()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "prodtrack-api",
	})
	assignmentSvc := service.NewAssignmentService(assignmentRepo, userRepo, cacheSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(assignmentRepo, userRepo, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})
	exportSvc := service.NewExportService(assignmentRepo, userRepo, logr)

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		sugar.Fatalw("failed to prepare report storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	var reportSvc *service.ReportService
	queue := jobs.NewQueue("reports", func(ctx context.Context, job jobs.Job) error {
		return reportSvc.ProcessJob(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportSvc = service.NewReportService(service.ReportServiceParams{
		Jobs:        reportJobRepo,
		Assignments: assignmentRepo,
		Queue:       queue,
		Storage:     store,
		Signer:      signer,
		Metrics:     metrics,
		Validator:   validate,
		Logger:      logr,
		ArtifactTTL: cfg.Reports.SignedURLTTL,
	})
	queue.Start(ctx)
	defer queue.Stop()

	scheduler := cron.New()
	spec := fmt.Sprintf("@every %s", cfg.Reports.CleanupInterval)
	if _, err := scheduler.AddFunc(spec, func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := reportSvc.Cleanup(cleanupCtx); err != nil {
			sugar.Warnw("report cleanup failed", "error", err)
		}
		if removed, err := store.CleanupOlderThan(cfg.Reports.SignedURLTTL * 2); err != nil {
			sugar.Warnw("artifact sweep failed", "error", err)
		} else if len(removed) > 0 {
			sugar.Infow("swept orphaned report artifacts", "count", len(removed))
		}
	}); err != nil {
		sugar.Fatalw("failed to schedule report cleanup", "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	engine := router.New(router.Params{
		Config:  cfg,
		Logger:  logr,
		Auth:    authSvc,
		Metrics: metrics,

		AuthHandler:       handler.NewAuthHandler(authSvc),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentSvc),
		TaskHandler:       handler.NewTaskHandler(assignmentSvc),
		DashboardHandler:  handler.NewDashboardHandler(dashboardSvc),
		ReportHandler:     handler.NewReportHandler(exportSvc, reportSvc),
		MetricsHandler:    handler.NewMetricsHandler(metrics),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		sugar.Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}
