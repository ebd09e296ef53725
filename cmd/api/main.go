package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"talnurt/internal/app"
	"talnurt/internal/config"
	"talnurt/internal/database"
	apphttp "talnurt/internal/http"
	"talnurt/internal/http/handlers"
	"talnurt/internal/http/metrics"
	httpmw "talnurt/internal/http/middleware"
	"talnurt/internal/http/response"
	"talnurt/internal/integration/notifier"
	"talnurt/internal/observability"
	"talnurt/internal/repository/postgres"
	"talnurt/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	actorRepo := postgres.NewActorRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	allocationRepo := postgres.NewAllocationRepository(db)
	submissionRepo := postgres.NewSubmissionRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	notifierClient := notifier.NewClient(cfg.NotifierBaseURL, cfg.NotifierInternalKey, &http.Client{Timeout: 5 * time.Second})

	accessPolicy := app.NewEmployerAccessPolicy(submissionRepo)
	recipientService := app.NewRecipientService(actorRepo)
	reportService := app.NewReportService(reportRepo, actorRepo, recipientService)
	allocationService := app.NewAllocationService(allocationRepo, actorRepo, accessPolicy, notifierClient, logger)
	submissionService := app.NewSubmissionService(submissionRepo, allocationRepo, actorRepo, accessPolicy, notifierClient, logger, cfg.ResubmitPolicy)
	directoryService := app.NewDirectoryService(actorRepo)

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		limiter = httpmw.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	reportHandler := handlers.NewReportHandler(reportService, recipientService, limiter)
	allocationHandler := handlers.NewAllocationHandler(allocationService, limiter)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	actorHandler := handlers.NewActorHandler(directoryService)
	middleware := httpmw.NewAuthMiddleware(jwtProvider)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		ReportHandler:     reportHandler,
		AllocationHandler: allocationHandler,
		SubmissionHandler: submissionHandler,
		ActorHandler:      actorHandler,
		MetricsHandler:    handlers.NewMetricsHandler(collector),
		AuthMiddleware:    middleware,
		Metrics:           collector,
		RequestTimeout:    cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
