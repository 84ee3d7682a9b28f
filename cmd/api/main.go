package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	"github.com/BruksfildServices01/beauty-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/beauty-booking/internal/db"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/cache"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/events"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/payments"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/receipts"
	infraRepo "github.com/BruksfildServices01/beauty-booking/internal/infra/repository"
	"github.com/BruksfildServices01/beauty-booking/internal/jobs"
	"github.com/BruksfildServices01/beauty-booking/internal/logger"
	"github.com/BruksfildServices01/beauty-booking/internal/routes"
	ucReservation "github.com/BruksfildServices01/beauty-booking/internal/usecase/reservation"
)

func main() {

	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ======================================================
	// INFRA
	// ======================================================
	db := dbpkg.NewDB(cfg, zl)
	rdb := cache.NewRedisClient(cfg, zl)
	defer rdb.Close()

	gateway, err := payments.New(cfg, zl)
	if err != nil {
		zl.Fatal("failed to configure payments", zap.Error(err))
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, zl)
		if err != nil {
			zl.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer rabbit.Close()
		publisher = rabbit
	}

	var archiver receipts.Archiver = receipts.Noop{}
	if cfg.S3Bucket != "" {
		archiver = receipts.NewS3Archiver(cfg)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), zl)
	defer dispatcher.Close()

	queue := asynq.NewClient(jobs.RedisOpt(cfg))
	defer queue.Close()

	deps := ucReservation.Deps{
		Repo:      infraRepo.NewReservationGormRepository(db),
		Cache:     cache.NewBusyCache(rdb, cfg.AvailabilityCacheTTL),
		Payments:  gateway,
		Events:    publisher,
		Receipts:  archiver,
		Scheduler: jobs.NewScheduler(queue, zl),
		Audit:     dispatcher,
		Log:       zl,
	}

	// ======================================================
	// WORKER
	// ======================================================
	worker := jobs.NewWorker(
		jobs.RedisOpt(cfg),
		ucReservation.NewCompleteReservation(deps),
		ucReservation.NewSweepCompleted(deps),
		zl,
	)
	if err := worker.Start(); err != nil {
		zl.Fatal("failed to start worker", zap.Error(err))
	}
	defer worker.Shutdown()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:           db,
		Config:       cfg,
		Log:          zl,
		Sessions:     cache.NewSessionStore(rdb, cfg.SessionTTL),
		Reservations: deps,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
}
