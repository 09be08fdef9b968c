package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/agrarwerk/stallbuch/internal/config"
	"github.com/agrarwerk/stallbuch/internal/repository/mongodb"
	"github.com/agrarwerk/stallbuch/internal/repository/sheets"
	"github.com/agrarwerk/stallbuch/internal/repository/supabase"
	"github.com/agrarwerk/stallbuch/internal/scheduler"
	"github.com/agrarwerk/stallbuch/internal/server/handlers"
	"github.com/agrarwerk/stallbuch/internal/server/router"
	evaluationsvc "github.com/agrarwerk/stallbuch/internal/service/evaluation"
	"github.com/agrarwerk/stallbuch/internal/service/metrics"
	"github.com/agrarwerk/stallbuch/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	dataRepo := supabase.NewRESTRepository(cfg.Supabase, baseLogger.Named("repo.supabase"))

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Initialize the optional evaluation export
	var exportRepo sheets.Repository
	if cfg.SheetsExportEnabled() {
		exportRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("evaluation sheet export enabled")
	} else {
		baseLogger.Warn("sheet export not configured, evaluation rows will not be exported")
	}

	calculator := metrics.NewCalculator(metrics.HeadCountAllocator{}, time.Now)
	evaluationSvc := evaluationsvc.NewService(dataRepo, mongoRepo, exportRepo, calculator, baseLogger.Named("svc.evaluation"))

	metricsHandler := handlers.NewMetricsHandler(evaluationSvc, baseLogger.Named("handlers.metrics"))
	engine := router.New(metricsHandler, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(*cfg, evaluationSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
