package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/teamten/finhealth/internal/config"
	"github.com/teamten/finhealth/internal/repository/mongodb"
	"github.com/teamten/finhealth/internal/repository/sheets"
	"github.com/teamten/finhealth/internal/scheduler"
	"github.com/teamten/finhealth/internal/server/handlers"
	"github.com/teamten/finhealth/internal/server/router"
	analysissvc "github.com/teamten/finhealth/internal/service/analysis"
	marketdatasvc "github.com/teamten/finhealth/internal/service/marketdata"
	marketdataclient "github.com/teamten/finhealth/pkg/clients/marketdata"
	"github.com/teamten/finhealth/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	apiClient := marketdataclient.NewClient(cfg.MarketData, baseLogger.Named("client.marketdata"))
	fetcher := marketdatasvc.NewCachedFetcher(apiClient, cfg.MarketData.CacheTTL, baseLogger.Named("svc.marketdata"))

	// Initialize the optional Sheets export
	var exporter analysissvc.ResultExporter
	if cfg.Sheets.Enabled() {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("google sheets export enabled")
	} else {
		baseLogger.Warn("sheets export not configured, scored results will not be mirrored")
	}

	analysisSvc := analysissvc.NewService(fetcher, mongoRepo, exporter, cfg.Benchmark.MaxPeers, baseLogger.Named("svc.analysis"))
	analysisHandler := handlers.NewAnalysisHandler(analysisSvc, mongoRepo, baseLogger.Named("handlers.analysis"))
	engine := router.New(analysisHandler, baseLogger.Named("router"))

	// Initialize the cache warmer
	sched := scheduler.NewScheduler(cfg.Benchmark, fetcher, baseLogger.Named("scheduler"))
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
