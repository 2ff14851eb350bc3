package main

import (
	"log"

	"student-records/config"
	"student-records/internal/server"
	"student-records/internal/ui"
	"student-records/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	appLogger := logger.New(logMode)
	logger.SetGlobalLogger(appLogger)
	defer appLogger.Sync()

	records := ui.NewRecordClient(cfg.RecordServiceURL, ui.DefaultClientTimeout)
	appLogger.Logger.Info("client ui configured",
		zap.String("record_service", records.BaseURL()),
		zap.Int("page_limit", cfg.UIPageLimit),
	)

	srv := server.NewUI(cfg, appLogger)
	ui.NewHandler(records, records.BaseURL(), cfg.UIPageLimit, appLogger).RegisterRoutes(srv.Engine())

	if err := srv.Start(); err != nil {
		appLogger.Logger.Error("server shutdown failed", zap.Error(err))
	}
}
