package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/config"
	"github.com/reviewstream/review-analytics-service/internal/handler"
	"github.com/reviewstream/review-analytics-service/internal/logger"
	"github.com/reviewstream/review-analytics-service/internal/repository/clickhouse"
	"github.com/reviewstream/review-analytics-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment, "dashboard")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting dashboard service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Dashboard.Port))

	ctx := context.Background()

	chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(chClient *clickhouse.Client) {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(chClient)

	repo := clickhouse.NewRepository(chClient, log)

	dashboardService := service.NewDashboardService(repo, service.DashboardConfig{
		CacheTTL:     time.Duration(cfg.Dashboard.CacheTTLSec) * time.Second,
		WordTopN:     cfg.Dashboard.WordTopN,
		WordScanRows: cfg.Dashboard.WordScanRows,
		LatestLimit:  cfg.Dashboard.LatestLimit,
	}, log)

	h := handler.NewHandler(dashboardService, log)

	addr := fmt.Sprintf(":%s", cfg.Dashboard.Port)
	log.Info("Dashboard server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start dashboard server", zap.Error(err))
	}
}
