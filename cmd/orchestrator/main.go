package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/config"
	"github.com/reviewstream/review-analytics-service/internal/logger"
	"github.com/reviewstream/review-analytics-service/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment, "orchestrator")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting orchestrator",
		zap.String("environment", cfg.Service.Environment))

	specs := []supervisor.ProcessSpec{
		{
			Name:      "producer",
			Command:   cfg.Orchestrator.ProducerBin,
			HealthURL: cfg.Orchestrator.ProducerHealthURL,
		},
		{
			Name:      "classifier",
			Command:   cfg.Orchestrator.ClassifierBin,
			HealthURL: cfg.Orchestrator.ClassifierHealthURL,
		},
		{
			Name:      "dashboard",
			Command:   cfg.Orchestrator.DashboardBin,
			HealthURL: cfg.Orchestrator.DashboardHealthURL,
		},
	}

	sup := supervisor.New(specs, supervisor.Config{
		StartupTimeout: time.Duration(cfg.Orchestrator.StartupTimeoutSec) * time.Second,
		HealthPoll:     time.Duration(cfg.Orchestrator.HealthPollMillis) * time.Millisecond,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sup.Start(ctx); err != nil {
		log.Error("Launch sequence failed", zap.Error(err))
		sup.Stop()
		os.Exit(1)
	}

	log.Info("All pipeline processes running")
	for name, state := range sup.States() {
		log.Info("Process state",
			zap.String("name", name),
			zap.String("state", string(state)))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down pipeline")
	sup.Stop()
}
