package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/config"
	"github.com/reviewstream/review-analytics-service/internal/logger"
	"github.com/reviewstream/review-analytics-service/internal/producer"
	"github.com/reviewstream/review-analytics-service/internal/queue/kafka"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment, "producer")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting producer service",
		zap.String("environment", cfg.Service.Environment),
		zap.Strings("apps", cfg.Producer.AppIDs),
		zap.Int("poll_interval_sec", cfg.Producer.PollIntervalSec))

	publisher := kafka.NewPublisher(cfg.Kafka, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close Kafka writer", zap.Error(err))
		}
	}()

	source := producer.NewHTTPSource(
		cfg.Producer.SourceBaseURL,
		time.Duration(cfg.Producer.FetchTimeoutSec)*time.Second,
		log,
	)

	p := producer.New(
		source,
		publisher,
		producer.NewMemorySeenSet(),
		cfg.Producer.AppIDs,
		time.Duration(cfg.Producer.PollIntervalSec)*time.Second,
		log,
	)

	// Liveness endpoint for the orchestrator's health gate
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Producer.HealthPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("Producer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down producer gracefully")
	cancel()
}
