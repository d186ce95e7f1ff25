package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/classifier"
	"github.com/reviewstream/review-analytics-service/internal/config"
	"github.com/reviewstream/review-analytics-service/internal/logger"
	"github.com/reviewstream/review-analytics-service/internal/model"
	"github.com/reviewstream/review-analytics-service/internal/queue/kafka"
	"github.com/reviewstream/review-analytics-service/internal/repository/clickhouse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment, "classifier")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting classifier service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("model_path", cfg.Classifier.ModelPath))

	// A missing or incompatible model artifact is fatal at startup
	m, err := model.Load(cfg.Classifier.ModelPath)
	if err != nil {
		log.Fatal("Failed to load model artifact", zap.Error(err))
	}
	log.Info("Model artifact loaded",
		zap.String("version", m.Version()),
		zap.Int("dim", m.Dim()),
		zap.Strings("labels", m.Labels()))

	ctx := context.Background()

	chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	repo := clickhouse.NewRepository(chClient, log)

	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}
	log.Info("Database schema initialized")

	consumer := kafka.NewConsumer(cfg.Kafka, log)
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error("Failed to close Kafka reader", zap.Error(err))
		}
	}()

	c := classifier.New(cfg, consumer, m, repo, log)

	// Health endpoint: the classifier is healthy when its sink is reachable
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := repo.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Classifier.HealthPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	classifierCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Classifier starting")

	go func() {
		if err := c.Start(classifierCtx); err != nil {
			log.Fatal("Classifier error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down classifier gracefully")
	cancel()
}
