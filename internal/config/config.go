package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds settings shared by every component.
type Service struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

// Kafka holds broker connection settings for the review topic.
type Kafka struct {
	Brokers []string `envconfig:"BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"TOPIC" default:"app-reviews"`
	GroupID string   `envconfig:"GROUP_ID" default:"review-classifier"`
}

// ClickHouse holds connection settings for the classified-review sink.
type ClickHouse struct {
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            string `envconfig:"PORT" default:"9000"`
	Database        string `envconfig:"DB" default:"default"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	UseTLS          bool   `envconfig:"USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Producer holds settings for the review producer.
type Producer struct {
	SourceBaseURL   string   `envconfig:"SOURCE_BASE_URL" default:"http://localhost:9090"`
	AppIDs          []string `envconfig:"APP_IDS" default:"com.grab.passenger,com.shopee.my,com.tngdigital.ewallet,my.gov.mysejahtera,com.foodpanda.android"`
	PollIntervalSec int      `envconfig:"POLL_INTERVAL_SEC" default:"60"`
	FetchTimeoutSec int      `envconfig:"FETCH_TIMEOUT_SEC" default:"30"`
	HealthPort      string   `envconfig:"HEALTH_PORT" default:"8083"`
}

// Classifier holds settings for the stream classifier.
type Classifier struct {
	ModelPath       string `envconfig:"MODEL_PATH" default:"model/sentiment.json"`
	BatchSizeMax    int    `envconfig:"BATCH_SIZE_MAX" default:"500"`
	BatchTimeoutSec int    `envconfig:"BATCH_TIMEOUT_SEC" default:"10"`
	InsertRetrySec  int    `envconfig:"INSERT_RETRY_SEC" default:"1"`
	HealthPort      string `envconfig:"HEALTH_PORT" default:"8081"`
}

// Dashboard holds settings for the dashboard API.
type Dashboard struct {
	Port         string `envconfig:"PORT" default:"8080"`
	LatestLimit  int    `envconfig:"LATEST_LIMIT" default:"50"`
	WordTopN     int    `envconfig:"WORD_TOP_N" default:"40"`
	WordScanRows int    `envconfig:"WORD_SCAN_ROWS" default:"5000"`
	CacheTTLSec  int    `envconfig:"CACHE_TTL_SEC" default:"30"`
}

// Orchestrator holds settings for the process supervisor.
type Orchestrator struct {
	ProducerBin         string `envconfig:"PRODUCER_BIN" default:"bin/producer"`
	ClassifierBin       string `envconfig:"CLASSIFIER_BIN" default:"bin/classifier"`
	DashboardBin        string `envconfig:"DASHBOARD_BIN" default:"bin/dashboard"`
	StartupTimeoutSec   int    `envconfig:"STARTUP_TIMEOUT_SEC" default:"30"`
	HealthPollMillis    int    `envconfig:"HEALTH_POLL_MILLIS" default:"500"`
	ProducerHealthURL   string `envconfig:"PRODUCER_HEALTH_URL" default:"http://localhost:8083/health"`
	ClassifierHealthURL string `envconfig:"CLASSIFIER_HEALTH_URL" default:"http://localhost:8081/health"`
	DashboardHealthURL  string `envconfig:"DASHBOARD_HEALTH_URL" default:"http://localhost:8080/health"`
}

// Config is the full configuration shared by the pipeline binaries. Each
// binary reads only the sections it needs.
type Config struct {
	Service      Service
	Kafka        Kafka
	ClickHouse   ClickHouse
	Producer     Producer
	Classifier   Classifier
	Dashboard    Dashboard
	Orchestrator Orchestrator
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
