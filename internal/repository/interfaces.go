package repository

import (
	"context"

	"github.com/reviewstream/review-analytics-service/internal/domain"
)

// SummaryQuery filters the per-app, per-label sentiment counts
type SummaryQuery struct {
	AppID string
	From  int64
	To    int64
}

// SummaryRow is one cell of the sentiment distribution
type SummaryRow struct {
	AppID string
	Label string
	Count uint64
}

// TrendQuery filters the time-bucketed sentiment trend. Bucket is
// "hour" or "day".
type TrendQuery struct {
	AppID  string
	Label  string
	Bucket string
	From   int64
	To     int64
}

// TrendRow is one point of the sentiment trend series
type TrendRow struct {
	BucketStart string
	Label       string
	Count       uint64
}

// LatestQuery selects the most recently processed records
type LatestQuery struct {
	AppID string
	Label string
	Limit int
}

// TextsQuery selects recent non-empty review texts for word frequencies
type TextsQuery struct {
	AppID string
	Label string
	Limit int
}

// LabeledText pairs a review text with its predicted label
type LabeledText struct {
	Label string
	Text  string
}

// ReviewRepository defines the interface for the classified-review sink
type ReviewRepository interface {
	// InsertBatch appends a batch of classified records as one atomic insert
	InsertBatch(ctx context.Context, records []*domain.ClassifiedReview) (int, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error

	// GetSummary retrieves sentiment counts per app and label
	GetSummary(ctx context.Context, query SummaryQuery) ([]SummaryRow, error)

	// GetTrend retrieves time-bucketed sentiment counts
	GetTrend(ctx context.Context, query TrendQuery) ([]TrendRow, error)

	// GetLatest retrieves the most recently processed records
	GetLatest(ctx context.Context, query LatestQuery) ([]*domain.ClassifiedReview, error)

	// GetTexts retrieves recent review texts with their labels
	GetTexts(ctx context.Context, query TextsQuery) ([]LabeledText, error)
}
