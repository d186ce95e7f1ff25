package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/domain"
	"github.com/reviewstream/review-analytics-service/internal/repository"
)

// Repository implements ReviewRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema initializes the classified_reviews table. A plain
// MergeTree is used on purpose: delivery is at-least-once and duplicate
// review_ids are kept as separate rows rather than deduplicated.
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS classified_reviews (
		review_id String,
		app_id LowCardinality(String),
		text String,
		original_score Int32,
		timestamp Int64,
		predicted_label LowCardinality(String),
		probabilities Array(Float64),
		processed_at DateTime64(3) DEFAULT now64(3)
	) ENGINE = MergeTree
	ORDER BY (app_id, timestamp)
	PARTITION BY toYYYYMM(toDateTime(timestamp))
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create classified_reviews table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch inserts a batch of classified records as one prepared batch
func (r *Repository) InsertBatch(ctx context.Context, records []*domain.ClassifiedReview) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO classified_reviews")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	insertedCount := 0
	for _, record := range records {
		processedAt := record.ProcessedAt
		if processedAt.IsZero() {
			processedAt = time.Now()
		}

		probs := record.Probabilities
		if probs == nil {
			probs = []float64{}
		}

		err := batch.Append(
			record.ReviewID,
			record.AppID,
			record.Text,
			record.OriginalScore,
			record.Timestamp,
			record.PredictedLabel,
			probs,
			processedAt,
		)

		if err != nil {
			return 0, fmt.Errorf("failed to append record to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// GetSummary retrieves sentiment counts per app and label
func (r *Repository) GetSummary(ctx context.Context, query repository.SummaryQuery) ([]repository.SummaryRow, error) {
	where, args := buildFilter(query.AppID, "", query.From, query.To)

	q := fmt.Sprintf(`
		SELECT
			app_id,
			predicted_label,
			count() as total_count
		FROM classified_reviews
		%s
		GROUP BY app_id, predicted_label
		ORDER BY app_id, predicted_label
	`, where)

	rows, err := r.client.Conn().Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer r.closeRows(rows, "summary")

	result := []repository.SummaryRow{}
	for rows.Next() {
		var row repository.SummaryRow
		if err := rows.Scan(&row.AppID, &row.Label, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}

	return result, nil
}

// GetTrend retrieves time-bucketed sentiment counts. Bucket must be
// "hour" or "day"; validation happens in the service layer, but an
// unknown value is rejected here too.
func (r *Repository) GetTrend(ctx context.Context, query repository.TrendQuery) ([]repository.TrendRow, error) {
	var selectField, groupField string
	switch query.Bucket {
	case "hour":
		selectField = "formatDateTime(toStartOfHour(toDateTime(timestamp)), '%Y-%m-%d %H:00:00')"
		groupField = "toStartOfHour(toDateTime(timestamp))"
	case "day":
		selectField = "formatDateTime(toStartOfDay(toDateTime(timestamp)), '%Y-%m-%d')"
		groupField = "toStartOfDay(toDateTime(timestamp))"
	default:
		return nil, fmt.Errorf("unsupported bucket value: %s (supported: hour, day)", query.Bucket)
	}

	where, args := buildFilter(query.AppID, query.Label, query.From, query.To)

	q := fmt.Sprintf(`
		SELECT
			%s as bucket_start,
			predicted_label,
			count() as total_count
		FROM classified_reviews
		%s
		GROUP BY %s, predicted_label
		ORDER BY bucket_start ASC, predicted_label
	`, selectField, where, groupField)

	rows, err := r.client.Conn().Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer r.closeRows(rows, "trend")

	result := []repository.TrendRow{}
	for rows.Next() {
		var row repository.TrendRow
		if err := rows.Scan(&row.BucketStart, &row.Label, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trend rows: %w", err)
	}

	return result, nil
}

// GetLatest retrieves the most recently processed records
func (r *Repository) GetLatest(ctx context.Context, query repository.LatestQuery) ([]*domain.ClassifiedReview, error) {
	where, args := buildFilter(query.AppID, query.Label, 0, 0)
	args = append(args, query.Limit)

	q := fmt.Sprintf(`
		SELECT
			review_id, app_id, text, original_score, timestamp,
			predicted_label, probabilities, processed_at
		FROM classified_reviews
		%s
		ORDER BY processed_at DESC
		LIMIT ?
	`, where)

	rows, err := r.client.Conn().Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reviews: %w", err)
	}
	defer r.closeRows(rows, "latest")

	result := []*domain.ClassifiedReview{}
	for rows.Next() {
		var rec domain.ClassifiedReview
		err := rows.Scan(
			&rec.ReviewID,
			&rec.AppID,
			&rec.Text,
			&rec.OriginalScore,
			&rec.Timestamp,
			&rec.PredictedLabel,
			&rec.Probabilities,
			&rec.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan latest row: %w", err)
		}
		result = append(result, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating latest rows: %w", err)
	}

	return result, nil
}

// GetTexts retrieves recent non-empty review texts with their labels
func (r *Repository) GetTexts(ctx context.Context, query repository.TextsQuery) ([]repository.LabeledText, error) {
	where, args := buildFilter(query.AppID, query.Label, 0, 0)
	if where == "" {
		where = "WHERE text != ''"
	} else {
		where += " AND text != ''"
	}
	args = append(args, query.Limit)

	q := fmt.Sprintf(`
		SELECT predicted_label, text
		FROM classified_reviews
		%s
		ORDER BY processed_at DESC
		LIMIT ?
	`, where)

	rows, err := r.client.Conn().Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query texts: %w", err)
	}
	defer r.closeRows(rows, "texts")

	result := []repository.LabeledText{}
	for rows.Next() {
		var row repository.LabeledText
		if err := rows.Scan(&row.Label, &row.Text); err != nil {
			return nil, fmt.Errorf("failed to scan text row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating text rows: %w", err)
	}

	return result, nil
}

// buildFilter assembles WHERE clause and args for the optional app,
// label and time filters shared by the aggregate queries.
func buildFilter(appID, label string, from, to int64) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if appID != "" {
		clauses = append(clauses, "app_id = ?")
		args = append(args, appID)
	}
	if label != "" {
		clauses = append(clauses, "predicted_label = ?")
		args = append(args, label)
	}
	if from > 0 {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, from)
	}
	if to > 0 {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, to)
	}

	if len(clauses) == 0 {
		return "", args
	}

	where := "WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

func (r *Repository) closeRows(rows driver.Rows, query string) {
	if err := rows.Close(); err != nil {
		r.log.Error("Failed to close rows",
			zap.String("query", query),
			zap.Error(err))
	}
}
