package classifier

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/domain"
	"github.com/reviewstream/review-analytics-service/internal/repository"
)

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
	RetryBackoff time.Duration
}

// BatchWriter buffers classified records and flushes them to the sink as
// one atomic insert per batch. A failed insert is retried in place:
// consumer-group offsets are per-partition watermarks, so committing any
// later batch would skip past the unwritten records for good. The stage
// therefore blocks on the failed batch until the sink accepts it, and
// only gives up on shutdown, leaving the offsets uncommitted for
// redelivery.
type BatchWriter struct {
	repository repository.ReviewRepository
	config     BatchWriterConfig
	log        *zap.Logger
}

// NewBatchWriter creates a new batch writer
func NewBatchWriter(repo repository.ReviewRepository, config BatchWriterConfig, log *zap.Logger) *BatchWriter {
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = time.Second
	}

	return &BatchWriter{
		repository: repo,
		config:     config,
		log:        log,
	}
}

// Start begins processing result envelopes, batching, and writing to the sink
func (w *BatchWriter) Start(ctx context.Context, in <-chan *ResultEnvelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*ResultEnvelope, 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			if len(batch) > 0 {
				w.log.Info("Flushing final batch", zap.Int("record_count", len(batch)))
				w.processBatch(ctx, batch)
			}
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				if len(batch) > 0 {
					w.log.Info("Flushing final batch", zap.Int("record_count", len(batch)))
					w.processBatch(ctx, batch)
				}
				return
			}

			batch = append(batch, envelope)

			if len(batch) >= w.config.MaxBatchSize {
				w.log.Info("Batch size threshold reached", zap.Int("batch_size", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*ResultEnvelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.log.Info("Batch timeout reached", zap.Int("record_count", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*ResultEnvelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// processBatch handles the atomic transaction: insert, retrying on
// failure, then ack. Offsets are only committed once every record of
// the batch is in the sink.
func (w *BatchWriter) processBatch(ctx context.Context, envelopes []*ResultEnvelope) {
	if len(envelopes) == 0 {
		return
	}

	records := make([]*domain.ClassifiedReview, len(envelopes))
	for i, env := range envelopes {
		records[i] = env.Record
	}

	for attempt := 1; ; attempt++ {
		insertedCount, err := w.repository.InsertBatch(ctx, records)

		if err == nil && insertedCount == len(records) {
			w.log.Info("Successfully inserted classified reviews",
				zap.Int("count", insertedCount),
				zap.Int("attempt", attempt))
			w.ackAll(ctx, envelopes)
			return
		}

		if err != nil {
			w.log.Error("Failed to insert batch, will retry",
				zap.Error(err),
				zap.Int("record_count", len(records)),
				zap.Int("attempt", attempt))
		} else {
			w.log.Warn("Partial insert success, will retry",
				zap.Int("inserted", insertedCount),
				zap.Int("expected", len(records)),
				zap.Int("attempt", attempt))
		}

		select {
		case <-ctx.Done():
			w.log.Warn("Abandoning batch on shutdown, offsets stay uncommitted for redelivery",
				zap.Int("record_count", len(records)))
			w.nackAll(ctx, envelopes)
			return
		case <-time.After(w.config.RetryBackoff):
		}
	}
}

// ackAll acknowledges all envelopes (commits their offsets)
func (w *BatchWriter) ackAll(ctx context.Context, envelopes []*ResultEnvelope) {
	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", zap.Error(err))
		}
	}
}

// nackAll negatively acknowledges all envelopes (leaves them for redelivery)
func (w *BatchWriter) nackAll(ctx context.Context, envelopes []*ResultEnvelope) {
	for _, env := range envelopes {
		if err := env.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope", zap.Error(err))
		}
	}
}
