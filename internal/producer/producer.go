package producer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/queue"
)

// Producer polls the review source on a fixed interval and publishes
// new reviews to the topic. Dedup state is owned by the instance and
// lives only for the process lifetime.
type Producer struct {
	source    Source
	publisher queue.ReviewPublisher
	seen      SeenSet
	apps      []string
	interval  time.Duration
	log       *zap.Logger

	lastFetch map[string]time.Time
}

// New creates a producer for the configured apps
func New(source Source, publisher queue.ReviewPublisher, seen SeenSet, apps []string, interval time.Duration, log *zap.Logger) *Producer {
	return &Producer{
		source:    source,
		publisher: publisher,
		seen:      seen,
		apps:      apps,
		interval:  interval,
		log:       log,
		lastFetch: make(map[string]time.Time),
	}
}

// Run executes fetch cycles until ctx is done. The first cycle runs
// immediately, then one per interval.
func (p *Producer) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Producer shutting down",
				zap.Int("seen_reviews", p.seen.Len()))
			return ctx.Err()
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// runCycle fetches and publishes new reviews for every configured app.
// A failure for one app is logged and does not affect the others.
func (p *Producer) runCycle(ctx context.Context) {
	cycleStart := time.Now()

	for _, appID := range p.apps {
		published, err := p.fetchApp(ctx, appID)
		if err != nil {
			p.log.Warn("Fetch failed for app, skipping this cycle",
				zap.String("app_id", appID),
				zap.Error(err))
			continue
		}

		if published > 0 {
			p.log.Info("Published new reviews",
				zap.String("app_id", appID),
				zap.Int("count", published))
		}
	}

	p.log.Debug("Fetch cycle complete",
		zap.Duration("elapsed", time.Since(cycleStart)),
		zap.Int("seen_reviews", p.seen.Len()))
}

// fetchApp fetches one app's newest reviews and publishes the unseen ones
func (p *Producer) fetchApp(ctx context.Context, appID string) (int, error) {
	since := p.lastFetch[appID]

	reviews, err := p.source.FetchReviews(ctx, appID, since)
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range reviews {
		review := reviews[i]

		if review.ReviewID == "" {
			// Some sources omit ids; assign one so downstream dedup
			// and the uniqueness invariant still hold.
			review.ReviewID = uuid.NewString()
		}

		if p.seen.Seen(review.ReviewID) {
			continue
		}

		if review.AppID == "" {
			review.AppID = appID
		}
		if review.Timestamp == 0 {
			review.Timestamp = time.Now().Unix()
		}

		if err := p.publisher.PublishReview(ctx, &review); err != nil {
			p.log.Error("Failed to publish review",
				zap.String("review_id", review.ReviewID),
				zap.String("app_id", appID),
				zap.Error(err))
			continue
		}

		p.seen.Add(review.ReviewID)
		published++
	}

	p.lastFetch[appID] = time.Now()
	return published, nil
}
