package classifier

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/domain"
	"github.com/reviewstream/review-analytics-service/internal/model"
	"github.com/reviewstream/review-analytics-service/internal/textproc"
)

// ClassifyStage applies the preprocessing pipeline and model inference
// to parsed reviews. It never drops a record: empty or all-stop-word
// text is classified on the zero feature vector instead of failing the
// batch, and every such substitution is counted.
type ClassifyStage struct {
	pipeline    *textproc.Pipeline
	model       model.Model
	log         *zap.Logger
	substituted uint64
}

// NewClassifyStage creates a new classify stage
func NewClassifyStage(pipeline *textproc.Pipeline, m model.Model, log *zap.Logger) *ClassifyStage {
	return &ClassifyStage{
		pipeline: pipeline,
		model:    m,
		log:      log,
	}
}

// Start begins classifying review envelopes and outputs result envelopes
func (s *ClassifyStage) Start(ctx context.Context, in <-chan *Envelope, out chan<- *ResultEnvelope) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Classify stage shutting down",
				zap.Uint64("empty_text_substitutions", s.substituted))
			return
		case envelope, ok := <-in:
			if !ok {
				s.log.Info("Classify stage input channel closed",
					zap.Uint64("empty_text_substitutions", s.substituted))
				return
			}

			record := s.classify(envelope.Review)
			result := NewResultEnvelope(record, envelope.ack, envelope.nack)

			select {
			case <-ctx.Done():
				return
			case out <- result:
				// Result sent to next stage
			}
		}
	}
}

// classify runs preprocessing and inference for one review
func (s *ClassifyStage) classify(review *domain.Review) *domain.ClassifiedReview {
	features := s.pipeline.Vectorize(review.Text)
	if textproc.IsZero(features) {
		s.substituted++
		s.log.Debug("Empty review text, using default feature vector",
			zap.String("review_id", review.ReviewID),
			zap.Uint64("total_substitutions", s.substituted))
	}

	label, probs := s.model.Predict(features)

	return &domain.ClassifiedReview{
		ReviewID:       review.ReviewID,
		AppID:          review.AppID,
		Text:           review.Text,
		OriginalScore:  int32(review.OriginalScore),
		Timestamp:      review.Timestamp,
		PredictedLabel: label,
		Probabilities:  probs,
		ProcessedAt:    time.Now(),
	}
}
