package classifier

import (
	"context"

	"github.com/reviewstream/review-analytics-service/internal/domain"
)

// Envelope wraps a parsed review with acknowledgment callbacks tied to
// the underlying topic offset
type Envelope struct {
	Review *domain.Review
	ack    func(context.Context) error
	nack   func(context.Context) error
}

// NewEnvelope creates a new review envelope
func NewEnvelope(review *domain.Review, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Review: review,
		ack:    ack,
		nack:   nack,
	}
}

// Ack acknowledges successful processing (commits the offset)
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing; the offset is not committed
// and the message will be redelivered
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}

// ResultEnvelope wraps a classified record with the acknowledgment
// callbacks inherited from its source envelope
type ResultEnvelope struct {
	Record *domain.ClassifiedReview
	ack    func(context.Context) error
	nack   func(context.Context) error
}

// NewResultEnvelope creates an envelope for a classified record
func NewResultEnvelope(record *domain.ClassifiedReview, ack, nack func(context.Context) error) *ResultEnvelope {
	return &ResultEnvelope{
		Record: record,
		ack:    ack,
		nack:   nack,
	}
}

// Ack acknowledges successful processing
func (e *ResultEnvelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *ResultEnvelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
