package queue

import (
	"context"

	"github.com/reviewstream/review-analytics-service/internal/domain"
)

// Message is a raw message read from the review topic. Topic, partition
// and offset are carried so the consumer can commit it after processing.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
}

// ReviewPublisher defines the interface for publishing reviews to the topic
type ReviewPublisher interface {
	PublishReview(ctx context.Context, review *domain.Review) error
	Close() error
}

// MessageConsumer defines the interface for consuming messages from the topic
type MessageConsumer interface {
	// FetchMessage blocks until a message is available or ctx is done.
	FetchMessage(ctx context.Context) (Message, error)

	// CommitMessage marks the message as processed. Uncommitted messages
	// are redelivered, giving at-least-once semantics.
	CommitMessage(ctx context.Context, msg Message) error

	Close() error
}
