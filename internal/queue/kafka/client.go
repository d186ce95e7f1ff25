package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/config"
	"github.com/reviewstream/review-analytics-service/internal/domain"
	"github.com/reviewstream/review-analytics-service/internal/queue"
)

// Publisher publishes reviews to the Kafka review topic
type Publisher struct {
	writer *kafkago.Writer
	log    *zap.Logger
}

// NewPublisher creates a Kafka-backed review publisher
func NewPublisher(cfg config.Kafka, log *zap.Logger) *Publisher {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}

	log.Info("Kafka writer created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic))

	return &Publisher{
		writer: writer,
		log:    log,
	}
}

// PublishReview serializes a review as JSON and publishes it, keyed by
// app_id so all reviews of one app land on the same partition in order.
func (p *Publisher) PublishReview(ctx context.Context, review *domain.Review) error {
	body, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("failed to marshal review: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(review.AppID),
		Value: body,
	})
	if err != nil {
		p.log.Error("Failed to publish review",
			zap.String("review_id", review.ReviewID),
			zap.String("app_id", review.AppID),
			zap.Error(err))
		return fmt.Errorf("failed to publish review: %w", err)
	}

	p.log.Debug("Review published",
		zap.String("review_id", review.ReviewID),
		zap.String("app_id", review.AppID))

	return nil
}

// Close closes the underlying Kafka writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Consumer reads messages from the Kafka review topic with explicit
// offset commits
type Consumer struct {
	reader *kafkago.Reader
	log    *zap.Logger
}

// NewConsumer creates a Kafka-backed message consumer
func NewConsumer(cfg config.Kafka, log *zap.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})

	log.Info("Kafka reader created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID))

	return &Consumer{
		reader: reader,
		log:    log,
	}
}

// FetchMessage blocks until a message is available. The offset is not
// committed until CommitMessage is called.
func (c *Consumer) FetchMessage(ctx context.Context) (queue.Message, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return queue.Message{}, err
	}

	return queue.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
	}, nil
}

// CommitMessage commits the message's offset to the consumer group
func (c *Consumer) CommitMessage(ctx context.Context, msg queue.Message) error {
	return c.reader.CommitMessages(ctx, kafkago.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	})
}

// Close closes the underlying Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
