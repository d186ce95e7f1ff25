package classifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/queue"
)

// ParserStage handles parsing topic messages into review envelopes
type ParserStage struct {
	consumer queue.MessageConsumer
	parser   ReviewParser
	log      *zap.Logger
}

// NewParserStage creates a new parser stage
func NewParserStage(consumer queue.MessageConsumer, parser ReviewParser, log *zap.Logger) *ParserStage {
	return &ParserStage{
		consumer: consumer,
		parser:   parser,
		log:      log,
	}
}

// Start begins parsing messages and outputs envelopes
func (p *ParserStage) Start(ctx context.Context, in <-chan queue.Message, out chan<- *Envelope) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Parser stage shutting down")
			return
		case msg, ok := <-in:
			if !ok {
				p.log.Info("Parser stage input channel closed")
				return
			}

			envelope := p.parseMessage(ctx, msg)
			if envelope == nil {
				continue
			}

			select {
			case <-ctx.Done():
				return
			case out <- envelope:
				// Envelope sent to next stage
			}
		}
	}
}

// parseMessage parses a single topic message into an envelope. Malformed
// messages are committed so they do not wedge the partition.
func (p *ParserStage) parseMessage(ctx context.Context, msg queue.Message) *Envelope {
	review, err := p.parser.Parse(msg.Value)

	if err != nil {
		p.log.Warn("Failed to parse message",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		if err := p.consumer.CommitMessage(ctx, msg); err != nil {
			p.log.Error("Failed to commit malformed message",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}
		return nil
	}

	ack := func(ctx context.Context) error {
		return p.consumer.CommitMessage(ctx, msg)
	}

	nack := func(ctx context.Context) error {
		// Leaving the offset uncommitted is enough; the message is
		// redelivered after a rebalance or restart.
		return nil
	}

	return NewEnvelope(review, ack, nack)
}
