package classifier

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/queue"
)

// Receiver handles fetching messages from the review topic
type Receiver struct {
	consumer queue.MessageConsumer
	log      *zap.Logger
}

// NewReceiver creates a new topic receiver
func NewReceiver(consumer queue.MessageConsumer, log *zap.Logger) *Receiver {
	return &Receiver{
		consumer: consumer,
		log:      log,
	}
}

// Start begins fetching messages and sends them to the output channel
func (r *Receiver) Start(ctx context.Context, out chan<- queue.Message) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Receiver shutting down")
			return
		default:
			msg, err := r.consumer.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					r.log.Info("Receiver shutting down")
					return
				}
				r.log.Error("Error fetching message from topic", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}

			select {
			case <-ctx.Done():
				r.log.Info("Receiver shutting down while sending message")
				return
			case out <- msg:
				// Message sent to next stage
			}
		}
	}
}
