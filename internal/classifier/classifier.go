package classifier

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/config"
	"github.com/reviewstream/review-analytics-service/internal/model"
	"github.com/reviewstream/review-analytics-service/internal/queue"
	"github.com/reviewstream/review-analytics-service/internal/repository"
	"github.com/reviewstream/review-analytics-service/internal/textproc"
)

// Classifier orchestrates the pipeline of stages that turn topic
// messages into classified records in the sink
type Classifier struct {
	receiver    *Receiver
	parser      *ParserStage
	classify    *ClassifyStage
	batchWriter *BatchWriter
}

// New creates a classifier with a pipeline architecture. The
// preprocessing pipeline is built from the model's own dimension and
// stop-word list so encoding always matches training time.
func New(cfg *config.Config, consumer queue.MessageConsumer, m *model.LogisticRegression, repo repository.ReviewRepository, log *zap.Logger) *Classifier {
	receiver := NewReceiver(consumer, log)

	parser := NewParserStage(consumer, NewJSONReviewParser(), log)

	pipeline := textproc.New(m.Dim(), m.Stopwords())
	classify := NewClassifyStage(pipeline, m, log)

	batchWriter := NewBatchWriter(repo, BatchWriterConfig{
		MaxBatchSize: cfg.Classifier.BatchSizeMax,
		FlushTimeout: time.Duration(cfg.Classifier.BatchTimeoutSec) * time.Second,
		RetryBackoff: time.Duration(cfg.Classifier.InsertRetrySec) * time.Second,
	}, log)

	return &Classifier{
		receiver:    receiver,
		parser:      parser,
		classify:    classify,
		batchWriter: batchWriter,
	}
}

// Start begins the classifier pipeline
func (c *Classifier) Start(ctx context.Context) error {
	messageChan := make(chan queue.Message, 100)
	envelopeChan := make(chan *Envelope, 100)
	resultChan := make(chan *ResultEnvelope, 100)

	var wg sync.WaitGroup

	wg.Add(4)

	// Stage 1: Receive messages from the topic
	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse messages into review envelopes
	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Preprocess and run model inference
	go func() {
		defer wg.Done()
		c.classify.Start(ctx, envelopeChan, resultChan)
	}()

	// Stage 4: Batch and write to the sink
	go func() {
		defer wg.Done()
		c.batchWriter.Start(ctx, resultChan)
	}()

	wg.Wait()
	return nil
}
