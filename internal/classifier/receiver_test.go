package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/queue"
)

// MockMessageConsumer is a mock implementation of queue.MessageConsumer
type MockMessageConsumer struct {
	mock.Mock
}

func (m *MockMessageConsumer) FetchMessage(ctx context.Context) (queue.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(queue.Message), args.Error(1)
}

func (m *MockMessageConsumer) CommitMessage(ctx context.Context, msg queue.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageConsumer) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestReceiver_Start_Success(t *testing.T) {
	mockConsumer := new(MockMessageConsumer)
	log := zap.NewNop()

	receiver := NewReceiver(mockConsumer, log)

	msg1 := queue.Message{Topic: "app-reviews", Partition: 0, Offset: 41, Value: []byte(`{"review_id": "1"}`)}
	msg2 := queue.Message{Topic: "app-reviews", Partition: 0, Offset: 42, Value: []byte(`{"review_id": "2"}`)}

	// Two messages, then a canceled fetch to stop the loop
	mockConsumer.On("FetchMessage", mock.Anything).Return(msg1, nil).Once()
	mockConsumer.On("FetchMessage", mock.Anything).Return(msg2, nil).Once()
	mockConsumer.On("FetchMessage", mock.Anything).Return(queue.Message{}, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan queue.Message, 10)

	go receiver.Start(ctx, out)

	var received []queue.Message
	timeout := time.After(200 * time.Millisecond)
	done := false

	for !done {
		select {
		case msg, ok := <-out:
			if !ok {
				done = true
				break
			}
			received = append(received, msg)
		case <-timeout:
			done = true
		}
	}

	assert.Len(t, received, 2)
	assert.Equal(t, int64(41), received[0].Offset)
	assert.Equal(t, int64(42), received[1].Offset)
}

func TestReceiver_Start_FetchErrorContinues(t *testing.T) {
	mockConsumer := new(MockMessageConsumer)
	log := zap.NewNop()

	receiver := NewReceiver(mockConsumer, log)

	fetchErr := errors.New("broker connection error")
	msg := queue.Message{Topic: "app-reviews", Partition: 0, Offset: 7, Value: []byte(`{"review_id": "1"}`)}

	mockConsumer.On("FetchMessage", mock.Anything).Return(queue.Message{}, fetchErr).Once()
	mockConsumer.On("FetchMessage", mock.Anything).Return(msg, nil).Once()
	mockConsumer.On("FetchMessage", mock.Anything).Return(queue.Message{}, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan queue.Message, 10)

	go receiver.Start(ctx, out)

	// The receiver backs off one second after a fetch error before retrying
	select {
	case received := <-out:
		assert.Equal(t, int64(7), received.Offset)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the receiver to recover after a fetch error")
	}

	mockConsumer.AssertExpectations(t)
}

func TestReceiver_Start_ContextCanceled(t *testing.T) {
	mockConsumer := new(MockMessageConsumer)
	log := zap.NewNop()

	receiver := NewReceiver(mockConsumer, log)

	mockConsumer.On("FetchMessage", mock.Anything).Return(queue.Message{}, context.Canceled).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan queue.Message, 10)

	go receiver.Start(ctx, out)

	select {
	case _, ok := <-out:
		assert.False(t, ok, "output channel should be closed on shutdown")
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected output channel to close after context cancellation")
	}
}
