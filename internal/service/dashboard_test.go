package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/domain"
	"github.com/reviewstream/review-analytics-service/internal/dto"
	"github.com/reviewstream/review-analytics-service/internal/repository"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) InsertBatch(ctx context.Context, records []*domain.ClassifiedReview) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReviewRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReviewRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockReviewRepository) GetSummary(ctx context.Context, query repository.SummaryQuery) ([]repository.SummaryRow, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SummaryRow), args.Error(1)
}

func (m *MockReviewRepository) GetTrend(ctx context.Context, query repository.TrendQuery) ([]repository.TrendRow, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TrendRow), args.Error(1)
}

func (m *MockReviewRepository) GetLatest(ctx context.Context, query repository.LatestQuery) ([]*domain.ClassifiedReview, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ClassifiedReview), args.Error(1)
}

func (m *MockReviewRepository) GetTexts(ctx context.Context, query repository.TextsQuery) ([]repository.LabeledText, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LabeledText), args.Error(1)
}

func newTestService(repo repository.ReviewRepository) *DashboardService {
	return NewDashboardService(repo, DashboardConfig{
		CacheTTL:     30 * time.Second,
		WordTopN:     40,
		WordScanRows: 5000,
		LatestLimit:  50,
	}, zap.NewNop())
}

func TestDashboardService_GetSummary_Success(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	rows := []repository.SummaryRow{
		{AppID: "com.grab.passenger", Label: domain.LabelPositive, Count: 12},
		{AppID: "com.grab.passenger", Label: domain.LabelNegative, Count: 3},
		{AppID: "com.shopee.my", Label: domain.LabelNeutral, Count: 5},
	}

	mockRepo.On("GetSummary", mock.Anything, mock.Anything).Return(rows, nil)

	response, err := svc.GetSummary(&dto.GetSummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, uint64(20), response.Total)
	assert.Len(t, response.Counts, 3)
}

func TestDashboardService_GetSummary_EmptySink(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("GetSummary", mock.Anything, mock.Anything).Return([]repository.SummaryRow{}, nil)

	response, err := svc.GetSummary(&dto.GetSummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, uint64(0), response.Total)
	assert.Empty(t, response.Counts)
}

func TestDashboardService_GetSummary_InvalidRange(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	_, err := svc.GetSummary(&dto.GetSummaryRequest{From: 200, To: 100})
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "GetSummary")
}

func TestDashboardService_GetSummary_RepositoryErrorDegrades(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("GetSummary", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	response, err := svc.GetSummary(&dto.GetSummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, uint64(0), response.Total)
	assert.Empty(t, response.Counts)
}

func TestDashboardService_GetSummary_ServesStaleOnError(t *testing.T) {
	mockRepo := new(MockReviewRepository)

	// Zero TTL so the cached value is stale immediately
	svc := NewDashboardService(mockRepo, DashboardConfig{
		CacheTTL:     0,
		WordTopN:     40,
		WordScanRows: 5000,
		LatestLimit:  50,
	}, zap.NewNop())

	rows := []repository.SummaryRow{
		{AppID: "com.grab.passenger", Label: domain.LabelPositive, Count: 7},
	}

	mockRepo.On("GetSummary", mock.Anything, mock.Anything).Return(rows, nil).Once()
	mockRepo.On("GetSummary", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	first, err := svc.GetSummary(&dto.GetSummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), first.Total)

	second, err := svc.GetSummary(&dto.GetSummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), second.Total, "stale cached summary should be served when the sink is unreachable")
}

func TestDashboardService_GetSummary_CacheHit(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	rows := []repository.SummaryRow{
		{AppID: "com.grab.passenger", Label: domain.LabelPositive, Count: 1},
	}

	mockRepo.On("GetSummary", mock.Anything, mock.Anything).Return(rows, nil).Once()

	_, err := svc.GetSummary(&dto.GetSummaryRequest{})
	require.NoError(t, err)

	_, err = svc.GetSummary(&dto.GetSummaryRequest{})
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "GetSummary", 1)
}

func TestDashboardService_GetTrend_Success(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	rows := []repository.TrendRow{
		{BucketStart: "2026-08-28", Label: domain.LabelPositive, Count: 4},
		{BucketStart: "2026-08-29", Label: domain.LabelPositive, Count: 6},
	}

	mockRepo.On("GetTrend", mock.Anything, mock.MatchedBy(func(q repository.TrendQuery) bool {
		return q.Bucket == "day"
	})).Return(rows, nil)

	response, err := svc.GetTrend(&dto.GetTrendRequest{})
	require.NoError(t, err)

	assert.Equal(t, "day", response.Bucket)
	assert.Len(t, response.Points, 2)
}

func TestDashboardService_GetTrend_Validation(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	_, err := svc.GetTrend(&dto.GetTrendRequest{Bucket: "week"})
	assert.Error(t, err)

	_, err = svc.GetTrend(&dto.GetTrendRequest{Label: "angry"})
	assert.Error(t, err)

	// 91 days of hourly buckets exceeds the cap
	_, err = svc.GetTrend(&dto.GetTrendRequest{
		Bucket: "hour",
		From:   0,
		To:     91 * 24 * 3600,
	})
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "GetTrend")
}

func TestDashboardService_GetWords_CountsAndOrders(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	texts := []repository.LabeledText{
		{Label: domain.LabelNegative, Text: "crash crash crash login"},
		{Label: domain.LabelNegative, Text: "login crash"},
		{Label: domain.LabelPositive, Text: "smooth checkout"},
	}

	mockRepo.On("GetTexts", mock.Anything, mock.Anything).Return(texts, nil)

	response, err := svc.GetWords(&dto.GetWordsRequest{})
	require.NoError(t, err)

	require.Len(t, response.Groups, 2)

	negative := response.Groups[0]
	assert.Equal(t, domain.LabelNegative, negative.Label)
	require.NotEmpty(t, negative.Words)
	assert.Equal(t, "crash", negative.Words[0].Word)
	assert.Equal(t, uint64(4), negative.Words[0].Count)

	positive := response.Groups[1]
	assert.Equal(t, domain.LabelPositive, positive.Label)
}

func TestDashboardService_GetWords_LimitTruncates(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	texts := []repository.LabeledText{
		{Label: domain.LabelNeutral, Text: "alpha bravo charlie delta echo"},
	}

	mockRepo.On("GetTexts", mock.Anything, mock.Anything).Return(texts, nil)

	response, err := svc.GetWords(&dto.GetWordsRequest{Limit: 2})
	require.NoError(t, err)

	require.Len(t, response.Groups, 1)
	assert.Len(t, response.Groups[0].Words, 2)
}

func TestDashboardService_GetLatest_Success(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	records := []*domain.ClassifiedReview{
		{
			ReviewID:       "r-1",
			AppID:          "com.grab.passenger",
			Text:           "Great app",
			OriginalScore:  5,
			Timestamp:      1766702552,
			PredictedLabel: domain.LabelPositive,
			Probabilities:  []float64{0.05, 0.1, 0.85},
			ProcessedAt:    time.Now(),
		},
	}

	mockRepo.On("GetLatest", mock.Anything, mock.MatchedBy(func(q repository.LatestQuery) bool {
		return q.Limit == 50
	})).Return(records, nil)

	response, err := svc.GetLatest(&dto.GetLatestRequest{})
	require.NoError(t, err)

	require.Len(t, response.Reviews, 1)
	assert.Equal(t, "r-1", response.Reviews[0].ReviewID)
	assert.Equal(t, domain.LabelPositive, response.Reviews[0].PredictedLabel)
}

func TestDashboardService_GetLatest_InvalidLabel(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestService(mockRepo)

	_, err := svc.GetLatest(&dto.GetLatestRequest{Label: "mixed"})
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "GetLatest")
}
