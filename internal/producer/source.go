package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/domain"
)

// Source defines the interface for fetching reviews for one app
type Source interface {
	// FetchReviews returns the newest reviews for the app created at or
	// after since.
	FetchReviews(ctx context.Context, appID string, since time.Time) ([]domain.Review, error)
}

// HTTPSource fetches reviews from a JSON-over-HTTP review endpoint
type HTTPSource struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewHTTPSource creates a source client for the review endpoint
func NewHTTPSource(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FetchReviews requests the newest reviews for an app. The endpoint
// returns a JSON array of review objects in the topic message format.
func (s *HTTPSource) FetchReviews(ctx context.Context, appID string, since time.Time) ([]domain.Review, error) {
	endpoint := fmt.Sprintf("%s/apps/%s/reviews?since=%s",
		s.baseURL, url.PathEscape(appID), strconv.FormatInt(since.Unix(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.Error("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("review source returned status: %d", resp.StatusCode)
	}

	var reviews []domain.Review
	if err := json.NewDecoder(resp.Body).Decode(&reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}
