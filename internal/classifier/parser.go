package classifier

import (
	"encoding/json"
	"fmt"

	"github.com/reviewstream/review-analytics-service/internal/domain"
)

// ReviewParser defines the interface for parsing raw message bytes into reviews
type ReviewParser interface {
	Parse(body []byte) (*domain.Review, error)
}

// JSONReviewParser implements ReviewParser for the JSON topic message format
type JSONReviewParser struct{}

// NewJSONReviewParser creates a new JSON review parser
func NewJSONReviewParser() *JSONReviewParser {
	return &JSONReviewParser{}
}

// Parse parses a JSON message body into a Review. Empty text is valid
// (the classify stage substitutes a default feature vector for it), but
// a review without an id, app or an in-range star rating is rejected.
func (p *JSONReviewParser) Parse(body []byte) (*domain.Review, error) {
	var review domain.Review
	if err := json.Unmarshal(body, &review); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if review.ReviewID == "" {
		return nil, fmt.Errorf("missing review_id")
	}
	if review.AppID == "" {
		return nil, fmt.Errorf("missing app_id")
	}
	if review.OriginalScore < 1 || review.OriginalScore > 5 {
		return nil, fmt.Errorf("original_score out of range: %d", review.OriginalScore)
	}

	return &review, nil
}
