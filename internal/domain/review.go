package domain

import "time"

// Sentiment labels produced by the classifier. The order matches the
// label order stored in model artifacts.
const (
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
	LabelPositive = "positive"
)

// Labels lists all valid sentiment labels in artifact order.
var Labels = []string{LabelNegative, LabelNeutral, LabelPositive}

// ValidLabel reports whether s is one of the known sentiment labels.
func ValidLabel(s string) bool {
	for _, l := range Labels {
		if s == l {
			return true
		}
	}
	return false
}

// Review represents a single app-store review as published to the topic
type Review struct {
	ReviewID      string `json:"review_id"`
	AppID         string `json:"app_id"`
	Text          string `json:"text"`
	OriginalScore int    `json:"original_score"`
	Timestamp     int64  `json:"timestamp"`
}

// ClassifiedReview represents a review with its predicted sentiment, stored in ClickHouse
type ClassifiedReview struct {
	ReviewID       string    `ch:"review_id" json:"review_id"`
	AppID          string    `ch:"app_id" json:"app_id"`
	Text           string    `ch:"text" json:"text"`
	OriginalScore  int32     `ch:"original_score" json:"original_score"`
	Timestamp      int64     `ch:"timestamp" json:"timestamp"`
	PredictedLabel string    `ch:"predicted_label" json:"predicted_label"`
	Probabilities  []float64 `ch:"probabilities" json:"probabilities"`
	ProcessedAt    time.Time `ch:"processed_at" json:"processed_at"`
}
