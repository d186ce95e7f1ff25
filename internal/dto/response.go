package dto

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"bucket must be hour or day"`
}

// SummaryCell is one app/label cell of the sentiment distribution
type SummaryCell struct {
	AppID string `json:"app_id" example:"com.grab.passenger"`
	Label string `json:"label" example:"positive"`
	Count uint64 `json:"count" example:"1500"`
}

// GetSummaryResponse represents the sentiment distribution response
type GetSummaryResponse struct {
	Total  uint64        `json:"total" example:"4200"`
	Counts []SummaryCell `json:"counts"`
}

// TrendPoint is one bucket/label point of the trend series
type TrendPoint struct {
	Bucket string `json:"bucket" example:"2025-08-01"`
	Label  string `json:"label" example:"negative"`
	Count  uint64 `json:"count" example:"37"`
}

// GetTrendResponse represents the sentiment trend response
type GetTrendResponse struct {
	Bucket string       `json:"bucket" example:"day"`
	Points []TrendPoint `json:"points"`
}

// WordCount is one entry of a word-frequency table
type WordCount struct {
	Word  string `json:"word" example:"crash"`
	Count uint64 `json:"count" example:"112"`
}

// LabelWords is the word-frequency table for one sentiment label
type LabelWords struct {
	Label string      `json:"label" example:"negative"`
	Words []WordCount `json:"words"`
}

// GetWordsResponse represents the word-frequency response
type GetWordsResponse struct {
	Groups []LabelWords `json:"groups"`
}

// ReviewRecord is a classified review as rendered by the dashboard
type ReviewRecord struct {
	ReviewID       string    `json:"review_id"`
	AppID          string    `json:"app_id"`
	Text           string    `json:"text"`
	OriginalScore  int32     `json:"original_score"`
	Timestamp      int64     `json:"timestamp"`
	PredictedLabel string    `json:"predicted_label"`
	Probabilities  []float64 `json:"probabilities"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// GetLatestResponse represents the latest-reviews response
type GetLatestResponse struct {
	Reviews []ReviewRecord `json:"reviews"`
}
