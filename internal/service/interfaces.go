package service

import (
	"github.com/reviewstream/review-analytics-service/internal/dto"
)

// DashboardServicer defines the interface for dashboard aggregation operations
type DashboardServicer interface {
	GetSummary(req *dto.GetSummaryRequest) (*dto.GetSummaryResponse, error)
	GetTrend(req *dto.GetTrendRequest) (*dto.GetTrendResponse, error)
	GetWords(req *dto.GetWordsRequest) (*dto.GetWordsResponse, error)
	GetLatest(req *dto.GetLatestRequest) (*dto.GetLatestResponse, error)
}
