package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/domain"
	"github.com/reviewstream/review-analytics-service/internal/dto"
	"github.com/reviewstream/review-analytics-service/internal/repository"
	"github.com/reviewstream/review-analytics-service/internal/textproc"
)

// DashboardService computes the dashboard aggregates from the sink. All
// aggregation is a pure function of the sink's current contents; a small
// TTL cache keeps previous results so a sink read failure degrades to
// stale data instead of an error, and repeated word-frequency requests
// avoid recomputation.
type DashboardService struct {
	repository   repository.ReviewRepository
	tokenizer    *textproc.Pipeline
	log          *zap.Logger
	cacheTTL     time.Duration
	wordTopN     int
	wordScanRows int
	latestLimit  int

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	value    interface{}
	storedAt time.Time
}

// DashboardConfig configures the dashboard service
type DashboardConfig struct {
	CacheTTL     time.Duration
	WordTopN     int
	WordScanRows int
	LatestLimit  int
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repo repository.ReviewRepository, cfg DashboardConfig, log *zap.Logger) *DashboardService {
	return &DashboardService{
		repository:   repo,
		tokenizer:    textproc.New(1, textproc.DefaultStopwords),
		log:          log,
		cacheTTL:     cfg.CacheTTL,
		wordTopN:     cfg.WordTopN,
		wordScanRows: cfg.WordScanRows,
		latestLimit:  cfg.LatestLimit,
		cache:        make(map[string]cacheEntry),
	}
}

// GetSummary retrieves sentiment counts per app and label. Apps or
// labels with no reviews simply have no cells; an empty sink yields an
// empty response with zero total.
func (s *DashboardService) GetSummary(req *dto.GetSummaryRequest) (*dto.GetSummaryResponse, error) {
	if err := validateRange(req.From, req.To); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("summary|%s|%d|%d", req.AppID, req.From, req.To)
	if cached := s.cached(key); cached != nil {
		return cached.(*dto.GetSummaryResponse), nil
	}

	rows, err := s.repository.GetSummary(context.Background(), repository.SummaryQuery{
		AppID: req.AppID,
		From:  req.From,
		To:    req.To,
	})
	if err != nil {
		s.log.Error("Failed to query summary, degrading", zap.Error(err))
		if stale := s.staleCached(key); stale != nil {
			return stale.(*dto.GetSummaryResponse), nil
		}
		return &dto.GetSummaryResponse{Counts: []dto.SummaryCell{}}, nil
	}

	response := &dto.GetSummaryResponse{
		Counts: make([]dto.SummaryCell, 0, len(rows)),
	}
	for _, row := range rows {
		response.Total += row.Count
		response.Counts = append(response.Counts, dto.SummaryCell{
			AppID: row.AppID,
			Label: row.Label,
			Count: row.Count,
		})
	}

	s.store(key, response)
	return response, nil
}

// GetTrend retrieves the time-bucketed sentiment trend
func (s *DashboardService) GetTrend(req *dto.GetTrendRequest) (*dto.GetTrendResponse, error) {
	bucket := req.Bucket
	if bucket == "" {
		bucket = "day"
	}
	if bucket != "hour" && bucket != "day" {
		return nil, fmt.Errorf("invalid bucket value: %s (supported: hour, day)", bucket)
	}
	if err := validateRange(req.From, req.To); err != nil {
		return nil, err
	}
	if req.Label != "" && !domain.ValidLabel(req.Label) {
		return nil, fmt.Errorf("invalid label: %s", req.Label)
	}

	// Hourly buckets over months of data produce unhelpfully wide series
	if bucket == "hour" && req.To > 0 && req.To-req.From > 90*24*3600 {
		return nil, fmt.Errorf("time range too large for hourly buckets (max 90 days)")
	}

	key := fmt.Sprintf("trend|%s|%s|%s|%d|%d", req.AppID, req.Label, bucket, req.From, req.To)
	if cached := s.cached(key); cached != nil {
		return cached.(*dto.GetTrendResponse), nil
	}

	rows, err := s.repository.GetTrend(context.Background(), repository.TrendQuery{
		AppID:  req.AppID,
		Label:  req.Label,
		Bucket: bucket,
		From:   req.From,
		To:     req.To,
	})
	if err != nil {
		s.log.Error("Failed to query trend, degrading", zap.Error(err))
		if stale := s.staleCached(key); stale != nil {
			return stale.(*dto.GetTrendResponse), nil
		}
		return &dto.GetTrendResponse{Bucket: bucket, Points: []dto.TrendPoint{}}, nil
	}

	response := &dto.GetTrendResponse{
		Bucket: bucket,
		Points: make([]dto.TrendPoint, 0, len(rows)),
	}
	for _, row := range rows {
		response.Points = append(response.Points, dto.TrendPoint{
			Bucket: row.BucketStart,
			Label:  row.Label,
			Count:  row.Count,
		})
	}

	s.store(key, response)
	return response, nil
}

// GetWords computes word-frequency tables per label from recent review
// texts
func (s *DashboardService) GetWords(req *dto.GetWordsRequest) (*dto.GetWordsResponse, error) {
	if req.Label != "" && !domain.ValidLabel(req.Label) {
		return nil, fmt.Errorf("invalid label: %s", req.Label)
	}

	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = s.wordTopN
	}

	key := fmt.Sprintf("words|%s|%s|%d", req.AppID, req.Label, limit)
	if cached := s.cached(key); cached != nil {
		return cached.(*dto.GetWordsResponse), nil
	}

	texts, err := s.repository.GetTexts(context.Background(), repository.TextsQuery{
		AppID: req.AppID,
		Label: req.Label,
		Limit: s.wordScanRows,
	})
	if err != nil {
		s.log.Error("Failed to query texts, degrading", zap.Error(err))
		if stale := s.staleCached(key); stale != nil {
			return stale.(*dto.GetWordsResponse), nil
		}
		return &dto.GetWordsResponse{Groups: []dto.LabelWords{}}, nil
	}

	response := s.countWords(texts, limit)
	s.store(key, response)
	return response, nil
}

// countWords tokenizes texts and keeps the top-N words per label
func (s *DashboardService) countWords(texts []repository.LabeledText, limit int) *dto.GetWordsResponse {
	counts := make(map[string]map[string]uint64)
	for _, t := range texts {
		if counts[t.Label] == nil {
			counts[t.Label] = make(map[string]uint64)
		}
		for _, token := range s.tokenizer.Tokenize(t.Text) {
			counts[t.Label][token]++
		}
	}

	response := &dto.GetWordsResponse{Groups: []dto.LabelWords{}}
	for _, label := range domain.Labels {
		words := counts[label]
		if len(words) == 0 {
			continue
		}

		table := make([]dto.WordCount, 0, len(words))
		for word, count := range words {
			table = append(table, dto.WordCount{Word: word, Count: count})
		}
		sort.Slice(table, func(i, j int) bool {
			if table[i].Count != table[j].Count {
				return table[i].Count > table[j].Count
			}
			return table[i].Word < table[j].Word
		})
		if len(table) > limit {
			table = table[:limit]
		}

		response.Groups = append(response.Groups, dto.LabelWords{
			Label: label,
			Words: table,
		})
	}

	return response
}

// GetLatest retrieves the most recently processed reviews
func (s *DashboardService) GetLatest(req *dto.GetLatestRequest) (*dto.GetLatestResponse, error) {
	if req.Label != "" && !domain.ValidLabel(req.Label) {
		return nil, fmt.Errorf("invalid label: %s", req.Label)
	}

	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = s.latestLimit
	}

	key := fmt.Sprintf("latest|%s|%s|%d", req.AppID, req.Label, limit)
	if cached := s.cached(key); cached != nil {
		return cached.(*dto.GetLatestResponse), nil
	}

	records, err := s.repository.GetLatest(context.Background(), repository.LatestQuery{
		AppID: req.AppID,
		Label: req.Label,
		Limit: limit,
	})
	if err != nil {
		s.log.Error("Failed to query latest reviews, degrading", zap.Error(err))
		if stale := s.staleCached(key); stale != nil {
			return stale.(*dto.GetLatestResponse), nil
		}
		return &dto.GetLatestResponse{Reviews: []dto.ReviewRecord{}}, nil
	}

	response := &dto.GetLatestResponse{
		Reviews: make([]dto.ReviewRecord, 0, len(records)),
	}
	for _, rec := range records {
		response.Reviews = append(response.Reviews, dto.ReviewRecord{
			ReviewID:       rec.ReviewID,
			AppID:          rec.AppID,
			Text:           rec.Text,
			OriginalScore:  rec.OriginalScore,
			Timestamp:      rec.Timestamp,
			PredictedLabel: rec.PredictedLabel,
			Probabilities:  rec.Probabilities,
			ProcessedAt:    rec.ProcessedAt,
		})
	}

	s.store(key, response)
	return response, nil
}

func validateRange(from, to int64) error {
	if from > 0 && to > 0 && from > to {
		return fmt.Errorf("from timestamp must be less than or equal to to timestamp")
	}
	return nil
}

// cached returns a fresh cache entry or nil
func (s *DashboardService) cached(key string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[key]
	if !ok || time.Since(entry.storedAt) > s.cacheTTL {
		return nil
	}
	return entry.value
}

// staleCached returns the last stored value regardless of TTL, used to
// serve stale data when the sink is unreachable
func (s *DashboardService) staleCached(key string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[key]
	if !ok {
		return nil
	}
	return entry.value
}

func (s *DashboardService) store(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cacheEntry{value: value, storedAt: time.Now()}
}
