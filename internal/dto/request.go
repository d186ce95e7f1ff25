package dto

// GetSummaryRequest filters the sentiment distribution
type GetSummaryRequest struct {
	AppID string `form:"app_id" example:"com.grab.passenger"`
	From  int64  `form:"from" example:"1723475612"`
	To    int64  `form:"to" example:"1723562012"`
}

// GetTrendRequest filters the time-bucketed sentiment trend
type GetTrendRequest struct {
	AppID  string `form:"app_id" example:"com.grab.passenger"`
	Label  string `form:"label" example:"negative"`
	Bucket string `form:"bucket" example:"day"`
	From   int64  `form:"from" example:"1723475612"`
	To     int64  `form:"to" example:"1723562012"`
}

// GetWordsRequest filters the word-frequency tables
type GetWordsRequest struct {
	AppID string `form:"app_id" example:"com.grab.passenger"`
	Label string `form:"label" example:"positive"`
	Limit int    `form:"limit" example:"40"`
}

// GetLatestRequest selects the most recent classified reviews
type GetLatestRequest struct {
	AppID string `form:"app_id" example:"com.grab.passenger"`
	Label string `form:"label" example:"negative"`
	Limit int    `form:"limit" example:"50"`
}
