package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reviewstream/review-analytics-service/internal/dto"
	"github.com/reviewstream/review-analytics-service/internal/service"
)

type Handler struct {
	dashboardService service.DashboardServicer
	router           *gin.Engine
	log              *zap.Logger
}

func NewHandler(dashboardService service.DashboardServicer, log *zap.Logger) *Handler {
	h := &Handler{
		dashboardService: dashboardService,
		router:           gin.Default(),
		log:              log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/api/summary", h.getSummary)
	h.router.GET("/api/trend", h.getTrend)
	h.router.GET("/api/words", h.getWords)
	h.router.GET("/api/reviews/latest", h.getLatest)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// getSummary handles GET /api/summary
func (h *Handler) getSummary(c *gin.Context) {
	var req dto.GetSummaryRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid summary request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.dashboardService.GetSummary(&req)
	if err != nil {
		h.log.Warn("Summary request rejected",
			zap.Error(err),
			zap.String("app_id", req.AppID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getTrend handles GET /api/trend
func (h *Handler) getTrend(c *gin.Context) {
	var req dto.GetTrendRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid trend request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.dashboardService.GetTrend(&req)
	if err != nil {
		h.log.Warn("Trend request rejected",
			zap.Error(err),
			zap.String("bucket", req.Bucket))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getWords handles GET /api/words
func (h *Handler) getWords(c *gin.Context) {
	var req dto.GetWordsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid words request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.dashboardService.GetWords(&req)
	if err != nil {
		h.log.Warn("Words request rejected",
			zap.Error(err),
			zap.String("label", req.Label))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getLatest handles GET /api/reviews/latest
func (h *Handler) getLatest(c *gin.Context) {
	var req dto.GetLatestRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid latest-reviews request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.dashboardService.GetLatest(&req)
	if err != nil {
		h.log.Warn("Latest-reviews request rejected",
			zap.Error(err),
			zap.String("label", req.Label))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
