package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/dto"
	"summarizer-backend/internal/summary/usecase"
)

// SummaryHandler handles summary-related HTTP requests
type SummaryHandler struct {
	summaryUsecase usecase.SummaryUsecase
	logger         *zap.SugaredLogger
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryUsecase usecase.SummaryUsecase, logger *zap.SugaredLogger) *SummaryHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SummaryHandler{
		summaryUsecase: summaryUsecase,
		logger:         logger,
	}
}

// CreateSummary stores a URL and queues its summary
// POST /api/summaries
func (h *SummaryHandler) CreateSummary(c *gin.Context) {
	var payload dto.SummaryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	id, err := h.summaryUsecase.CreateSummary(c.Request.Context(), payload)
	if err != nil {
		h.internalError(c, "create summary", err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id, URL: payload.URL})
}

// GetSummaries returns every record
// GET /api/summaries
func (h *SummaryHandler) GetSummaries(c *gin.Context) {
	summaries, err := h.summaryUsecase.GetAllSummaries(c.Request.Context())
	if err != nil {
		h.internalError(c, "list summaries", err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetSummaryByID returns a specific record
// GET /api/summaries/:id
func (h *SummaryHandler) GetSummaryByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	summary, err := h.summaryUsecase.GetSummary(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSummaryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found"})
			return
		}
		h.internalError(c, "get summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// UpdateSummary replaces url and summary of a record
// PUT /api/summaries/:id
func (h *SummaryHandler) UpdateSummary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload dto.SummaryUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.summaryUsecase.UpdateSummary(c.Request.Context(), id, payload)
	if err != nil {
		if errors.Is(err, domain.ErrSummaryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found"})
			return
		}
		h.internalError(c, "update summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteSummary removes a record and echoes what was removed
// DELETE /api/summaries/:id
func (h *SummaryHandler) DeleteSummary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	summary, err := h.summaryUsecase.GetSummary(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSummaryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found"})
			return
		}
		h.internalError(c, "delete summary", err)
		return
	}

	count, err := h.summaryUsecase.DeleteSummary(ctx, id)
	if err != nil {
		h.internalError(c, "delete summary", err)
		return
	}
	if count == 0 {
		// Removed concurrently between the lookup and the delete
		c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found"})
		return
	}

	c.JSON(http.StatusOK, dto.CreatedResponse{ID: summary.ID, URL: summary.URL})
}

// SearchSummaries ranks records by fuzzy relevance
// GET /api/summaries/search?q=golang&limit=20
func (h *SummaryHandler) SearchSummaries(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "query parameter 'q' is required"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be a positive integer"})
		return
	}

	summaries, err := h.summaryUsecase.SearchSummaries(c.Request.Context(), query, limit)
	if err != nil {
		h.internalError(c, "search summaries", err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// ImportFeed creates a record for each item of a feed
// POST /api/summaries/import
func (h *SummaryHandler) ImportFeed(c *gin.Context) {
	var req dto.FeedImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ids, err := h.summaryUsecase.ImportFeed(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrFeedUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Feed could not be fetched"})
			return
		}
		h.internalError(c, "import feed", err)
		return
	}

	c.JSON(http.StatusAccepted, dto.FeedImportResponse{IDs: ids, Count: len(ids)})
}

func (h *SummaryHandler) internalError(c *gin.Context, op string, err error) {
	h.logger.Errorw(op+" failed", "error", err, "request_id", c.GetString("requestID"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// parseID writes a 422 and reports false when :id is not a positive integer
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
