package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summarizer-backend/pkg/ai"
)

// RuntimeConfig holds runtime-configurable settings
type RuntimeConfig struct {
	OllamaBaseURL string `json:"ollama_base_url"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// SettingsHandler serves and updates RuntimeConfig.
// Its getters are handed to the Ollama summarizer so changes apply to the next job.
type SettingsHandler struct {
	mu     sync.RWMutex
	config RuntimeConfig
	client *http.Client
	logger *zap.SugaredLogger
}

// NewSettingsHandler initializes runtime config from static config
func NewSettingsHandler(ollamaBaseURL, ollamaModel string, logger *zap.SugaredLogger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SettingsHandler{
		config: RuntimeConfig{
			OllamaBaseURL: ollamaBaseURL,
			OllamaModel:   ollamaModel,
		},
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

// OllamaBaseURL returns the current runtime Ollama base URL
func (h *SettingsHandler) OllamaBaseURL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config.OllamaBaseURL
}

// OllamaModel returns the current runtime Ollama model
func (h *SettingsHandler) OllamaModel() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config.OllamaModel
}

// UpdateOllamaSettingsRequest represents the request body for updating Ollama settings
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required,url"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// GetOllamaSettings returns current Ollama configuration
// GET /api/settings/ollama
func (h *SettingsHandler) GetOllamaSettings(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": h.config.OllamaBaseURL,
		"ollama_model":    h.config.OllamaModel,
	})
}

// UpdateOllamaSettings updates Ollama configuration at runtime
// PUT /api/settings/ollama
func (h *SettingsHandler) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.config.OllamaBaseURL = strings.TrimRight(req.OllamaBaseURL, "/")
	if req.OllamaModel != "" {
		h.config.OllamaModel = req.OllamaModel
	}
	current := h.config
	h.mu.Unlock()

	h.logger.Infow("ollama settings updated", "base_url", current.OllamaBaseURL, "model", current.OllamaModel)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": current.OllamaBaseURL,
		"ollama_model":    current.OllamaModel,
	})
}

// TestOllamaConnection tests if the Ollama server is reachable
// POST /api/settings/ollama/test
func (h *SettingsHandler) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	// No body means test the current config
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.OllamaBaseURL()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	client, err := ai.NewOllamaClient(req.OllamaBaseURL, h.client)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"connected": false, "error": "invalid ollama_base_url"})
		return
	}

	// Listing local models doubles as a reachability check
	models, err := client.List(ctx)
	if err != nil {
		h.logger.Debugw("ollama connection test failed", "base_url", req.OllamaBaseURL, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
		"models":          len(models.Models),
	})
}
