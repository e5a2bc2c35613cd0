package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"summarizer-backend/internal/summary/delivery"
	"summarizer-backend/internal/summary/usecase"
	"summarizer-backend/pkg/config"
	"summarizer-backend/pkg/database"
	"summarizer-backend/pkg/metrics"
	"summarizer-backend/pkg/sse"
)

const requestIDHeader = "X-Request-ID"

type Handler struct {
	summaryHandler  *delivery.SummaryHandler
	settingsHandler *SettingsHandler
	sseManager      *sse.Manager
	db              database.Pinger
	config          *config.Config
	logger          *zap.SugaredLogger
}

// NewHandler wires the HTTP layer. db may be nil when records live in memory.
func NewHandler(
	summaryUc usecase.SummaryUsecase,
	settingsHandler *SettingsHandler,
	sseManager *sse.Manager,
	db database.Pinger,
	cfg *config.Config,
	logger *zap.SugaredLogger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		summaryHandler:  delivery.NewSummaryHandler(summaryUc, logger),
		settingsHandler: settingsHandler,
		sseManager:      sseManager,
		db:              db,
		config:          cfg,
		logger:          logger,
	}
}

// Engine builds the gin engine with middleware and routes
func (h *Handler) Engine() *gin.Engine {
	gin.SetMode(h.config.HTTP.GinMode)

	r := gin.New()
	r.Use(requestID(), requestLogger(h.logger), gin.Recovery(), cors(), metrics.Middleware())

	SetupRoutes(r, h)
	return r
}

// NewServer wraps the engine in an http.Server with the configured timeouts
func (h *Handler) NewServer() *http.Server {
	return &http.Server{
		Addr:         h.config.HTTP.ListenAddr,
		Handler:      h.Engine(),
		ReadTimeout:  h.config.HTTP.ReadTimeout,
		WriteTimeout: h.config.HTTP.WriteTimeout,
		IdleTimeout:  h.config.HTTP.IdleTimeout,
	}
}

// Ping answers the liveness probe
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ping":        "pong!",
		"environment": h.config.Environment,
		"testing":     h.config.Testing,
	})
}

// Health reports whether storage is reachable
func (h *Handler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CORS middleware
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestID reuses the caller's X-Request-ID or mints a new one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Infow("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("requestID"),
		)
	}
}
