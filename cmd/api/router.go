package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/ping", h.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		// Summary routes
		summaries := api.Group("/summaries")
		{
			summaries.POST("", h.summaryHandler.CreateSummary)
			summaries.GET("", h.summaryHandler.GetSummaries)
			summaries.GET("/search", h.summaryHandler.SearchSummaries)
			summaries.POST("/import", h.summaryHandler.ImportFeed)
			summaries.GET("/:id", h.summaryHandler.GetSummaryByID)
			summaries.PUT("/:id", h.summaryHandler.UpdateSummary)
			summaries.DELETE("/:id", h.summaryHandler.DeleteSummary)

			// SSE stream of summary_update events
			if h.sseManager != nil {
				summaries.GET("/events", h.sseManager.ServeHTTP)
			}
		}

		// Settings routes
		settings := api.Group("/settings")
		{
			settings.GET("/ollama", h.settingsHandler.GetOllamaSettings)
			settings.PUT("/ollama", h.settingsHandler.UpdateOllamaSettings)
			settings.POST("/ollama/test", h.settingsHandler.TestOllamaConnection)
		}
	}
}
