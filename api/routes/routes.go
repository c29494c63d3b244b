package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/docforge/document-extractor/api/handlers"
	"github.com/docforge/document-extractor/api/middleware"
)

// SetupRoutes registers the service routes.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	r.GET("/health", h.Extract.Health)
	r.POST("/extract", h.Extract.Extract)
}
