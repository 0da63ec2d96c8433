package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hchen1203/hotel-doc-ingest/api/handlers"
	"github.com/hchen1203/hotel-doc-ingest/api/middleware"
)

// SetupRoutes wires all HTTP endpoints.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	files := v1.Group("/files")
	{
		files.POST("/upload", h.Files.Upload)
		files.GET("", h.Files.List)
		files.GET("/:fileId/status", h.Files.GetStatus)
		files.GET("/:fileId/logs", h.Files.Logs)
		files.POST("/:fileId/process", h.Files.Process)
		files.POST("/:fileId/retry", h.Files.Retry)
		files.POST("/:fileId/insert", h.Files.Insert)
		files.DELETE("/:fileId", h.Files.Delete)
		files.DELETE("/:fileId/force", h.Files.ForceDelete)
	}
}
