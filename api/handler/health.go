package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mapreviews/models"
	"mapreviews/scraper"
)

// Health handles GET /api/v1/health.
func Health(sc *scraper.Scraper, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := sc.Stats()
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
			MaxPages:      stats.MaxPages,
			ActivePages:   stats.ActivePages,
		})
	}
}
