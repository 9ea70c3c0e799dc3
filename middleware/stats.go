package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/competitor-dashboard/logging"
)

// saveEvery is how many tracked requests pass between statistics saves
const saveEvery = 100

// StatsMiddleware tracks visitors and API request timings
func StatsMiddleware(stats *logging.Statistics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		loadTime := float64(time.Since(start).Milliseconds())
		stats.TrackRequest(c.Request.URL.Path, loadTime, c.Writer.Status() >= 400)

		if total := stats.TotalRequests(); total > 0 && total%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					logger.Warn("Failed to save request statistics", zap.Error(err))
				}
			}()
		}
	}
}
