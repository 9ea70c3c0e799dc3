package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/competitor-dashboard/dashboard"
	"github.com/seo-optimizer/competitor-dashboard/logging"
	"github.com/seo-optimizer/competitor-dashboard/metrics"
	"github.com/seo-optimizer/competitor-dashboard/middleware"
	"github.com/seo-optimizer/competitor-dashboard/stats"
)

func setupRouter(service *dashboard.Service, requestStats *logging.Statistics, refreshStats *stats.Storage, rateLimiter *middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.ErrorHandler(logger))
	r.Use(rateLimiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.Use(middleware.StatsMiddleware(requestStats, logger))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"source": service.Current().Source,
			})
		})

		api.GET("/dashboard", func(c *gin.Context) {
			c.JSON(http.StatusOK, service.View())
		})

		api.GET("/competitors", listCompetitors(service))
		api.POST("/refresh", refresh(service, logger))

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"requests": requestStats.GetStatistics(),
				"refresh":  refreshStats.GetCurrentStats(),
				"months":   refreshStats.GetAllMonths(),
			})
		})
	}

	return r
}

func listCompetitors(service *dashboard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sortKey := c.Query("sort")
		order := c.DefaultQuery("order", "desc")

		if sortKey != "" && !metrics.SortableKey(sortKey) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown sort column: " + sortKey,
			})
			return
		}
		if order != "asc" && order != "desc" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "order must be asc or desc",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"competitors": service.Competitors(sortKey, order == "desc"),
		})
	}
}

// refresh always answers 200: a failed fetch leaves a renderable state and
// is reported in the body
func refresh(service *dashboard.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("Refresh requested", zap.String("ip", c.ClientIP()))

		// a client hanging up must not abort the fetch; the loader timeout
		// still bounds it
		src, err := service.Refresh(context.WithoutCancel(c.Request.Context()))
		body := gin.H{
			"source":      src,
			"lastUpdated": service.Current().LastUpdated,
		}
		if err != nil {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusOK, body)
	}
}
