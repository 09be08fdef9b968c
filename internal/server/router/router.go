package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrarwerk/stallbuch/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.MetricsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	api.GET("/cycles/:id/metrics", handler.GetCycleMetrics)
	api.GET("/cycles/:id/areas", handler.GetAreaMetrics)
	api.GET("/cycles/:id/feed-components", handler.GetFeedComponents)
	api.POST("/estimate", handler.Estimate)
	api.POST("/farms/:id/evaluate", handler.EvaluateFarm)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
