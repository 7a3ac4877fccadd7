package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.TrayHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.GET("/trays", handler.List)
		api.GET("/trays/active", handler.ListActive)
		api.GET("/trays/:id", handler.Get)
		api.GET("/trays/:id/status", handler.Status)
		api.POST("/trays", handler.Create)
		api.PATCH("/trays/:id/remove", handler.Remove)
		api.PATCH("/trays/:id", handler.Update)
		api.DELETE("/trays/history", handler.ClearHistory)
		api.DELETE("/trays/:id", handler.Delete)
	}

	r.GET("/health", handler.Health)

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
