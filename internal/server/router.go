package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruitment-api/internal/common/config"
	"recruitment-api/internal/common/logger"
)

// NewRouter wires the HTTP surface: the submission endpoint, liveness and
// Prometheus metrics.
func NewRouter(cfg *config.Config, submitter Submitter, log logger.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"POST", "GET", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	handler := NewApplicationHandler(submitter, log)

	api := router.Group("/api")
	{
		api.POST("/applications", handler.Submit)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestLogger logs one line per request on the structured logger.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	l := log.WithFields(map[string]interface{}{"component": "http"})
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("request handled", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIp": c.ClientIP(),
		})
	}
}
