package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dryerd/dryerd/internal/api/handlers"
	"github.com/dryerd/dryerd/internal/config"
	"github.com/dryerd/dryerd/internal/predict"
	"github.com/dryerd/dryerd/internal/storage"
)

// SetupRoutes builds the gin engine for the public inference endpoint.
func SetupRoutes(svc *predict.Service, paths *storage.Paths, cfg *config.Config) *gin.Engine {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(rateLimitMiddleware(cfg.Server.RateLimit, cfg.Server.RateBurst))

	// Create handlers
	h := handlers.NewHandlers(svc, paths)

	// Public endpoint, same contract as the original function URL:
	// one query parameter, plain-text body.
	router.GET("/predict", h.PredictText)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.GET("/status", h.Status)

		v1.GET("/predict", h.PredictJSON)

		models := v1.Group("/models")
		{
			models.GET("", h.ListModels)
			models.POST("/warm", h.WarmModels)
			models.DELETE("/:name", h.EvictModel)
		}
	}

	// Catch-all for undefined routes
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	return router
}

// corsMiddleware adds CORS headers. The endpoint is public by design,
// so any origin may call it.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware tags every request with an ID for log
// correlation, honoring an inbound X-Request-ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// rateLimitMiddleware applies a per-client token bucket. The endpoint
// has no authentication, so the client IP is the only usable key.
func rateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[ip] = l
		}
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
