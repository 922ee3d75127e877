package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dryerd/dryerd/internal/predict"
	"github.com/dryerd/dryerd/internal/storage"
	"github.com/dryerd/dryerd/pkg/types"
)

type Handlers struct {
	svc     *predict.Service
	paths   *storage.Paths
	started time.Time
}

func NewHandlers(svc *predict.Service, paths *storage.Paths) *Handlers {
	return &Handlers{
		svc:     svc,
		paths:   paths,
		started: time.Now(),
	}
}

// Health endpoint for health checks
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// Status returns server and cache status information
func (h *Handlers) Status(c *gin.Context) {
	cached, err := h.paths.CachedModels()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to scan cache: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.ServerStatus{
		PID:          os.Getpid(),
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		ModelsLoaded: h.svc.Loaded(),
		CachedModels: len(cached),
		CacheBytes:   h.paths.CacheUsage(),
	})
}
