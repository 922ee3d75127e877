package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dryerd/dryerd/pkg/types"
)

// ListModels returns all cached model artifacts
func (h *Handlers) ListModels(c *gin.Context) {
	names, err := h.paths.CachedModels()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("failed to scan cache: %v", err),
		})
		return
	}

	infos := make([]types.ModelInfo, 0, len(names))
	for _, name := range names {
		st, err := os.Stat(h.paths.ModelPath(name))
		if err != nil {
			// Evicted between scan and stat
			continue
		}
		info := types.ModelInfo{
			Name:     name,
			Size:     st.Size(),
			CachedAt: st.ModTime(),
		}
		if sum, err := os.ReadFile(h.paths.ChecksumPath(name)); err == nil {
			info.SHA256 = strings.TrimSpace(string(sum))
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"models": infos,
		"count":  len(infos),
	})
}

// WarmModelsRequest represents a warm-up request
type WarmModelsRequest struct {
	Force bool `json:"force"`
}

// WarmModels resolves the serving models into the cache
func (h *Handlers) WarmModels(c *gin.Context) {
	var req WarmModelsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("invalid request: %v", err),
			})
			return
		}
	}

	if err := h.svc.WarmUp(c.Request.Context(), req.Force); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("warm-up failed: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "models warmed",
		"models":  h.svc.ModelIdentifiers(),
		"forced":  req.Force,
	})
}

// EvictModel removes a cached artifact
func (h *Handlers) EvictModel(c *gin.Context) {
	name := c.Param("name")

	if _, err := os.Stat(h.paths.ModelPath(name)); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("model %s not cached", name),
		})
		return
	}

	if err := h.svc.Evict(name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("failed to evict %s: %v", name, err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "model evicted from cache",
		"model_name": name,
	})
}
