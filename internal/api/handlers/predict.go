package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dryerd/dryerd/internal/features"
	"github.com/dryerd/dryerd/internal/models"
	"github.com/dryerd/dryerd/pkg/types"
)

// PredictText serves the public endpoint: one query parameter,
// plain-text response body.
func (h *Handlers) PredictText(c *gin.Context) {
	res, status, errMsg := h.predict(c)
	if errMsg != "" {
		c.String(status, errMsg)
		return
	}
	c.String(http.StatusOK, res.HumanBody())
}

// PredictJSON serves the structured variant of the same prediction.
func (h *Handlers) PredictJSON(c *gin.Context) {
	res, status, errMsg := h.predict(c)
	if errMsg != "" {
		c.JSON(status, gin.H{"error": errMsg})
		return
	}
	c.JSON(http.StatusOK, res)
}

// predict runs the pipeline on the q parameter and maps failures to
// HTTP status codes: malformed payloads are client errors, everything
// else is a server fault.
func (h *Handlers) predict(c *gin.Context) (*types.PredictionResult, int, string) {
	raw := c.Query("q")
	if raw == "" {
		return nil, http.StatusBadRequest, "missing query parameter q"
	}

	res, err := h.svc.Predict(c.Request.Context(), raw)
	if err != nil {
		var malformed *features.MalformedInputError
		if errors.As(err, &malformed) {
			return nil, http.StatusBadRequest, malformed.Error()
		}
		if errors.Is(err, models.ErrRemoteNotFound) {
			return nil, http.StatusInternalServerError, fmt.Sprintf("model unavailable: %v", err)
		}
		return nil, http.StatusInternalServerError, fmt.Sprintf("prediction failed: %v", err)
	}

	return res, http.StatusOK, ""
}
