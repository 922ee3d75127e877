package types

import (
	"fmt"
	"strings"
	"time"
)

// NamedValue is a single named scalar in a prediction output.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PredictionResult is the outcome of a full two-stage prediction:
// the remaining drying time in hours and the moisture distribution
// expected after that time has passed.
type PredictionResult struct {
	RemainingTime float64      `json:"remaining_time_hrs"`
	Distribution  []NamedValue `json:"distribution"`
}

// HumanBody renders the result as the plain-text response body served
// on the public endpoint.
func (r *PredictionResult) HumanBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "The predicted remaining drying time is %g hrs\n\n", r.RemainingTime)
	b.WriteString("The predicted distribution after this time is\n")
	for _, nv := range r.Distribution {
		fmt.Fprintf(&b, "%s    %g\n", nv.Name, nv.Value)
	}
	return b.String()
}

// ModelInfo describes one cached model artifact.
type ModelInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	SHA256   string    `json:"sha256,omitempty"`
	CachedAt time.Time `json:"cached_at"`
}

// ServerStatus is returned by the status endpoint.
type ServerStatus struct {
	PID          int    `json:"pid"`
	Uptime       string `json:"uptime"`
	ModelsLoaded bool   `json:"models_loaded"`
	CachedModels int    `json:"cached_models"`
	CacheBytes   int64  `json:"cache_bytes"`
}
