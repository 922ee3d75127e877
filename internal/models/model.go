package models

import (
	"encoding/json"
	"fmt"
	"io"
)

// Predictor is a deserialized, invocable model.
type Predictor interface {
	// Predict maps a feature vector to the model output. The output
	// has one element for scalar models.
	Predict(features []float64) ([]float64, error)

	// FeatureCount is the input width the model was trained on.
	FeatureCount() int
}

// OutputNamer is implemented by models whose artifact names its
// output columns.
type OutputNamer interface {
	OutputNames() []string
}

const (
	KindLinear = "linear"
	KindAffine = "affine"
)

// LinearModel predicts a single scalar: w·x + b.
type LinearModel struct {
	Features  []string  `json:"features"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

func (m *LinearModel) FeatureCount() int {
	return len(m.Weights)
}

func (m *LinearModel) Predict(features []float64) ([]float64, error) {
	if len(features) != len(m.Weights) {
		return nil, fmt.Errorf("model expects %d features, got %d", len(m.Weights), len(features))
	}
	out := m.Intercept
	for i, w := range m.Weights {
		out += w * features[i]
	}
	return []float64{out}, nil
}

// AffineModel predicts a vector: W·x + b.
type AffineModel struct {
	Features   []string    `json:"features"`
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
	Outputs    []string    `json:"outputs,omitempty"`
}

func (m *AffineModel) FeatureCount() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

func (m *AffineModel) OutputNames() []string {
	return m.Outputs
}

func (m *AffineModel) Predict(features []float64) ([]float64, error) {
	if len(features) != m.FeatureCount() {
		return nil, fmt.Errorf("model expects %d features, got %d", m.FeatureCount(), len(features))
	}
	out := make([]float64, len(m.Weights))
	for i, row := range m.Weights {
		v := m.Intercepts[i]
		for j, w := range row {
			v += w * features[j]
		}
		out[i] = v
	}
	return out, nil
}

// Decode deserializes a model artifact. The artifact is a JSON
// document whose "kind" field selects the model type.
func Decode(r io.Reader) (Predictor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}

	switch head.Kind {
	case KindLinear:
		var m LinearModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse linear artifact: %w", err)
		}
		if len(m.Weights) == 0 {
			return nil, fmt.Errorf("linear artifact has no weights")
		}
		if len(m.Features) != 0 && len(m.Features) != len(m.Weights) {
			return nil, fmt.Errorf("linear artifact names %d features but has %d weights",
				len(m.Features), len(m.Weights))
		}
		return &m, nil

	case KindAffine:
		var m AffineModel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse affine artifact: %w", err)
		}
		if len(m.Weights) == 0 {
			return nil, fmt.Errorf("affine artifact has no weights")
		}
		width := len(m.Weights[0])
		for i, row := range m.Weights {
			if len(row) != width {
				return nil, fmt.Errorf("affine artifact row %d has %d weights, want %d", i, len(row), width)
			}
		}
		if len(m.Intercepts) != len(m.Weights) {
			return nil, fmt.Errorf("affine artifact has %d intercepts for %d rows",
				len(m.Intercepts), len(m.Weights))
		}
		if len(m.Outputs) != 0 && len(m.Outputs) != len(m.Weights) {
			return nil, fmt.Errorf("affine artifact names %d outputs for %d rows",
				len(m.Outputs), len(m.Weights))
		}
		if len(m.Features) != 0 && len(m.Features) != width {
			return nil, fmt.Errorf("affine artifact names %d features but rows are %d wide",
				len(m.Features), width)
		}
		return &m, nil

	default:
		return nil, fmt.Errorf("unknown artifact kind %q", head.Kind)
	}
}
