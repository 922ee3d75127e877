package predict

import (
	"fmt"

	"github.com/dryerd/dryerd/internal/features"
	"github.com/dryerd/dryerd/internal/models"
	"github.com/dryerd/dryerd/pkg/types"
)

// Pipeline runs the two-stage drying prediction: remaining time
// first, then the moisture distribution after that time has passed.
// Stage two depends on stage one's output, so the stages are strictly
// sequential.
type Pipeline struct {
	Time         models.Predictor
	Distribution models.Predictor
}

// Run predicts from a parsed feature vector. The remaining-time
// scalar is folded additively into elapsed_time before the
// distribution model sees the features.
func (p *Pipeline) Run(vec features.Vector) (*types.PredictionResult, error) {
	timeIn, err := vec.Select(features.RemainingTimeFeatures)
	if err != nil {
		return nil, err
	}
	timeOut, err := p.Time.Predict(timeIn)
	if err != nil {
		return nil, fmt.Errorf("remaining-time prediction failed: %w", err)
	}
	if len(timeOut) == 0 {
		return nil, fmt.Errorf("remaining-time model returned no output")
	}
	remaining := timeOut[0]

	shifted := vec.Clone()
	shifted[features.ElapsedTime] += remaining

	distIn, err := shifted.Select(features.DistributionFeatures)
	if err != nil {
		return nil, err
	}
	distOut, err := p.Distribution.Predict(distIn)
	if err != nil {
		return nil, fmt.Errorf("distribution prediction failed: %w", err)
	}

	names := distributionNames(p.Distribution, len(distOut))
	dist := make([]types.NamedValue, len(distOut))
	for i, v := range distOut {
		dist[i] = types.NamedValue{Name: names[i], Value: v}
	}

	return &types.PredictionResult{
		RemainingTime: remaining,
		Distribution:  dist,
	}, nil
}

// distributionNames prefers names baked into the artifact, falling
// back to the schema columns, always with the "_model" suffix.
func distributionNames(m models.Predictor, n int) []string {
	base := features.MoistureDistColumns
	if namer, ok := m.(models.OutputNamer); ok {
		if names := namer.OutputNames(); len(names) == n {
			base = names
		}
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(base) {
			out[i] = base[i] + "_model"
		} else {
			out[i] = fmt.Sprintf("output_%d_model", i)
		}
	}
	return out
}
