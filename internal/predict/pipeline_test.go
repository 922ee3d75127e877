package predict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dryerd/dryerd/internal/features"
)

// stubModel records the input it was invoked with and returns a
// canned output.
type stubModel struct {
	out    []float64
	err    error
	lastIn []float64
	names  []string
}

func (s *stubModel) Predict(in []float64) ([]float64, error) {
	s.lastIn = append([]float64(nil), in...)
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func (s *stubModel) FeatureCount() int { return len(s.lastIn) }

func (s *stubModel) OutputNames() []string { return s.names }

func testVector(t *testing.T) features.Vector {
	t.Helper()
	vec, err := features.NewVector([]float64{12.5, 71.0, 64.2, 0.45, 48, 1.5})
	require.NoError(t, err)
	return vec
}

func TestPipelineFoldsRemainingTimeIntoElapsed(t *testing.T) {
	timeModel := &stubModel{out: []float64{2.0}}
	distModel := &stubModel{out: []float64{0.1, 0.2}}
	p := &Pipeline{Time: timeModel, Distribution: distModel}

	res, err := p.Run(testVector(t))
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.RemainingTime)

	// The distribution stage must see elapsed_time shifted by the
	// stage-one prediction. elapsed_time is the last distribution
	// feature.
	require.NotEmpty(t, distModel.lastIn)
	assert.InDelta(t, 1.5+2.0, distModel.lastIn[len(distModel.lastIn)-1], 1e-9)

	// Stage one saw the original features
	require.NotEmpty(t, timeModel.lastIn)
	assert.InDelta(t, 1.5, timeModel.lastIn[len(timeModel.lastIn)-1], 1e-9)
}

func TestPipelineResultBody(t *testing.T) {
	timeModel := &stubModel{out: []float64{2.0}}
	distModel := &stubModel{out: []float64{0.1, 0.2}}
	p := &Pipeline{Time: timeModel, Distribution: distModel}

	res, err := p.Run(testVector(t))
	require.NoError(t, err)

	body := res.HumanBody()
	assert.Contains(t, body, "remaining drying time is 2 hrs")
	assert.Contains(t, body, "0.1")
	assert.Contains(t, body, "0.2")
	assert.Contains(t, body, "moisture_p10_model")
}

func TestPipelineUsesArtifactOutputNames(t *testing.T) {
	timeModel := &stubModel{out: []float64{1.0}}
	distModel := &stubModel{out: []float64{0.5, 0.6}, names: []string{"dry_zone", "wet_zone"}}
	p := &Pipeline{Time: timeModel, Distribution: distModel}

	res, err := p.Run(testVector(t))
	require.NoError(t, err)

	require.Len(t, res.Distribution, 2)
	assert.Equal(t, "dry_zone_model", res.Distribution[0].Name)
	assert.Equal(t, "wet_zone_model", res.Distribution[1].Name)
}

func TestPipelineStageOneFailureStopsStageTwo(t *testing.T) {
	timeModel := &stubModel{err: errors.New("bad weights")}
	distModel := &stubModel{out: []float64{0.1}}
	p := &Pipeline{Time: timeModel, Distribution: distModel}

	_, err := p.Run(testVector(t))
	require.Error(t, err)
	assert.Nil(t, distModel.lastIn)
}

func TestPipelineStageTwoFailurePropagates(t *testing.T) {
	timeModel := &stubModel{out: []float64{2.0}}
	distModel := &stubModel{err: errors.New("bad weights")}
	p := &Pipeline{Time: timeModel, Distribution: distModel}

	_, err := p.Run(testVector(t))
	assert.Error(t, err)
}
