package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVector(t *testing.T) {
	values, err := ParseVector("[1.0,2.5,3.0]")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.5, 3.0}, values)
}

func TestParseVectorSingleElement(t *testing.T) {
	values, err := ParseVector("[1.0]")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, values)
}

func TestParseVectorMissingBracketStillParses(t *testing.T) {
	// The stripping rules are permissive: a payload missing its
	// closing bracket parses anyway.
	values, err := ParseVector("[1.0,2.0")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0}, values)

	values, err = ParseVector("1.0,2.0]")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0}, values)

	values, err = ParseVector("1.0,2.0")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0}, values)
}

func TestParseVectorWhitespace(t *testing.T) {
	values, err := ParseVector("[1.0, 2.0, 3.0]")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, values)
}

func TestParseVectorNonNumeric(t *testing.T) {
	_, err := ParseVector("[1.0,abc,3.0]")
	require.Error(t, err)

	var malformed *MalformedInputError
	assert.ErrorAs(t, err, &malformed)
}

func TestParseVectorEmpty(t *testing.T) {
	_, err := ParseVector("")
	require.Error(t, err)

	var malformed *MalformedInputError
	assert.ErrorAs(t, err, &malformed)
}

func TestParseInput(t *testing.T) {
	vec, err := ParseInput("[12.5,71.0,64.2,0.45,48,1.5]")
	require.NoError(t, err)

	assert.Equal(t, 12.5, vec["load_mass_kg"])
	assert.Equal(t, 1.5, vec[ElapsedTime])
	assert.Len(t, vec, len(ModelingFeatures))
}

func TestParseInputCountMismatch(t *testing.T) {
	_, err := ParseInput("[1.0,2.0]")
	require.Error(t, err)

	var malformed *MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "[1.0,2.0]", malformed.Raw)
}

func TestVectorSelect(t *testing.T) {
	vec, err := NewVector([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	values, err := vec.Select([]string{"inlet_temp_c", ElapsedTime})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 6}, values)

	_, err = vec.Select([]string{"no_such_feature"})
	assert.Error(t, err)
}

func TestVectorCloneIsIndependent(t *testing.T) {
	vec, err := NewVector([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	clone := vec.Clone()
	clone[ElapsedTime] += 10

	assert.Equal(t, 6.0, vec[ElapsedTime])
	assert.Equal(t, 16.0, clone[ElapsedTime])
}

func TestDistributionFeaturesSubsetOfSchema(t *testing.T) {
	schema := make(map[string]bool)
	for _, name := range ModelingFeatures {
		schema[name] = true
	}
	for _, name := range RemainingTimeFeatures {
		assert.True(t, schema[name], "remaining-time feature %s not in schema", name)
	}
	for _, name := range DistributionFeatures {
		assert.True(t, schema[name], "distribution feature %s not in schema", name)
	}
}
