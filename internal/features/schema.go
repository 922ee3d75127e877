// Package features defines the fixed, ordered feature schema of the
// drying pipeline and the parsing of raw request payloads into it.
package features

import "fmt"

// ElapsedTime is the feature the remaining-time prediction is folded
// into before the distribution stage runs.
const ElapsedTime = "elapsed_time"

// ModelingFeatures is the full ordered schema. Request payloads map
// onto it positionally.
var ModelingFeatures = []string{
	"load_mass_kg",
	"inlet_temp_c",
	"exhaust_temp_c",
	"ambient_humidity",
	"drum_speed_rpm",
	ElapsedTime,
}

// RemainingTimeFeatures are the inputs of the remaining-time model.
var RemainingTimeFeatures = []string{
	"load_mass_kg",
	"inlet_temp_c",
	"exhaust_temp_c",
	"ambient_humidity",
	"drum_speed_rpm",
	ElapsedTime,
}

// DistributionFeatures are the inputs of the distribution model.
var DistributionFeatures = []string{
	"load_mass_kg",
	"inlet_temp_c",
	"ambient_humidity",
	"drum_speed_rpm",
	ElapsedTime,
}

// MoistureDistColumns name the distribution model outputs. Responses
// report them with a "_model" suffix.
var MoistureDistColumns = []string{
	"moisture_p10",
	"moisture_p25",
	"moisture_p50",
	"moisture_p75",
	"moisture_p90",
}

// Vector holds named feature values.
type Vector map[string]float64

// NewVector maps parsed values positionally onto ModelingFeatures.
// A count mismatch is malformed input.
func NewVector(values []float64) (Vector, error) {
	if len(values) != len(ModelingFeatures) {
		return nil, &MalformedInputError{
			Reason: fmt.Sprintf("expected %d feature values, got %d", len(ModelingFeatures), len(values)),
		}
	}
	v := make(Vector, len(values))
	for i, name := range ModelingFeatures {
		v[name] = values[i]
	}
	return v, nil
}

// Select returns the values for the named features in order.
func (v Vector) Select(names []string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		val, ok := v[name]
		if !ok {
			return nil, fmt.Errorf("feature %q not present in vector", name)
		}
		out[i] = val
	}
	return out, nil
}

// Clone returns an independent copy of the vector.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
