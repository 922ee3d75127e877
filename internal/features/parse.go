package features

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedInputError means the request payload does not parse into
// the expected numeric shape. It maps to a client error, not a
// server fault.
type MalformedInputError struct {
	Raw    string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("malformed input %q: %s", e.Raw, e.Reason)
	}
	return fmt.Sprintf("malformed input: %s", e.Reason)
}

// ParseVector parses the textual rendering of a numeric list, e.g.
// "[1.2,3.4,5.6]". The payload is split on commas; the first token
// drops everything up to and including its last '[', the last token
// drops everything from its first ']' on, interior tokens parse as-is.
// A payload with a missing bracket therefore still parses: "[1.0,2.0"
// yields [1.0, 2.0]. Callers relying on strict bracketing must
// validate separately.
func ParseVector(raw string) ([]float64, error) {
	tokens := strings.Split(raw, ",")

	out := make([]float64, 0, len(tokens))
	for i, tok := range tokens {
		if i == 0 {
			if idx := strings.LastIndex(tok, "["); idx >= 0 {
				tok = tok[idx+1:]
			}
		}
		if i == len(tokens)-1 {
			if idx := strings.Index(tok, "]"); idx >= 0 {
				tok = tok[:idx]
			}
		}

		val, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return nil, &MalformedInputError{
				Raw:    raw,
				Reason: fmt.Sprintf("token %d is not numeric", i),
			}
		}
		out = append(out, val)
	}

	return out, nil
}

// ParseInput parses a raw payload and maps it onto the modeling
// schema in one step.
func ParseInput(raw string) (Vector, error) {
	values, err := ParseVector(raw)
	if err != nil {
		return nil, err
	}
	vec, err := NewVector(values)
	if err != nil {
		if merr, ok := err.(*MalformedInputError); ok {
			merr.Raw = raw
		}
		return nil, err
	}
	return vec, nil
}
