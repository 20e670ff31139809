package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/curbz/rt-trainer/internal/phraseology"
	"github.com/curbz/rt-trainer/internal/state"
)

// Params are the scenario generation parameters supplied by the user.
type Params struct {
	Seed                 uint32  `json:"seed"`
	Prefix               string  `json:"prefix"`
	UserCallsign         string  `json:"user_callsign"`
	AircraftType         string  `json:"aircraft_type"`
	RadioFrequency       float64 `json:"radio_frequency"`
	TransponderFrequency uint16  `json:"transponder_frequency"`
}

// ErrInvalidParams matches every ValidationError via errors.Is.
var ErrInvalidParams = errors.New("invalid scenario parameters")

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every problem found in a Params.
type ValidationError struct {
	Problems []FieldError `json:"problems"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Reason
	}
	return fmt.Sprintf("%s: %s", ErrInvalidParams, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParams
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// Validate returns a *ValidationError when p cannot start a scenario.
func (p Params) Validate() error {
	v := &ValidationError{}
	if _, err := state.ParsePrefix(p.Prefix); err != nil {
		v.add("prefix", "must be one of none, student, helicopter, police or super")
	}
	if strings.TrimSpace(p.UserCallsign) == "" {
		v.add("user_callsign", "is required")
	}
	if strings.TrimSpace(p.AircraftType) == "" {
		v.add("aircraft_type", "is required")
	}
	if p.RadioFrequency != 0 && !phraseology.ValidFrequency(p.RadioFrequency) {
		v.add("radio_frequency", "%.3f is outside %.3f to %.3f MHz", p.RadioFrequency, phraseology.MinFrequency, phraseology.MaxFrequency)
	}
	if p.TransponderFrequency != 0 && !state.ValidSquawk(p.TransponderFrequency) {
		v.add("transponder_frequency", "%04d is not a transponder code", p.TransponderFrequency)
	}
	if len(v.Problems) > 0 {
		return v
	}
	return nil
}
