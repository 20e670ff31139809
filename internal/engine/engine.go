// Package engine advances a scenario State by one recognised intent.
package engine

import (
	"fmt"
	"strings"

	"github.com/curbz/rt-trainer/internal/phraseology"
	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/world"
	"github.com/curbz/rt-trainer/pkg/geometry"
)

// DefaultSpeed is the airborne speed in knots for unknown aircraft types.
const DefaultSpeed = 100

var cruiseSpeeds = map[string]int{
	"C152": 90,
	"C172": 105,
	"PA28": 110,
	"DA40": 120,
	"SR22": 150,
}

// CruiseSpeed returns the airborne speed for an aircraft type.
func CruiseSpeed(aircraftType string) int {
	if s, ok := cruiseSpeeds[strings.ToUpper(strings.TrimSpace(aircraftType))]; ok {
		return s
	}
	return DefaultSpeed
}

// transition derives the next state from a clone of the current one.
type transition func(s state.State, f world.Facts) state.State

// transitions holds one function for every non-terminal stage.
var transitions = map[state.Key]transition{
	{Phase: state.PhaseParked, Stage: int(state.PreRadioCheck)}: nextStage,
	{Phase: state.PhaseParked, Stage: int(state.PreDepartInfo)}: func(s state.State, f world.Facts) state.State {
		s.TargetAllocatedCallsign = phraseology.Abbreviate(s.Callsign)
		return nextStage(s, f)
	},
	{Phase: state.PhaseParked, Stage: int(state.PreReadbackDepartInfo)}: nextStage,
	{Phase: state.PhaseParked, Stage: int(state.PreTaxiRequest)}:        nextStage,
	{Phase: state.PhaseParked, Stage: int(state.PreTaxiClearanceReadback)}: func(s state.State, f world.Facts) state.State {
		s.Status = state.TaxiingToTakeoff{Holdpoint: f.HoldingPoint, Runway: f.DepartureRunway, Stage: state.PreReadyForDeparture}
		s.CurrentTarget = f.Tower
		s.CurrentRadioFrequency = f.Tower.Frequency
		return s
	},

	{Phase: state.PhaseTaxiingToTakeoff, Stage: int(state.PreReadyForDeparture)}:     nextStage,
	{Phase: state.PhaseTaxiingToTakeoff, Stage: int(state.PreInfoGivenForDeparture)}: nextStage,
	{Phase: state.PhaseTaxiingToTakeoff, Stage: int(state.PreClearedForTakeoff)}:     nextStage,
	{Phase: state.PhaseTaxiingToTakeoff, Stage: int(state.PreReadbackClearedForTakeoff)}: func(s state.State, f world.Facts) state.State {
		s.Status = state.Airborne{
			Altitude:  f.CruiseAltitude,
			Heading:   f.Heading,
			Speed:     CruiseSpeed(s.AircraftType),
			NextPoint: f.NextPoint,
			Stage:     state.PreFrequencyChangeRequest,
		}
		s.Lat, s.Long = f.Start.Lat, f.Start.Long
		return s
	},

	{Phase: state.PhaseAirborne, Stage: int(state.PreFrequencyChangeRequest)}: func(s state.State, f world.Facts) state.State {
		s.CurrentTarget = f.Arrival
		s.CurrentRadioFrequency = f.Arrival.Frequency
		s.Lat, s.Long = geometry.Midpoint(f.Start.Lat, f.Start.Long, f.Destination.Lat, f.Destination.Long)
		return nextStage(s, f)
	},
	{Phase: state.PhaseAirborne, Stage: int(state.PreInitialContact)}: nextStage,
	{Phase: state.PhaseAirborne, Stage: int(state.PrePositionReport)}: nextStage,
	{Phase: state.PhaseAirborne, Stage: int(state.PreJoinReadback)}: func(s state.State, f world.Facts) state.State {
		s.Status = state.Landing{Runway: f.ArrivalRunway, Stage: state.PreFinalReport}
		s.Lat, s.Long = f.Destination.Lat, f.Destination.Long
		return s
	},

	{Phase: state.PhaseLanding, Stage: int(state.PreFinalReport)}: nextStage,
	{Phase: state.PhaseLanding, Stage: int(state.PreReadbackClearedToLand)}: func(s state.State, f world.Facts) state.State {
		s.Status = state.LandingToParked{Position: "runway " + f.ArrivalRunway, Stage: state.PreVacatedReport}
		return s
	},

	{Phase: state.PhaseLandingToParked, Stage: int(state.PreVacatedReport)}: nextStage,
	{Phase: state.PhaseLandingToParked, Stage: int(state.PreTaxiToParkingReadback)}: func(s state.State, f world.Facts) state.State {
		s.Status = state.LandingToParked{Position: f.Parking, Stage: state.Shutdown}
		return s
	},
}

func nextStage(s state.State, _ world.Facts) state.State {
	k := s.Key()
	s.Status = state.WithStage(s.Status, k.Stage+1)
	return s
}

// Complete reports whether s is shut down on the destination stand. The
// only transition into Shutdown places the aircraft there, so a terminal
// state elsewhere was built outside the engine.
func Complete(s state.State, f world.Facts) bool {
	lp, ok := s.Status.(state.LandingToParked)
	return ok && lp.Stage == state.Shutdown && lp.Position == f.Parking
}

// Advance applies intent to current. On a parse error, or any intent that
// is not valid at the current stage, it returns an unchanged copy of
// current and the error; it never returns a partially updated state.
func Advance(current state.State, intent phraseology.Intent, parseErr error, facts world.Facts) (state.State, error) {
	if parseErr != nil {
		return current.Clone(), parseErr
	}
	if current.Status == nil {
		return current, fmt.Errorf("state has no status")
	}

	key := current.Key()
	if current.Terminal() {
		detail := "scenario is complete"
		if !Complete(current, facts) {
			detail = fmt.Sprintf("shut down at %s instead of %s", current.Status.(state.LandingToParked).Position, facts.Parking)
		}
		return current.Clone(), &phraseology.ParseError{Kind: phraseology.UnexpectedStage, Detail: detail}
	}
	if intent.Key != key {
		return current.Clone(), &phraseology.ParseError{
			Kind:   phraseology.UnexpectedStage,
			Detail: fmt.Sprintf("%s belongs to %s, current stage is %s", intent, intent.Key, key),
		}
	}

	next := current.Clone()
	switch intent.Kind {
	case phraseology.DeclareEmergency:
		next.Emergency = intent.Emergency
	case phraseology.CancelEmergency:
		next.Emergency = state.EmergencyNone
	case phraseology.Squawk:
		next.CurrentTransponderFrequency = intent.Code
		next.Squark = true
	case phraseology.Ident:
		next.Squark = true
	case phraseology.GoAround:
		if key.Phase != state.PhaseLanding {
			return current.Clone(), &phraseology.ParseError{Kind: phraseology.UnexpectedStage, Detail: "go around is only possible while landing"}
		}
		next.Status = state.WithStage(next.Status, int(state.PreFinalReport))
	case phraseology.Advance:
		t, ok := transitions[key]
		if !ok {
			return current.Clone(), &phraseology.ParseError{Kind: phraseology.UnexpectedStage, Detail: "no transition from " + key.String()}
		}
		next = t(next, facts)
	default:
		return current.Clone(), fmt.Errorf("unknown intent kind %s", intent.Kind)
	}
	return next, nil
}
