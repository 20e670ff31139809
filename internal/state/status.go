package state

import (
	"encoding/json"
	"fmt"
)

// Status is the active flight phase together with its phase-specific data.
// It is implemented only by Parked, TaxiingToTakeoff, Airborne, Landing and
// LandingToParked.
type Status interface {
	Phase() Phase
	Key() Key
	isStatus()
}

type Parked struct {
	Position string
	Stage    ParkedStage
}

type TaxiingToTakeoff struct {
	Holdpoint string
	Runway    string
	Stage     TaxiStage
}

type Airborne struct {
	Altitude  int
	Heading   int
	Speed     int
	NextPoint string
	Stage     AirborneStage
}

type Landing struct {
	Runway string
	Stage  LandingStage
}

type LandingToParked struct {
	Position string
	Stage    LandingToParkedStage
}

func (Parked) Phase() Phase           { return PhaseParked }
func (TaxiingToTakeoff) Phase() Phase { return PhaseTaxiingToTakeoff }
func (Airborne) Phase() Phase         { return PhaseAirborne }
func (Landing) Phase() Phase          { return PhaseLanding }
func (LandingToParked) Phase() Phase  { return PhaseLandingToParked }

func (s Parked) Key() Key           { return Key{PhaseParked, int(s.Stage)} }
func (s TaxiingToTakeoff) Key() Key { return Key{PhaseTaxiingToTakeoff, int(s.Stage)} }
func (s Airborne) Key() Key         { return Key{PhaseAirborne, int(s.Stage)} }
func (s Landing) Key() Key          { return Key{PhaseLanding, int(s.Stage)} }
func (s LandingToParked) Key() Key  { return Key{PhaseLandingToParked, int(s.Stage)} }

func (Parked) isStatus()           {}
func (TaxiingToTakeoff) isStatus() {}
func (Airborne) isStatus()         {}
func (Landing) isStatus()          {}
func (LandingToParked) isStatus()  {}

// Terminal reports whether the status is the final shutdown stage. Whether
// it is on the destination stand depends on the scenario facts.
func Terminal(s Status) bool {
	lp, ok := s.(LandingToParked)
	return ok && lp.Stage == Shutdown
}

// WithStage returns a copy of s moved to stage index i of the same phase.
func WithStage(s Status, i int) Status {
	switch v := s.(type) {
	case Parked:
		v.Stage = ParkedStage(i)
		return v
	case TaxiingToTakeoff:
		v.Stage = TaxiStage(i)
		return v
	case Airborne:
		v.Stage = AirborneStage(i)
		return v
	case Landing:
		v.Stage = LandingStage(i)
		return v
	case LandingToParked:
		v.Stage = LandingToParkedStage(i)
		return v
	}
	return s
}

// wireStatus is the flat encoding shared by the JSON and msgpack codecs.
type wireStatus struct {
	Phase     string `json:"phase" msgpack:"phase"`
	Stage     string `json:"stage" msgpack:"stage"`
	Position  string `json:"position,omitempty" msgpack:"position,omitempty"`
	Holdpoint string `json:"holdpoint,omitempty" msgpack:"holdpoint,omitempty"`
	Runway    string `json:"runway,omitempty" msgpack:"runway,omitempty"`
	Altitude  int    `json:"altitude,omitempty" msgpack:"altitude,omitempty"`
	Heading   int    `json:"heading,omitempty" msgpack:"heading,omitempty"`
	Speed     int    `json:"speed,omitempty" msgpack:"speed,omitempty"`
	NextPoint string `json:"next_point,omitempty" msgpack:"next_point,omitempty"`
}

func toWireStatus(s Status) (wireStatus, error) {
	if s == nil {
		return wireStatus{}, fmt.Errorf("nil status")
	}
	k := s.Key()
	if !k.Valid() {
		return wireStatus{}, fmt.Errorf("invalid stage %d for phase %s", k.Stage, k.Phase)
	}
	w := wireStatus{Phase: k.Phase.String(), Stage: stageName(k.Phase, k.Stage)}
	switch v := s.(type) {
	case Parked:
		w.Position = v.Position
	case TaxiingToTakeoff:
		w.Holdpoint, w.Runway = v.Holdpoint, v.Runway
	case Airborne:
		w.Altitude, w.Heading, w.Speed, w.NextPoint = v.Altitude, v.Heading, v.Speed, v.NextPoint
	case Landing:
		w.Runway = v.Runway
	case LandingToParked:
		w.Position = v.Position
	}
	return w, nil
}

func (w wireStatus) status() (Status, error) {
	p, err := ParsePhase(w.Phase)
	if err != nil {
		return nil, err
	}
	i, err := StageIndex(p, w.Stage)
	if err != nil {
		return nil, err
	}
	switch p {
	case PhaseParked:
		return Parked{Position: w.Position, Stage: ParkedStage(i)}, nil
	case PhaseTaxiingToTakeoff:
		return TaxiingToTakeoff{Holdpoint: w.Holdpoint, Runway: w.Runway, Stage: TaxiStage(i)}, nil
	case PhaseAirborne:
		return Airborne{Altitude: w.Altitude, Heading: w.Heading, Speed: w.Speed, NextPoint: w.NextPoint, Stage: AirborneStage(i)}, nil
	case PhaseLanding:
		return Landing{Runway: w.Runway, Stage: LandingStage(i)}, nil
	default:
		return LandingToParked{Position: w.Position, Stage: LandingToParkedStage(i)}, nil
	}
}

// MarshalStatus encodes a status as {"phase":...,"stage":...} plus its fields.
func MarshalStatus(s Status) ([]byte, error) {
	w, err := toWireStatus(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalStatus decodes the form written by MarshalStatus. Unknown phase or
// stage names are errors.
func UnmarshalStatus(data []byte) (Status, error) {
	var w wireStatus
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return w.status()
}

func (s Parked) MarshalJSON() ([]byte, error)           { return MarshalStatus(s) }
func (s TaxiingToTakeoff) MarshalJSON() ([]byte, error) { return MarshalStatus(s) }
func (s Airborne) MarshalJSON() ([]byte, error)         { return MarshalStatus(s) }
func (s Landing) MarshalJSON() ([]byte, error)          { return MarshalStatus(s) }
func (s LandingToParked) MarshalJSON() ([]byte, error)  { return MarshalStatus(s) }
