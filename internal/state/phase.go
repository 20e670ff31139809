package state

import (
	"fmt"
	"strings"
)

type Phase int

const (
	PhaseParked Phase = iota
	PhaseTaxiingToTakeoff
	PhaseAirborne
	PhaseLanding
	PhaseLandingToParked
)

var phaseNames = [...]string{
	"Parked",
	"TaxiingToTakeoff",
	"Airborne",
	"Landing",
	"LandingToParked",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) Index() int {
	return int(p)
}

// ParsePhase resolves a phase by name. Matching ignores case.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if strings.EqualFold(n, name) {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

type ParkedStage int

const (
	PreRadioCheck ParkedStage = iota
	PreDepartInfo
	PreReadbackDepartInfo
	PreTaxiRequest
	PreTaxiClearanceReadback
)

type TaxiStage int

const (
	PreReadyForDeparture TaxiStage = iota
	PreInfoGivenForDeparture
	PreClearedForTakeoff
	PreReadbackClearedForTakeoff
)

type AirborneStage int

const (
	PreFrequencyChangeRequest AirborneStage = iota
	PreInitialContact
	PrePositionReport
	PreJoinReadback
)

type LandingStage int

const (
	PreFinalReport LandingStage = iota
	PreReadbackClearedToLand
)

type LandingToParkedStage int

const (
	PreVacatedReport LandingToParkedStage = iota
	PreTaxiToParkingReadback
	Shutdown
)

// stage names per phase, in order
var stageNames = [...][]string{
	PhaseParked: {
		"PreRadioCheck",
		"PreDepartInfo",
		"PreReadbackDepartInfo",
		"PreTaxiRequest",
		"PreTaxiClearanceReadback",
	},
	PhaseTaxiingToTakeoff: {
		"PreReadyForDeparture",
		"PreInfoGivenForDeparture",
		"PreClearedForTakeoff",
		"PreReadbackClearedForTakeoff",
	},
	PhaseAirborne: {
		"PreFrequencyChangeRequest",
		"PreInitialContact",
		"PrePositionReport",
		"PreJoinReadback",
	},
	PhaseLanding: {
		"PreFinalReport",
		"PreReadbackClearedToLand",
	},
	PhaseLandingToParked: {
		"PreVacatedReport",
		"PreTaxiToParkingReadback",
		"Shutdown",
	},
}

func stageName(p Phase, i int) string {
	if p < 0 || int(p) >= len(stageNames) || i < 0 || i >= len(stageNames[p]) {
		return fmt.Sprintf("Stage(%d)", i)
	}
	return stageNames[p][i]
}

// StageCount returns the number of stages in a phase.
func StageCount(p Phase) int {
	if p < 0 || int(p) >= len(stageNames) {
		return 0
	}
	return len(stageNames[p])
}

// StageIndex resolves a stage name within a phase.
func StageIndex(p Phase, name string) (int, error) {
	if p < 0 || int(p) >= len(stageNames) {
		return 0, fmt.Errorf("unknown phase %d", int(p))
	}
	for i, n := range stageNames[p] {
		if strings.EqualFold(n, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q for phase %s", name, p)
}

func (s ParkedStage) String() string          { return stageName(PhaseParked, int(s)) }
func (s ParkedStage) Index() int              { return int(s) }
func (s TaxiStage) String() string            { return stageName(PhaseTaxiingToTakeoff, int(s)) }
func (s TaxiStage) Index() int                { return int(s) }
func (s AirborneStage) String() string        { return stageName(PhaseAirborne, int(s)) }
func (s AirborneStage) Index() int            { return int(s) }
func (s LandingStage) String() string         { return stageName(PhaseLanding, int(s)) }
func (s LandingStage) Index() int             { return int(s) }
func (s LandingToParkedStage) String() string { return stageName(PhaseLandingToParked, int(s)) }
func (s LandingToParkedStage) Index() int     { return int(s) }

// Key identifies one (phase, stage) pair. Grammar and transitions are looked up by key.
type Key struct {
	Phase Phase
	Stage int
}

func (k Key) String() string {
	return k.Phase.String() + "/" + stageName(k.Phase, k.Stage)
}

// Valid reports whether the key names a real stage.
func (k Key) Valid() bool {
	return k.Stage >= 0 && k.Stage < StageCount(k.Phase)
}

// Before orders keys along the flight.
func (k Key) Before(o Key) bool {
	if k.Phase != o.Phase {
		return k.Phase < o.Phase
	}
	return k.Stage < o.Stage
}

// Next returns the key one stage on, crossing into the next phase after the
// last stage. ok is false at the terminal stage.
func (k Key) Next() (next Key, ok bool) {
	if k.Stage+1 < StageCount(k.Phase) {
		return Key{Phase: k.Phase, Stage: k.Stage + 1}, true
	}
	if int(k.Phase)+1 < len(stageNames) {
		return Key{Phase: k.Phase + 1}, true
	}
	return k, false
}

// ParseKey parses the "Phase/Stage" form produced by Key.String.
func ParseKey(s string) (Key, error) {
	phaseName, stage, found := strings.Cut(s, "/")
	if !found {
		return Key{}, fmt.Errorf("malformed stage key %q", s)
	}
	p, err := ParsePhase(phaseName)
	if err != nil {
		return Key{}, err
	}
	i, err := StageIndex(p, stage)
	if err != nil {
		return Key{}, err
	}
	return Key{Phase: p, Stage: i}, nil
}

// AllKeys lists every stage key in flight order.
func AllKeys() []Key {
	var keys []Key
	for p := range stageNames {
		for i := range stageNames[p] {
			keys = append(keys, Key{Phase: Phase(p), Stage: i})
		}
	}
	return keys
}
