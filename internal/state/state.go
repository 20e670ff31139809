package state

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mohae/deepcopy"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/curbz/rt-trainer/internal/world"
)

// DefaultTransponder is the conspicuity code every scenario starts on.
// Codes are held as their four written digits, so 7000 is "7000".
const DefaultTransponder uint16 = 7000

// ValidSquawk reports whether code is four digits each in 0-7.
func ValidSquawk(code uint16) bool {
	if code > 7777 {
		return false
	}
	for c := code; c > 0; c /= 10 {
		if c%10 > 7 {
			return false
		}
	}
	return true
}

type Emergency int

const (
	EmergencyNone Emergency = iota
	EmergencyPanPan
	EmergencyMayday
)

func (e Emergency) String() string {
	switch e {
	case EmergencyPanPan:
		return "PanPan"
	case EmergencyMayday:
		return "Mayday"
	default:
		return "None"
	}
}

func ParseEmergency(s string) (Emergency, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return EmergencyNone, nil
	case "panpan", "pan pan":
		return EmergencyPanPan, nil
	case "mayday":
		return EmergencyMayday, nil
	}
	return EmergencyNone, fmt.Errorf("unknown emergency %q", s)
}

func (e Emergency) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Emergency) UnmarshalText(b []byte) error {
	v, err := ParseEmergency(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Prefix is the optional callsign prefix word.
type Prefix string

const (
	PrefixNone       Prefix = "none"
	PrefixStudent    Prefix = "student"
	PrefixHelicopter Prefix = "helicopter"
	PrefixPolice     Prefix = "police"
	PrefixSuper      Prefix = "super"
)

var Prefixes = []Prefix{PrefixNone, PrefixStudent, PrefixHelicopter, PrefixPolice, PrefixSuper}

// ParsePrefix accepts the prefix names case-insensitively. An empty string is PrefixNone.
func ParsePrefix(s string) (Prefix, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PrefixNone, nil
	}
	for _, p := range Prefixes {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown callsign prefix %q", s)
}

// Word is the spoken form of the prefix, empty for PrefixNone.
func (p Prefix) Word() string {
	if p == PrefixNone {
		return ""
	}
	return string(p)
}

// State is the complete snapshot of one scenario at one instant. Transitions
// never mutate a State in place; they work on a Clone.
type State struct {
	Status                      Status
	Lat                         float64
	Long                        float64
	CurrentTarget               world.COMFrequency
	Prefix                      Prefix
	Callsign                    string
	TargetAllocatedCallsign     string
	Emergency                   Emergency
	Squark                      bool
	CurrentRadioFrequency       float64
	CurrentTransponderFrequency uint16
	AircraftType                string
}

// Key is the (phase, stage) key of the active status.
func (s State) Key() Key {
	if s.Status == nil {
		return Key{}
	}
	return s.Status.Key()
}

func (s State) Terminal() bool {
	return s.Status != nil && Terminal(s.Status)
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	return deepcopy.Copy(s).(State)
}

type wireState struct {
	Status                      wireStatus         `json:"status" msgpack:"status"`
	Lat                         float64            `json:"lat" msgpack:"lat"`
	Long                        float64            `json:"long" msgpack:"long"`
	CurrentTarget               world.COMFrequency `json:"current_target" msgpack:"current_target"`
	Prefix                      Prefix             `json:"prefix" msgpack:"prefix"`
	Callsign                    string             `json:"callsign" msgpack:"callsign"`
	TargetAllocatedCallsign     string             `json:"target_allocated_callsign" msgpack:"target_allocated_callsign"`
	Emergency                   string             `json:"emergency" msgpack:"emergency"`
	Squark                      bool               `json:"squark" msgpack:"squark"`
	CurrentRadioFrequency       float64            `json:"current_radio_frequency" msgpack:"current_radio_frequency"`
	CurrentTransponderFrequency uint16             `json:"current_transponder_frequency" msgpack:"current_transponder_frequency"`
	AircraftType                string             `json:"aircraft_type" msgpack:"aircraft_type"`
}

func (s State) toWire() (wireState, error) {
	st, err := toWireStatus(s.Status)
	if err != nil {
		return wireState{}, err
	}
	return wireState{
		Status:                      st,
		Lat:                         s.Lat,
		Long:                        s.Long,
		CurrentTarget:               s.CurrentTarget,
		Prefix:                      s.Prefix,
		Callsign:                    s.Callsign,
		TargetAllocatedCallsign:     s.TargetAllocatedCallsign,
		Emergency:                   s.Emergency.String(),
		Squark:                      s.Squark,
		CurrentRadioFrequency:       s.CurrentRadioFrequency,
		CurrentTransponderFrequency: s.CurrentTransponderFrequency,
		AircraftType:                s.AircraftType,
	}, nil
}

func (w wireState) state() (State, error) {
	st, err := w.Status.status()
	if err != nil {
		return State{}, err
	}
	em, err := ParseEmergency(w.Emergency)
	if err != nil {
		return State{}, err
	}
	return State{
		Status:                      st,
		Lat:                         w.Lat,
		Long:                        w.Long,
		CurrentTarget:               w.CurrentTarget,
		Prefix:                      w.Prefix,
		Callsign:                    w.Callsign,
		TargetAllocatedCallsign:     w.TargetAllocatedCallsign,
		Emergency:                   em,
		Squark:                      w.Squark,
		CurrentRadioFrequency:       w.CurrentRadioFrequency,
		CurrentTransponderFrequency: w.CurrentTransponderFrequency,
		AircraftType:                w.AircraftType,
	}, nil
}

func (s State) MarshalJSON() ([]byte, error) {
	w, err := s.toWire()
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return json.Marshal(w)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, err := w.state()
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	*s = v
	return nil
}

func (s State) EncodeMsgpack(enc *msgpack.Encoder) error {
	w, err := s.toWire()
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return enc.Encode(w)
}

func (s *State) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w wireState
	if err := dec.Decode(&w); err != nil {
		return err
	}
	v, err := w.state()
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	*s = v
	return nil
}
