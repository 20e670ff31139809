package phraseology

import (
	"fmt"

	"github.com/curbz/rt-trainer/internal/state"
)

type IntentKind int

const (
	// Advance is a stage call or readback that moves the flight on one stage.
	Advance IntentKind = iota
	DeclareEmergency
	CancelEmergency
	Squawk
	Ident
	GoAround
)

func (k IntentKind) String() string {
	switch k {
	case Advance:
		return "Advance"
	case DeclareEmergency:
		return "Emergency"
	case CancelEmergency:
		return "CancelEmergency"
	case Squawk:
		return "Squawk"
	case Ident:
		return "Ident"
	case GoAround:
		return "GoAround"
	}
	return fmt.Sprintf("IntentKind(%d)", int(k))
}

func (k IntentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Intent is the meaning recognised in a valid transmission.
type Intent struct {
	Kind IntentKind `json:"kind"`
	// Key is the stage the transmission was recognised at.
	Key state.Key `json:"-"`
	// Name is the grammar intent name for Advance intents, e.g. "RadioCheck".
	Name      string            `json:"name,omitempty"`
	Emergency state.Emergency   `json:"emergency,omitempty"`
	Code      uint16            `json:"code,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func (i Intent) String() string {
	switch i.Kind {
	case Advance:
		return i.Name
	case DeclareEmergency:
		return "Emergency(" + i.Emergency.String() + ")"
	case Squawk:
		return fmt.Sprintf("Squawk(%04d)", i.Code)
	}
	return i.Kind.String()
}
