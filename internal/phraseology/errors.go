package phraseology

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	WrongStation ErrorKind = iota + 1
	WrongCallsign
	MissingPhrase
	MalformedFrequency
	MalformedSquawk
	UnexpectedStage
)

var kindNames = map[ErrorKind]string{
	WrongStation:       "WrongStation",
	WrongCallsign:      "WrongCallsign",
	MissingPhrase:      "MissingPhrase",
	MalformedFrequency: "MalformedFrequency",
	MalformedSquawk:    "MalformedSquawk",
	UnexpectedStage:    "UnexpectedStage",
}

// Sentinels for errors.Is against a *ParseError of the matching kind.
var (
	ErrWrongStation       = errors.New("wrong station")
	ErrWrongCallsign      = errors.New("wrong callsign")
	ErrMissingPhrase      = errors.New("missing phrase")
	ErrMalformedFrequency = errors.New("malformed frequency")
	ErrMalformedSquawk    = errors.New("malformed squawk")
	ErrUnexpectedStage    = errors.New("unexpected stage")
)

var kindSentinels = map[ErrorKind]error{
	WrongStation:       ErrWrongStation,
	WrongCallsign:      ErrWrongCallsign,
	MissingPhrase:      ErrMissingPhrase,
	MalformedFrequency: ErrMalformedFrequency,
	MalformedSquawk:    ErrMalformedSquawk,
	UnexpectedStage:    ErrUnexpectedStage,
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown error kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *ErrorKind) UnmarshalText(b []byte) error {
	for kind, n := range kindNames {
		if n == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", string(b))
}

// ParseError is the classified failure of a transmission. Detail names what
// was expected.
type ParseError struct {
	Kind   ErrorKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

func (e *ParseError) Is(target error) bool {
	if t, ok := target.(*ParseError); ok {
		return t.Kind == e.Kind
	}
	return kindSentinels[e.Kind] == target
}

func newError(kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a *ParseError anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// AsParseError unwraps err to a *ParseError, or nil.
func AsParseError(err error) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}
