// Package scenario is the session façade: it starts scenarios and runs one
// pilot transmission at a time through the parser, the engine and the ATC
// agent.
package scenario

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/curbz/rt-trainer/internal/atc"
	"github.com/curbz/rt-trainer/internal/engine"
	"github.com/curbz/rt-trainer/internal/phraseology"
	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/world"
)

// StatusData is the complete checkpoint of a scenario. Everything else is
// derived from the seed.
type StatusData struct {
	Seed         uint32      `json:"seed" msgpack:"seed"`
	CurrentState state.State `json:"current_state" msgpack:"current_state"`
}

// Turn is the outcome of one transmission. Error is set when the turn did
// not advance; State is then equal to the state before the turn.
type Turn struct {
	State    state.State             `json:"state"`
	Advanced bool                    `json:"advanced"`
	Error    *phraseology.ParseError `json:"error,omitempty"`
	Reply    *atc.Transmission       `json:"reply,omitempty"`
}

// Session is stateless between calls and safe for concurrent use.
type Session struct {
	gen    *world.Generator
	parser *phraseology.Parser
	agent  *atc.Agent
	log    logrus.FieldLogger
}

type Option func(*Session)

// WithLogger sets where turn outcomes are logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.log = l }
}

// WithParser replaces the parser built over the embedded grammar.
func WithParser(p *phraseology.Parser) Option {
	return func(s *Session) { s.parser = p }
}

func New(gen *world.Generator, agent *atc.Agent, opts ...Option) (*Session, error) {
	s := &Session{gen: gen, agent: agent, log: logrus.StandardLogger()}
	for _, o := range opts {
		o(s)
	}
	if s.parser == nil {
		g, err := phraseology.DefaultGrammar()
		if err != nil {
			return nil, err
		}
		s.parser = phraseology.NewParser(g)
	}
	return s, nil
}

// NewDefault builds a session over the built-in aerodrome table and phrases.
func NewDefault(opts ...Option) (*Session, error) {
	tbl, err := world.DefaultTable()
	if err != nil {
		return nil, err
	}
	agent, err := atc.NewDefault()
	if err != nil {
		return nil, err
	}
	return New(world.NewGenerator(tbl), agent, opts...)
}

func (s *Session) Generator() *world.Generator {
	return s.gen
}

// Start validates p and returns the initial state of its scenario.
func (s *Session) Start(p Params) (state.State, error) {
	if err := p.Validate(); err != nil {
		return state.State{}, err
	}
	start, err := s.gen.Start(p.Seed)
	if err != nil {
		return state.State{}, err
	}
	if len(start.ComFrequencies) == 0 {
		return state.State{}, &world.ConfigError{Reason: fmt.Sprintf("aerodrome %s has no COM frequencies", start.ICAO)}
	}
	prefix, _ := state.ParsePrefix(p.Prefix)
	callsign := strings.ToUpper(strings.TrimSpace(p.UserCallsign))
	target := start.ComFrequencies[0]

	radio := p.RadioFrequency
	if radio == 0 {
		radio = target.Frequency
	}

	return state.State{
		Status:                      state.Parked{Position: world.DefaultHoldingPoint, Stage: state.PreRadioCheck},
		Lat:                         start.Lat,
		Long:                        start.Long,
		CurrentTarget:               target,
		Prefix:                      prefix,
		Callsign:                    callsign,
		TargetAllocatedCallsign:     callsign,
		Emergency:                   state.EmergencyNone,
		CurrentRadioFrequency:       radio,
		CurrentTransponderFrequency: state.DefaultTransponder,
		AircraftType:                strings.ToUpper(strings.TrimSpace(p.AircraftType)),
	}, nil
}

// StartData is Start wrapped into a checkpoint.
func (s *Session) StartData(p Params) (StatusData, error) {
	st, err := s.Start(p)
	if err != nil {
		return StatusData{}, err
	}
	return StatusData{Seed: p.Seed, CurrentState: st}, nil
}

// Step runs one raw transmission against a checkpoint. Rejected
// transmissions come back in Turn.Error; the returned error is reserved for
// configuration problems.
func (s *Session) Step(data StatusData, raw string) (Turn, error) {
	facts, err := s.gen.Facts(data.Seed)
	if err != nil {
		return Turn{}, err
	}

	before := data.CurrentState
	in, perr := s.parser.Parse(before.Key(), before.CurrentTarget, raw, before, facts)
	after, err := engine.Advance(before, in, perr, facts)

	turn := Turn{State: after, Advanced: err == nil}
	if err != nil {
		turn.Error = phraseology.AsParseError(err)
		if turn.Error == nil {
			return Turn{}, err
		}
	}
	turn.Reply = s.agent.Reply(before, after, in, err, facts)

	fields := logrus.Fields{
		"seed":  data.Seed,
		"phase": before.Key().Phase.String(),
		"stage": before.Key().String(),
	}
	if turn.Error != nil {
		fields["error_kind"] = turn.Error.Kind.String()
		s.log.WithFields(fields).Debug("transmission rejected")
	} else {
		s.log.WithFields(fields).WithField("next", after.Key().String()).Debug("transmission accepted")
	}
	return turn, nil
}
