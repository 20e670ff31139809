package phraseology

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/world"
)

func fixture(t *testing.T) (state.State, world.Facts) {
	t.Helper()
	tbl, err := world.DefaultTable()
	require.NoError(t, err)
	f, err := world.NewGenerator(tbl).Facts(42)
	require.NoError(t, err)

	st := state.State{
		Status:                      state.Parked{Position: "A1", Stage: state.PreRadioCheck},
		Lat:                         f.Start.Lat,
		Long:                        f.Start.Long,
		CurrentTarget:               f.Start.ComFrequencies[0],
		Prefix:                      state.PrefixNone,
		Callsign:                    "G-ABCD",
		TargetAllocatedCallsign:     "G-ABCD",
		CurrentRadioFrequency:       f.Start.ComFrequencies[0].Frequency,
		CurrentTransponderFrequency: state.DefaultTransponder,
		AircraftType:                "C172",
	}
	return st, f
}

// goodMessages holds one correct transmission per stage for a station named
// "Goodwood Ground".
func goodMessages(f world.Facts) map[string]string {
	return map[string]string{
		"Parked/PreRadioCheck":                          "Goodwood Ground, G-ABCD, radio check 120.655",
		"Parked/PreDepartInfo":                          "Goodwood Ground, G-ABCD, request departure information",
		"Parked/PreReadbackDepartInfo":                  fmt.Sprintf("Runway %s, QNH %d, G-ABCD", f.DepartureRunway, f.StartWeather.QNH),
		"Parked/PreTaxiRequest":                         "Goodwood Ground, G-ABCD, request taxi",
		"Parked/PreTaxiClearanceReadback":               fmt.Sprintf("Taxi holding point %s runway %s, G-ABCD", f.HoldingPoint, f.DepartureRunway),
		"TaxiingToTakeoff/PreReadyForDeparture":         "Goodwood Ground, G-ABCD, ready for departure",
		"TaxiingToTakeoff/PreInfoGivenForDeparture":     fmt.Sprintf("Line up and wait runway %s, G-ABCD", f.DepartureRunway),
		"TaxiingToTakeoff/PreClearedForTakeoff":         fmt.Sprintf("G-ABCD lined up runway %s", f.DepartureRunway),
		"TaxiingToTakeoff/PreReadbackClearedForTakeoff": fmt.Sprintf("Cleared for takeoff runway %s, G-ABCD", f.DepartureRunway),
		"Airborne/PreFrequencyChangeRequest":            "Goodwood Ground, G-ABCD, request frequency change",
		"Airborne/PreInitialContact":                    "Goodwood Ground, G-ABCD",
		"Airborne/PrePositionReport":                    fmt.Sprintf("G-ABCD request join, %d feet, %s", f.CruiseAltitude, f.NextPoint),
		"Airborne/PreJoinReadback":                      fmt.Sprintf("Join %s runway %s QNH %d, G-ABCD", f.JoinInstruction, f.ArrivalRunway, f.DestinationWeather.QNH),
		"Landing/PreFinalReport":                        "G-ABCD final",
		"Landing/PreReadbackClearedToLand":              fmt.Sprintf("Cleared to land runway %s, G-ABCD", f.ArrivalRunway),
		"LandingToParked/PreVacatedReport":              "G-ABCD runway vacated",
		"LandingToParked/PreTaxiToParkingReadback":      fmt.Sprintf("Taxi to %s, G-ABCD", f.Parking),
	}
}

func parseAt(t *testing.T, st state.State, f world.Facts, key string, msg string) (Intent, error) {
	t.Helper()
	k, err := state.ParseKey(key)
	require.NoError(t, err)
	st.Status = state.WithStage(statusFor(k.Phase), k.Stage)
	return Parse(k, st.CurrentTarget, msg, st, f)
}

func statusFor(p state.Phase) state.Status {
	switch p {
	case state.PhaseTaxiingToTakeoff:
		return state.TaxiingToTakeoff{}
	case state.PhaseAirborne:
		return state.Airborne{}
	case state.PhaseLanding:
		return state.Landing{}
	case state.PhaseLandingToParked:
		return state.LandingToParked{}
	}
	return state.Parked{}
}

func TestDefaultGrammarCoversEveryStage(t *testing.T) {
	g, err := DefaultGrammar()
	require.NoError(t, err)
	for _, k := range state.AllKeys() {
		sg, ok := g.Stage(k)
		require.True(t, ok, k.String())
		assert.Equal(t, k, sg.Key())
	}
}

func TestLoadGrammarRejectsGaps(t *testing.T) {
	_, err := LoadGrammar([]byte("stages:\n  - key: Parked/PreRadioCheck\n    intent: RadioCheck\n"))
	assert.ErrorContains(t, err, "no entry for stage")

	_, err = LoadGrammar([]byte("stages:\n  - key: Parked/Nowhere\n    intent: X\n"))
	assert.Error(t, err)

	_, err = LoadGrammar([]byte("stages:\n  - key: Parked/PreRadioCheck\n    intent: X\n    fields: [{name: colour, expect: parking}]\n"))
	assert.ErrorContains(t, err, "unknown field")
}

func TestEveryStageAcceptsItsCall(t *testing.T) {
	st, f := fixture(t)
	for key, msg := range goodMessages(f) {
		t.Run(key, func(t *testing.T) {
			in, err := parseAt(t, st, f, key, msg)
			require.NoError(t, err, "message %q", msg)
			assert.Equal(t, Advance, in.Kind)
			assert.Equal(t, key, in.Key.String())
			assert.NotEmpty(t, in.Name)
		})
	}
}

func TestWrongStationInEveryPhase(t *testing.T) {
	st, f := fixture(t)
	for key := range goodMessages(f) {
		t.Run(key, func(t *testing.T) {
			_, err := parseAt(t, st, f, key, "Shoreham Tower, G-ABCD, request taxi")
			assert.ErrorIs(t, err, ErrWrongStation)
		})
	}
}

func TestParseErrors(t *testing.T) {
	st, f := fixture(t)
	rwy, qnh := f.DepartureRunway, f.StartWeather.QNH
	wrongQNH := qnh + 1
	if wrongQNH > 1050 {
		wrongQNH = qnh - 1
	}

	tests := []struct {
		name string
		key  string
		msg  string
		want ErrorKind
	}{
		{"wrong station", "Parked/PreRadioCheck", "Shoreham Tower, G-ABCD, radio check", WrongStation},
		{"unaddressed call", "Parked/PreRadioCheck", "G-ABCD radio check", WrongStation},
		{"other aircraft", "Parked/PreRadioCheck", "Goodwood Ground, G-WXYZ, radio check", WrongCallsign},
		{"no callsign", "Parked/PreRadioCheck", "Goodwood Ground radio check", WrongCallsign},
		{"frequency out of band", "Parked/PreRadioCheck", "Goodwood Ground, G-ABCD, radio check 140.000", MalformedFrequency},
		{"frequency mismatch", "Parked/PreRadioCheck", "Goodwood Ground, G-ABCD, radio check 121.500", MalformedFrequency},
		{"too many decimals", "Parked/PreRadioCheck", "Goodwood Ground, G-ABCD, radio check 120.6555", MalformedFrequency},
		{"call of later stage", "Parked/PreRadioCheck", "Goodwood Ground, G-ABCD, request taxi", UnexpectedStage},
		{"no key phrase", "Parked/PreRadioCheck", "Goodwood Ground, G-ABCD, hello", MissingPhrase},
		{"empty", "Parked/PreRadioCheck", "   ", MissingPhrase},
		{"readback without qnh", "Parked/PreReadbackDepartInfo", fmt.Sprintf("Runway %s, G-ABCD", rwy), MissingPhrase},
		{"readback wrong qnh", "Parked/PreReadbackDepartInfo", fmt.Sprintf("Runway %s, QNH %d, G-ABCD", rwy, wrongQNH), MissingPhrase},
		{"readback qnh out of range", "Parked/PreReadbackDepartInfo", fmt.Sprintf("Runway %s, QNH 1200, G-ABCD", rwy), MissingPhrase},
		{"taxi readback without holding point", "Parked/PreTaxiClearanceReadback", fmt.Sprintf("Taxi runway %s, G-ABCD", rwy), MissingPhrase},
		{"takeoff readback wrong runway", "TaxiingToTakeoff/PreReadbackClearedForTakeoff", "Cleared for takeoff runway 35, G-ABCD", MissingPhrase},
		{"join without altitude", "Airborne/PrePositionReport", "G-ABCD request join, " + f.NextPoint, MissingPhrase},
		{"parking wrong stand", "LandingToParked/PreTaxiToParkingReadback", "Taxi to Hangar 9, G-ABCD", MissingPhrase},
		{"squawk not octal", "Parked/PreTaxiRequest", "G-ABCD squawk 7800", MalformedSquawk},
		{"squawk short", "Parked/PreTaxiRequest", "G-ABCD squawk one two three", MalformedSquawk},
		{"squawk no code", "Parked/PreTaxiRequest", "G-ABCD squawk", MalformedSquawk},
		{"later call at a readback", "Parked/PreReadbackDepartInfo", "Goodwood Ground, G-ABCD, request taxi", UnexpectedStage},
		{"landing readback at initial contact", "Airborne/PreInitialContact", fmt.Sprintf("Goodwood Ground, G-ABCD, cleared to land runway %s", f.ArrivalRunway), UnexpectedStage},
		{"readback to another aerodrome", "Parked/PreReadbackDepartInfo", fmt.Sprintf("Bristol, G-ABCD, runway %s, QNH %d", rwy, qnh), WrongStation},
		{"greeting another aerodrome", "Parked/PreReadbackDepartInfo", fmt.Sprintf("Good morning Bristol, G-ABCD, runway %s, QNH %d", rwy, qnh), WrongStation},
		{"shutdown", "LandingToParked/Shutdown", "Goodwood Ground, G-ABCD, radio check", UnexpectedStage},
		{"shutdown beats wrong station", "LandingToParked/Shutdown", "Shoreham Tower, G-WXYZ", UnexpectedStage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseAt(t, st, f, tc.key, tc.msg)
			require.Error(t, err)
			assert.Equal(t, tc.want, KindOf(err), err.Error())
		})
	}
}

func TestPlaceNameAddressee(t *testing.T) {
	st, f := fixture(t)
	readback := fmt.Sprintf("runway %s, QNH %d", f.DepartureRunway, f.StartWeather.QNH)
	for _, msg := range []string{
		"Goodwood, G-ABCD, " + readback,
		"Good morning Goodwood, G-ABCD, " + readback,
		"Roger, " + readback + ", G-ABCD",
		readback + ", G-ABCD",
	} {
		t.Run(msg, func(t *testing.T) {
			_, err := parseAt(t, st, f, "Parked/PreReadbackDepartInfo", msg)
			assert.NoError(t, err)
		})
	}
}

func TestOrthogonalIntents(t *testing.T) {
	st, f := fixture(t)
	tests := []struct {
		name string
		msg  string
		want Intent
	}{
		{"mayday", "Goodwood Ground, G-ABCD, mayday mayday mayday engine failure", Intent{Kind: DeclareEmergency, Emergency: state.EmergencyMayday}},
		{"pan pan", "Pan pan, pan pan, pan pan, Goodwood Ground, G-ABCD, rough running engine", Intent{Kind: DeclareEmergency, Emergency: state.EmergencyPanPan}},
		{"cancel", "Goodwood Ground, G-ABCD, cancel mayday", Intent{Kind: CancelEmergency}},
		{"cancel pan", "G-ABCD cancel pan pan", Intent{Kind: CancelEmergency}},
		{"squawk", "Squawking seven seven zero zero, G-ABCD", Intent{Kind: Squawk, Code: 7700}},
		{"ident", "Squawk ident, G-ABCD", Intent{Kind: Ident}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, err := parseAt(t, st, f, "Parked/PreTaxiRequest", tc.msg)
			require.NoError(t, err)
			assert.Equal(t, tc.want.Kind, in.Kind)
			assert.Equal(t, tc.want.Emergency, in.Emergency)
			assert.Equal(t, tc.want.Code, in.Code)
		})
	}
}

func TestGoAroundOnlyWhileLanding(t *testing.T) {
	st, f := fixture(t)
	in, err := parseAt(t, st, f, "Landing/PreReadbackClearedToLand", "G-ABCD going around")
	require.NoError(t, err)
	assert.Equal(t, GoAround, in.Kind)

	_, err = parseAt(t, st, f, "Airborne/PrePositionReport", "G-ABCD going around")
	assert.ErrorIs(t, err, ErrMissingPhrase)
}

func TestAllocatedCallsignAndPrefix(t *testing.T) {
	st, f := fixture(t)
	st.TargetAllocatedCallsign = "G-CD"

	in, err := parseAt(t, st, f, "Parked/PreTaxiRequest", "Goodwood Ground, golf charlie delta, request taxi")
	require.NoError(t, err)
	assert.Equal(t, "RequestTaxi", in.Name)

	st.Prefix = state.PrefixStudent
	_, err = parseAt(t, st, f, "Parked/PreTaxiRequest", "Goodwood Ground, student G-ABCD, request taxi")
	assert.NoError(t, err)
}

func TestRadioCheckCapturesFrequency(t *testing.T) {
	st, f := fixture(t)
	in, err := parseAt(t, st, f, "Parked/PreRadioCheck", "Goodwood Ground golf alpha bravo charlie delta radio check one two zero decimal six five five")
	require.NoError(t, err)
	assert.Equal(t, "120.655", in.Fields["frequency"])
}

func TestParserNeverPanics(t *testing.T) {
	st, f := fixture(t)
	inputs := []string{"", ".", "....", "1.2.3", "squawk", "runway", "qnh", "holding point", "mayday", "\x00\xff", "🛩️ G-ABCD"}
	for _, k := range state.AllKeys() {
		for _, in := range inputs {
			assert.NotPanics(t, func() {
				_, _ = parseAt(t, st, f, k.String(), in)
			})
		}
	}
}

func TestParseErrorIs(t *testing.T) {
	err := error(&ParseError{Kind: MissingPhrase, Detail: "expected qnh"})
	assert.ErrorIs(t, err, ErrMissingPhrase)
	assert.NotErrorIs(t, err, ErrWrongStation)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), &ParseError{Kind: MissingPhrase})
	assert.Equal(t, "MissingPhrase: expected qnh", err.Error())
}

func TestExamplesParse(t *testing.T) {
	st, f := fixture(t)
	st.TargetAllocatedCallsign = "G-CD"
	st.Prefix = state.PrefixStudent
	g, err := DefaultGrammar()
	require.NoError(t, err)

	for _, k := range state.AllKeys() {
		st.Status = state.WithStage(statusFor(k.Phase), k.Stage)
		msg, ok := g.Example(k, st, f)
		if state.Terminal(st.Status) {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok, k.String())
		_, err := NewParser(g).Parse(k, st.CurrentTarget, msg, st, f)
		assert.NoError(t, err, "%s: %q", k, msg)
	}
}
