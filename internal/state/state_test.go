package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/curbz/rt-trainer/internal/world"
)

func sampleState() State {
	return State{
		Status:                      Parked{Position: "A1", Stage: PreDepartInfo},
		Lat:                         50.859,
		Long:                        -0.759,
		CurrentTarget:               world.COMFrequency{FrequencyType: world.Ground, Frequency: 120.655, Callsign: "Goodwood Ground"},
		Prefix:                      PrefixStudent,
		Callsign:                    "G-ABCD",
		TargetAllocatedCallsign:     "G-ABCD",
		Emergency:                   EmergencyPanPan,
		Squark:                      true,
		CurrentRadioFrequency:       120.655,
		CurrentTransponderFrequency: DefaultTransponder,
		AircraftType:                "C172",
	}
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "PreRadioCheck", PreRadioCheck.String())
	assert.Equal(t, "PreReadbackClearedForTakeoff", PreReadbackClearedForTakeoff.String())
	assert.Equal(t, "PreJoinReadback", PreJoinReadback.String())
	assert.Equal(t, "Shutdown", Shutdown.String())
	assert.Equal(t, 2, Shutdown.Index())
	assert.Equal(t, "Parked/PreTaxiRequest", Parked{Stage: PreTaxiRequest}.Key().String())
}

func TestKeyNextWalksWholeFlight(t *testing.T) {
	keys := AllKeys()
	require.Len(t, keys, 18)

	k := keys[0]
	for i := 1; i < len(keys); i++ {
		next, ok := k.Next()
		require.True(t, ok)
		assert.Equal(t, keys[i], next)
		assert.True(t, k.Before(next))
		k = next
	}
	_, ok := k.Next()
	assert.False(t, ok)
	assert.Equal(t, "LandingToParked/Shutdown", k.String())
}

func TestParseKey(t *testing.T) {
	for _, k := range AllKeys() {
		got, err := ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	tests := []string{"Parked", "Cruise/PreRadioCheck", "Parked/Shutdown", ""}
	for _, tc := range tests {
		t.Run(tc, func(t *testing.T) {
			_, err := ParseKey(tc)
			assert.Error(t, err)
		})
	}
}

func TestStatusJSONShape(t *testing.T) {
	b, err := json.Marshal(Parked{Position: "A1", Stage: PreRadioCheck})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"Parked","stage":"PreRadioCheck","position":"A1"}`, string(b))

	b, err = MarshalStatus(Airborne{Altitude: 2000, Heading: 95, Speed: 105, NextPoint: "Rye", Stage: PrePositionReport})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"Airborne","stage":"PrePositionReport","altitude":2000,"heading":95,"speed":105,"next_point":"Rye"}`, string(b))
}

func TestUnmarshalStatusRejectsUnknownNames(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown phase", `{"phase":"Cruise","stage":"PreRadioCheck"}`},
		{"stage of other phase", `{"phase":"Parked","stage":"PreFinalReport"}`},
		{"missing stage", `{"phase":"Landing"}`},
		{"not json", `nope`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalStatus([]byte(tc.in))
			assert.Error(t, err)
		})
	}
}

func TestStateJSONRoundTrip(t *testing.T) {
	statuses := []Status{
		Parked{Position: "A1", Stage: PreTaxiClearanceReadback},
		TaxiingToTakeoff{Holdpoint: "B1", Runway: "24", Stage: PreClearedForTakeoff},
		Airborne{Altitude: 2500, Heading: 90, Speed: 105, NextPoint: "Rye", Stage: PreInitialContact},
		Landing{Runway: "21", Stage: PreReadbackClearedToLand},
		LandingToParked{Position: "Stand 2", Stage: Shutdown},
	}
	for _, st := range statuses {
		t.Run(st.Key().String(), func(t *testing.T) {
			s := sampleState()
			s.Status = st

			b, err := json.Marshal(s)
			require.NoError(t, err)
			var got State
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, s, got)

			mb, err := msgpack.Marshal(s)
			require.NoError(t, err)
			var gotMP State
			require.NoError(t, msgpack.Unmarshal(mb, &gotMP))
			assert.Equal(t, s, gotMP)
		})
	}
}

func TestStateJSONFieldNames(t *testing.T) {
	b, err := json.Marshal(sampleState())
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"status", "lat", "long", "current_target", "prefix", "callsign",
		"target_allocated_callsign", "emergency", "squark", "current_radio_frequency",
		"current_transponder_frequency", "aircraft_type"} {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "PanPan", m["emergency"])
}

func TestMarshalNilStatusFails(t *testing.T) {
	s := sampleState()
	s.Status = nil
	_, err := json.Marshal(s)
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	s := sampleState()
	c := s.Clone()
	assert.Equal(t, s, c)

	c.Status = WithStage(c.Status, int(PreReadbackDepartInfo))
	c.CurrentTarget.Callsign = "Goodwood Tower"
	assert.Equal(t, PreDepartInfo, s.Status.(Parked).Stage)
	assert.Equal(t, "Goodwood Ground", s.CurrentTarget.Callsign)
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(LandingToParked{Stage: Shutdown}))
	assert.False(t, Terminal(LandingToParked{Stage: PreTaxiToParkingReadback}))
	assert.False(t, Terminal(Parked{}))
	assert.False(t, State{}.Terminal())
}

func TestParsePrefix(t *testing.T) {
	p, err := ParsePrefix(" Student ")
	require.NoError(t, err)
	assert.Equal(t, PrefixStudent, p)

	p, err = ParsePrefix("")
	require.NoError(t, err)
	assert.Equal(t, PrefixNone, p)
	assert.Empty(t, p.Word())

	_, err = ParsePrefix("captain")
	assert.Error(t, err)
}

func TestValidSquawk(t *testing.T) {
	tests := []struct {
		code uint16
		want bool
	}{
		{7000, true},
		{7700, true},
		{0, true},
		{1234, true},
		{7777, true},
		{7800, false},
		{1289, false},
		{17000, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ValidSquawk(tc.code), "code %d", tc.code)
	}
}
