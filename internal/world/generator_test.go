package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultGenerator(t *testing.T) *Generator {
	t.Helper()
	tbl, err := DefaultTable()
	require.NoError(t, err)
	return NewGenerator(tbl)
}

func TestDefaultTableLoads(t *testing.T) {
	tbl, err := DefaultTable()
	require.NoError(t, err)
	assert.Equal(t, 8, tbl.Len())

	a, ok := tbl.Lookup("egka")
	require.True(t, ok)
	assert.Equal(t, "Shoreham", a.Name)
	assert.Equal(t, Ground, a.ComFrequencies[0].FrequencyType)
}

func TestStartIsSeedModuloTable(t *testing.T) {
	g := defaultGenerator(t)
	for seed := uint32(0); seed < 32; seed++ {
		a, err := g.Start(seed)
		require.NoError(t, err)
		want, err := g.Table().At(int(seed % uint32(g.Table().Len())))
		require.NoError(t, err)
		assert.Equal(t, want.ICAO, a.ICAO)
	}
}

func TestSeed42Fixture(t *testing.T) {
	g := defaultGenerator(t)
	a, err := g.Start(42)
	require.NoError(t, err)
	assert.Equal(t, "EGHR", a.ICAO)
	assert.Equal(t, COMFrequency{FrequencyType: Ground, Frequency: 120.655, Callsign: "Goodwood Ground"}, a.ComFrequencies[0])
}

func TestDeterminism(t *testing.T) {
	g := defaultGenerator(t)
	for _, seed := range []uint32{0, 1, 7, 42, 1000, 65535, 4294967295} {
		s1, err := g.Start(seed)
		require.NoError(t, err)
		s2, err := g.Start(seed)
		require.NoError(t, err)
		assert.Equal(t, s1, s2)

		d1, err := g.Destination(seed)
		require.NoError(t, err)
		d2, err := g.Destination(seed)
		require.NoError(t, err)
		assert.Equal(t, d1, d2)
		assert.NotEqual(t, s1.ICAO, d1.ICAO, "seed %d", seed)

		f1, err := g.Facts(seed)
		require.NoError(t, err)
		f2, err := g.Facts(seed)
		require.NoError(t, err)
		assert.Equal(t, f1, f2)
	}
}

func TestDeterminismAcrossGenerators(t *testing.T) {
	g1 := defaultGenerator(t)
	tbl, err := LoadTable("aerodromes.yaml")
	require.NoError(t, err)
	g2 := NewGenerator(tbl)

	for seed := uint32(100); seed < 120; seed++ {
		f1, err := g1.Facts(seed)
		require.NoError(t, err)
		f2, err := g2.Facts(seed)
		require.NoError(t, err)
		assert.Equal(t, f1, f2)
	}
}

func TestFactsAreConsistentWithAerodromes(t *testing.T) {
	g := defaultGenerator(t)
	for seed := uint32(0); seed < 64; seed++ {
		f, err := g.Facts(seed)
		require.NoError(t, err)

		rwy, ok := f.Start.Runway(f.DepartureRunway)
		require.True(t, ok, "departure runway %s at %s", f.DepartureRunway, f.Start.ICAO)
		assert.Contains(t, rwy.HoldingPoints, f.HoldingPoint)

		_, ok = f.Destination.Runway(f.ArrivalRunway)
		assert.True(t, ok)
		assert.Contains(t, f.Destination.Stands, f.Parking)
		assert.Contains(t, f.Destination.ReportingPoints, f.NextPoint)
		assert.Contains(t, cruiseAltitudes, f.CruiseAltitude)
		assert.Contains(t, joinInstructions, f.JoinInstruction)
		assert.NotEqual(t, Ground, f.Arrival.FrequencyType, "arrival station at %s", f.Destination.ICAO)
		assert.Contains(t, f.Destination.ComFrequencies, f.Arrival)

		assert.GreaterOrEqual(t, f.Heading, 5)
		assert.LessOrEqual(t, f.Heading, 360)
		assert.Zero(t, f.Heading%5)
		assert.Positive(t, f.DistanceNM)

		assert.GreaterOrEqual(t, f.StartWeather.QNH, 950)
		assert.LessOrEqual(t, f.StartWeather.QNH, 1050)
		assert.Zero(t, f.StartWeather.WindDirection%10)
		assert.LessOrEqual(t, f.StartWeather.Dewpoint, f.StartWeather.Temperature)
	}
}

func TestTowerPreference(t *testing.T) {
	tbl, err := DefaultTable()
	require.NoError(t, err)

	shoreham, _ := tbl.Lookup("EGKA")
	assert.Equal(t, "Shoreham Tower", shoreham.Station(Tower, Information, AirGround).Callsign)

	bembridge, _ := tbl.Lookup("EGHJ")
	assert.Equal(t, "Bembridge Radio", bembridge.Station(Tower, Information, AirGround).Callsign)
}

func TestBestRunwayIntoWind(t *testing.T) {
	a := Aerodrome{Runways: []Runway{{Name: "06"}, {Name: "24"}, {Name: "14"}, {Name: "32"}}}
	tests := []struct {
		wind int
		want string
	}{
		{240, "24"},
		{250, "24"},
		{60, "06"},
		{150, "14"},
		{310, "32"},
		{360, "32"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, bestRunway(a, tc.wind).Name, "wind %d", tc.wind)
	}
}

func TestEmptyTableIsConfigError(t *testing.T) {
	_, err := NewTable(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))

	g := NewGenerator(nil)
	_, err = g.Start(1)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = g.Destination(1)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = g.Facts(1)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestTableRejectsIncompleteAerodromes(t *testing.T) {
	_, err := NewTable([]Aerodrome{{ICAO: "XXXX", Runways: []Runway{{Name: "09"}}}})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewTable([]Aerodrome{{ICAO: "XXXX", ComFrequencies: []COMFrequency{{Frequency: 120.0}}}})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewTable([]Aerodrome{{ICAO: "XXXX", ComFrequencies: []COMFrequency{{FrequencyType: Ground, Frequency: 121.8}}, Runways: []Runway{{Name: "09"}}}})
	assert.ErrorIs(t, err, ErrConfig, "ground-only aerodromes cannot be flown into")

	tbl, err := NewTable([]Aerodrome{{ICAO: "XXXX", ComFrequencies: []COMFrequency{{Frequency: 120.0}}, Runways: []Runway{{Name: "09"}}}})
	require.NoError(t, err)
	_, err = tbl.At(1)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestSingleEntryTableDestinationIsStart(t *testing.T) {
	tbl, err := NewTable([]Aerodrome{{ICAO: "XXXX", ComFrequencies: []COMFrequency{{Frequency: 120.0, Callsign: "X Radio"}}, Runways: []Runway{{Name: "09"}}}})
	require.NoError(t, err)
	g := NewGenerator(tbl)
	d, err := g.Destination(99)
	require.NoError(t, err)
	assert.Equal(t, "XXXX", d.ICAO)

	f, err := g.Facts(99)
	require.NoError(t, err)
	assert.Equal(t, DefaultHoldingPoint, f.HoldingPoint)
	assert.Equal(t, "Apron", f.Parking)
}
