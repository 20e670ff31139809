package world

import (
	"math"

	"github.com/curbz/rt-trainer/pkg/geometry"
	"github.com/curbz/rt-trainer/pkg/rand"
)

// DefaultHoldingPoint is used when a runway lists no holding points.
const DefaultHoldingPoint = "A1"

var (
	cruiseAltitudes  = []int{2000, 2500, 3000, 3500}
	joinInstructions = []string{"left hand downwind", "right hand downwind", "base", "overhead"}
)

// Facts are every world fact a scenario derives from its seed. Computing
// them twice from the same seed yields equal values.
type Facts struct {
	Seed uint32 `json:"seed"`

	Start        Aerodrome    `json:"start"`
	StartWeather Weather      `json:"start_weather"`
	Tower        COMFrequency `json:"tower"`

	DepartureRunway string `json:"departure_runway"`
	HoldingPoint    string `json:"holding_point"`

	CruiseAltitude int    `json:"cruise_altitude"`
	Heading        int    `json:"heading"`
	DistanceNM     int    `json:"distance_nm"`
	NextPoint      string `json:"next_point"`

	Destination        Aerodrome    `json:"destination"`
	DestinationWeather Weather      `json:"destination_weather"`
	Arrival            COMFrequency `json:"arrival"`
	ArrivalRunway      string       `json:"arrival_runway"`
	JoinInstruction    string       `json:"join_instruction"`
	Parking            string       `json:"parking"`
}

// Generator derives aerodromes and facts from seeds over a fixed table.
type Generator struct {
	table *Table
}

func NewGenerator(t *Table) *Generator {
	return &Generator{table: t}
}

func (g *Generator) Table() *Table {
	return g.table
}

func (g *Generator) startIndex(seed uint32) (int, error) {
	n := g.table.Len()
	if n == 0 {
		return 0, &ConfigError{Reason: "aerodrome table is empty"}
	}
	return int(seed % uint32(n)), nil
}

// Start returns the departure aerodrome: the table entry at seed modulo the table size.
func (g *Generator) Start(seed uint32) (Aerodrome, error) {
	idx, err := g.startIndex(seed)
	if err != nil {
		return Aerodrome{}, err
	}
	return g.table.At(idx)
}

// Destination returns the arrival aerodrome. It is never the start aerodrome
// unless the table has a single entry.
func (g *Generator) Destination(seed uint32) (Aerodrome, error) {
	idx, err := g.startIndex(seed)
	if err != nil {
		return Aerodrome{}, err
	}
	n := g.table.Len()
	if n > 1 {
		r := rand.NewStream(uint64(seed), "destination")
		idx = (idx + 1 + r.Intn(n-1)) % n
	}
	return g.table.At(idx)
}

// Facts computes the complete set of seed-derived facts for a scenario.
func (g *Generator) Facts(seed uint32) (Facts, error) {
	start, err := g.Start(seed)
	if err != nil {
		return Facts{}, err
	}
	dest, err := g.Destination(seed)
	if err != nil {
		return Facts{}, err
	}

	f := Facts{
		Seed:               seed,
		Start:              start,
		StartWeather:       SampleWeather(seed, start),
		Tower:              start.Station(Tower, Information, AirGround, Approach),
		Destination:        dest,
		DestinationWeather: SampleWeather(seed, dest),
		Arrival:            dest.Station(Tower, Information, AirGround, Approach),
	}

	dep := bestRunway(start, f.StartWeather.WindDirection)
	f.DepartureRunway = dep.Name
	f.HoldingPoint = DefaultHoldingPoint
	if len(dep.HoldingPoints) > 0 {
		f.HoldingPoint = dep.HoldingPoints[0]
	}
	f.ArrivalRunway = bestRunway(dest, f.DestinationWeather.WindDirection).Name

	f.CruiseAltitude = rand.SampleSlice(rand.NewStream(uint64(seed), "cruise"), cruiseAltitudes)
	f.JoinInstruction = rand.SampleSlice(rand.NewStream(uint64(seed), "join"), joinInstructions)

	f.NextPoint = dest.Name
	if len(dest.ReportingPoints) > 0 {
		f.NextPoint = rand.SampleSlice(rand.NewStream(uint64(seed), "route"), dest.ReportingPoints)
	}
	f.Parking = "Apron"
	if len(dest.Stands) > 0 {
		f.Parking = rand.SampleSlice(rand.NewStream(uint64(seed), "parking"), dest.Stands)
	}

	bearing := geometry.InitialBearing(start.Lat, start.Long, dest.Lat, dest.Long)
	f.Heading = int(math.Round(bearing/5)*5) % 360
	if f.Heading == 0 {
		f.Heading = 360
	}
	f.DistanceNM = int(math.Round(geometry.DistNM(start.Lat, start.Long, dest.Lat, dest.Long)))

	return f, nil
}

// bestRunway picks the runway most closely aligned into wind. Ties keep table order.
func bestRunway(a Aerodrome, windDir int) Runway {
	best := a.Runways[0]
	bestDiff := geometry.AngleDiff(best.Heading(), float64(windDir))
	for _, r := range a.Runways[1:] {
		if d := geometry.AngleDiff(r.Heading(), float64(windDir)); d < bestDiff {
			best, bestDiff = r, d
		}
	}
	return best
}
