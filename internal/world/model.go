package world

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

type FrequencyType string

const (
	Ground      FrequencyType = "GND"
	Tower       FrequencyType = "TWR"
	Information FrequencyType = "AFIS"
	AirGround   FrequencyType = "AG"
	Approach    FrequencyType = "APP"
)

// COMFrequency is a (station type, frequency, station callsign) triple.
type COMFrequency struct {
	FrequencyType FrequencyType `json:"frequency_type" yaml:"frequency_type"`
	Frequency     float64       `json:"frequency" yaml:"frequency"`
	Callsign      string        `json:"callsign" yaml:"callsign"`
}

// KHz returns the frequency as an integer number of kHz, which is how
// frequencies are compared.
func (c COMFrequency) KHz() int {
	return int(math.Round(c.Frequency * 1000))
}

type Runway struct {
	Name          string   `json:"name" yaml:"name"`
	HoldingPoints []string `json:"holding_points" yaml:"holding_points"`
}

// Heading returns the magnetic heading implied by the runway designator, e.g. "24L" -> 240.
func (r Runway) Heading() float64 {
	digits := strings.TrimRightFunc(r.Name, unicode.IsLetter)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return float64(n * 10)
}

// METORData holds the climatological statistics weather samples are drawn from.
type METORData struct {
	AvgWindDirection float64 `json:"avg_wind_direction" yaml:"avg_wind_direction"`
	MeanWindSpeed    float64 `json:"mean_wind_speed" yaml:"mean_wind_speed"`
	StdWindSpeed     float64 `json:"std_wind_speed" yaml:"std_wind_speed"`
	MeanPressure     float64 `json:"mean_pressure" yaml:"mean_pressure"`
	StdPressure      float64 `json:"std_pressure" yaml:"std_pressure"`
	MeanTemperature  float64 `json:"mean_temperature" yaml:"mean_temperature"`
	StdTemperature   float64 `json:"std_temperature" yaml:"std_temperature"`
	MeanDewpoint     float64 `json:"mean_dewpoint" yaml:"mean_dewpoint"`
	StdDewpoint      float64 `json:"std_dewpoint" yaml:"std_dewpoint"`
}

type Aerodrome struct {
	Name            string         `json:"name" yaml:"name"`
	ICAO            string         `json:"icao" yaml:"icao"`
	ComFrequencies  []COMFrequency `json:"com_frequencies" yaml:"com_frequencies"`
	Runways         []Runway       `json:"runways" yaml:"runways"`
	Lat             float64        `json:"lat" yaml:"lat"`
	Long            float64        `json:"long" yaml:"long"`
	StartPoint      string         `json:"start_point" yaml:"start_point"`
	Stands          []string       `json:"stands" yaml:"stands"`
	ReportingPoints []string       `json:"reporting_points" yaml:"reporting_points"`
	METOR           METORData      `json:"metor" yaml:"metor"`
}

// Station returns the preferred station for the given types, in order of
// preference, falling back to the first listed frequency.
func (a Aerodrome) Station(prefs ...FrequencyType) COMFrequency {
	for _, p := range prefs {
		for _, f := range a.ComFrequencies {
			if f.FrequencyType == p {
				return f
			}
		}
	}
	if len(a.ComFrequencies) == 0 {
		return COMFrequency{}
	}
	return a.ComFrequencies[0]
}

// Runway looks up a runway by designator.
func (a Aerodrome) Runway(name string) (Runway, bool) {
	for _, r := range a.Runways {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Runway{}, false
}
