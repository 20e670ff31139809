package world

import (
	"math"

	"github.com/curbz/rt-trainer/pkg/rand"
)

// Weather is one sample drawn from an aerodrome's METOR statistics.
type Weather struct {
	WindDirection int `json:"wind_direction"` // degrees magnetic, rounded to 10
	WindSpeed     int `json:"wind_speed"`     // knots
	QNH           int `json:"qnh"`            // hPa
	Temperature   int `json:"temperature"`
	Dewpoint      int `json:"dewpoint"`
}

var fallbackMETOR = METORData{
	AvgWindDirection: 240, MeanWindSpeed: 8, StdWindSpeed: 3,
	MeanPressure: 1013, StdPressure: 8,
	MeanTemperature: 12, StdTemperature: 5,
	MeanDewpoint: 7, StdDewpoint: 4,
}

// SampleWeather draws the weather at aerodrome a for a scenario seed.
func SampleWeather(seed uint32, a Aerodrome) Weather {
	m := a.METOR
	if m.MeanPressure == 0 {
		m = fallbackMETOR
	}
	r := rand.NewStream(uint64(seed), "weather/"+a.ICAO)

	dir := m.AvgWindDirection + 30*r.NormFloat64()
	roundedDir := int(math.Round(dir/10)) * 10
	roundedDir = ((roundedDir % 360) + 360) % 360
	if roundedDir == 0 {
		roundedDir = 360
	}

	speed := int(math.Round(math.Max(0, m.MeanWindSpeed+m.StdWindSpeed*r.NormFloat64())))

	qnh := int(math.Round(m.MeanPressure + m.StdPressure*r.NormFloat64()))
	qnh = min(max(qnh, 950), 1050)

	temp := int(math.Round(m.MeanTemperature + m.StdTemperature*r.NormFloat64()))
	dew := int(math.Round(m.MeanDewpoint + m.StdDewpoint*r.NormFloat64()))
	dew = min(dew, temp)

	return Weather{
		WindDirection: roundedDir,
		WindSpeed:     speed,
		QNH:           qnh,
		Temperature:   temp,
		Dewpoint:      dew,
	}
}
