package atc

import (
	"fmt"
	"strings"

	"github.com/curbz/rt-trainer/internal/world"
)

// formatBaro renders the pressure setting the way the region says it: QNH
// in hPa, or altimeter in inches for North American aerodromes.
func formatBaro(icao string, hpa int) string {
	if strings.HasPrefix(icao, "K") || strings.HasPrefix(icao, "C") {
		inHg := float64(hpa) * 0.02953
		return "altimeter " + strings.ReplaceAll(fmt.Sprintf("%.2f", inHg), ".", "")
	}
	return fmt.Sprintf("QNH %d", hpa)
}

// formatWind gives "240 degrees 8 knots", or "calm" below 4 knots.
func formatWind(w world.Weather) string {
	if w.WindSpeed < 4 {
		return "calm"
	}
	dir := w.WindDirection
	if dir == 0 {
		dir = 360
	}
	return fmt.Sprintf("%03d degrees %d knots", dir, w.WindSpeed)
}

// formatTemperature speaks negative values as "minus".
func formatTemperature(c int) string {
	if c < 0 {
		return fmt.Sprintf("minus %d", -c)
	}
	return fmt.Sprintf("%d", c)
}
