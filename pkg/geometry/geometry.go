package geometry

import (
	"math"
)

// --- Geometry Helpers ---

const earthRadiusNM = 3440.06

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// DistNM returns the great-circle distance in nautical miles.
func DistNM(lat1, lon1, lat2, lon2 float64) float64 {
	r1, r2 := toRad(lat1), toRad(lat2)

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	// --- handle dateline crossing ---
	for dLon > math.Pi {
		dLon -= 2 * math.Pi
	}
	for dLon < -math.Pi {
		dLon += 2 * math.Pi
	}

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(r1)*math.Cos(r2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusNM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// InitialBearing returns the true course in degrees [0, 360) from point 1 to point 2.
func InitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	r1, r2 := toRad(lat1), toRad(lat2)
	dLon := toRad(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(r2)
	x := math.Cos(r1)*math.Sin(r2) - math.Sin(r1)*math.Cos(r2)*math.Cos(dLon)

	return math.Mod(toDeg(math.Atan2(y, x))+360, 360)
}

// Midpoint returns the great-circle midpoint between two points.
func Midpoint(lat1, lon1, lat2, lon2 float64) (float64, float64) {
	r1, r2 := toRad(lat1), toRad(lat2)
	l1 := toRad(lon1)
	dLon := toRad(lon2 - lon1)

	bx := math.Cos(r2) * math.Cos(dLon)
	by := math.Cos(r2) * math.Sin(dLon)

	lat := math.Atan2(math.Sin(r1)+math.Sin(r2), math.Sqrt((math.Cos(r1)+bx)*(math.Cos(r1)+bx)+by*by))
	lon := l1 + math.Atan2(by, math.Cos(r1)+bx)

	return toDeg(lat), math.Mod(toDeg(lon)+540, 360) - 180
}

// AngleDiff returns the absolute difference between two headings in degrees [0, 180].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
