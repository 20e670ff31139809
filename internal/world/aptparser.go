package world

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// apt.dat frequency row codes (kHz resolution rows)
var freqTypeMap = map[string]FrequencyType{
	"1051": AirGround, // Unicom / CTAF
	"1052": Ground,    // Delivery
	"1053": Ground,
	"1054": Tower,
	"1055": Approach,
	"1056": Approach, // Departure
	"1050": Information,
}

// ParseApt reads aerodromes from an X-Plane apt.dat style stream. Only land
// airports with at least one frequency and one runway are returned.
func ParseApt(r io.Reader) ([]Aerodrome, error) {
	var (
		out []Aerodrome
		cur *Aerodrome
	)

	flush := func() {
		if cur != nil && len(cur.ComFrequencies) > 0 && len(cur.Runways) > 0 {
			if cur.StartPoint == "" {
				cur.StartPoint = "A1"
			}
			out = append(out, *cur)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		p := strings.Fields(line)
		if len(p) < 2 {
			continue
		}
		code := p[0]

		// 1. Header Record (land airport only; seaplane bases and heliports are skipped)
		if code == "1" || code == "16" || code == "17" {
			flush()
			if code != "1" || len(p) < 5 {
				continue
			}
			cur = &Aerodrome{ICAO: p[4], Name: strings.Join(p[5:], " ")}
			continue
		}
		if cur == nil {
			continue
		}

		switch {
		// 2. Runway Record: both ends, each with its own coordinates
		case code == "100" && len(p) >= 20:
			for _, end := range [][3]string{{p[8], p[9], p[10]}, {p[17], p[18], p[19]}} {
				cur.Runways = append(cur.Runways, Runway{Name: end[0], HoldingPoints: []string{"A1"}})
				la, _ := strconv.ParseFloat(end[1], 64)
				lo, _ := strconv.ParseFloat(end[2], 64)
				// use first valid runway point as airport reference
				if math.Abs(la) > 0.1 && cur.Lat == 0 {
					cur.Lat, cur.Long = la, lo
				}
			}

		// 3. Frequency Records
		case freqTypeMap[code] != "":
			if len(p) < 3 {
				continue
			}
			raw, err := strconv.Atoi(p[1])
			if err != nil {
				return nil, fmt.Errorf("bad frequency %q for %s: %w", p[1], cur.ICAO, err)
			}
			cur.ComFrequencies = append(cur.ComFrequencies, COMFrequency{
				FrequencyType: freqTypeMap[code],
				Frequency:     normalizeFreq(raw),
				Callsign:      strings.Join(p[2:], " "),
			})

		// 4. Startup locations become stands
		case code == "1300" && len(p) >= 7:
			cur.Stands = append(cur.Stands, strings.Join(p[6:], " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read airports data: %w", err)
	}
	flush()

	return out, nil
}

// normalizeFreq converts apt.dat frequencies (12170 for 10 kHz rows, 121705
// for kHz rows) to MHz.
func normalizeFreq(raw int) float64 {
	if raw < 100000 {
		raw *= 10
	}
	return float64(raw) / 1000
}
