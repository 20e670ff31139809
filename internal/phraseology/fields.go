package phraseology

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/world"
)

const (
	MinFrequency = 118.000
	MaxFrequency = 136.990
	MinQNH       = 900
	MaxQNH       = 1100
)

type expectFunc func(st state.State, f world.Facts) string

var expectations = map[string]expectFunc{
	"target_frequency":  func(st state.State, _ world.Facts) string { return FormatFrequency(st.CurrentTarget.Frequency) },
	"arrival_frequency": func(_ state.State, f world.Facts) string { return FormatFrequency(f.Arrival.Frequency) },
	"departure_runway":  func(_ state.State, f world.Facts) string { return f.DepartureRunway },
	"departure_qnh":     func(_ state.State, f world.Facts) string { return strconv.Itoa(f.StartWeather.QNH) },
	"holding_point":     func(_ state.State, f world.Facts) string { return f.HoldingPoint },
	"cruise_altitude":   func(_ state.State, f world.Facts) string { return strconv.Itoa(f.CruiseAltitude) },
	"next_point":        func(_ state.State, f world.Facts) string { return f.NextPoint },
	"arrival_runway":    func(_ state.State, f world.Facts) string { return f.ArrivalRunway },
	"arrival_qnh":       func(_ state.State, f world.Facts) string { return strconv.Itoa(f.DestinationWeather.QNH) },
	"parking":           func(_ state.State, f world.Facts) string { return f.Parking },
	"join_instruction":  func(_ state.State, f world.Facts) string { return f.JoinInstruction },
}

// FormatFrequency renders MHz with three decimals, e.g. 120.655.
func FormatFrequency(mhz float64) string {
	return strconv.FormatFloat(mhz, 'f', 3, 64)
}

// checkField extracts one field from m and compares it with want. It returns
// the value as heard, whether it was present, and a classified error.
func checkField(m Message, fs FieldSpec, want string) (string, bool, *ParseError) {
	switch fs.Name {
	case "frequency":
		got, found, err := extractFrequency(m)
		if err != nil || !found {
			return "", found, err
		}
		w, _ := strconv.ParseFloat(want, 64)
		if khz(got) != khz(w) {
			return "", true, newError(MalformedFrequency, "expected frequency %s, heard %s", want, FormatFrequency(got))
		}
		return FormatFrequency(got), true, nil

	case "runway":
		wantRwy, ok := parseRunway(want)
		if !ok {
			return "", false, newError(MissingPhrase, "no runway %q in use", want)
		}
		heard := extractRunways(m)
		if len(heard) == 0 {
			return "", false, nil
		}
		for _, h := range heard {
			if h.matches(wantRwy) {
				return h.String(), true, nil
			}
		}
		return "", true, newError(MissingPhrase, "expected runway %s, heard %s", wantRwy, heard[0])

	case "qnh":
		heard := extractAfter(m, [][]string{{"qnh"}, {"altimeter"}}, parseQNH)
		return compareHeard(heard, want, "qnh")

	case "holdpoint":
		heard := extractHoldingPoints(m)
		return compareHeard(heard, strings.ToUpper(want), "holding point")

	case "altitude":
		return compareHeard(extractAltitudes(m), want, "altitude")

	case "position", "parking":
		if m.ContainsWords(NormalizeWords(want)) {
			return want, true, nil
		}
		return "", false, nil
	}
	return "", false, newError(MissingPhrase, "unknown field %s", fs.Name)
}

func compareHeard(heard []string, want, label string) (string, bool, *ParseError) {
	if len(heard) == 0 {
		return "", false, nil
	}
	for _, h := range heard {
		if h == want {
			return h, true, nil
		}
	}
	return "", true, newError(MissingPhrase, "expected %s %s, heard %s", label, want, heard[0])
}

func khz(mhz float64) int {
	return int(math.Round(mhz * 1000))
}

// extractFrequency returns the first decimal number in the message. A
// decimal outside the COM band or with more than three fractional digits is
// MalformedFrequency.
func extractFrequency(m Message) (float64, bool, *ParseError) {
	for _, t := range m.Tokens {
		whole, frac, found := strings.Cut(t, ".")
		if !found || !isDigits(whole) || !isDigits(frac) {
			continue
		}
		v, err := strconv.ParseFloat(t, 64)
		if err != nil || len(frac) > 3 || v < MinFrequency || v > MaxFrequency {
			return 0, true, newError(MalformedFrequency, "%s is not a COM frequency (%.3f to %.3f)", t, MinFrequency, MaxFrequency)
		}
		return v, true, nil
	}
	return 0, false, nil
}

// ValidFrequency reports whether mhz is in the COM band.
func ValidFrequency(mhz float64) bool {
	k := khz(mhz)
	return k >= khz(MinFrequency) && k <= khz(MaxFrequency)
}

type runway struct {
	number int
	suffix string
}

func (r runway) String() string {
	return fmt.Sprintf("%02d%s", r.number, r.suffix)
}

func (r runway) matches(want runway) bool {
	if r.number != want.number {
		return false
	}
	return want.suffix == "" || r.suffix == want.suffix
}

func parseRunway(s string) (runway, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	digits := strings.TrimRight(s, "LRC")
	n, err := strconv.Atoi(digits)
	if err != nil || len(digits) > 2 || n < 1 || n > 36 {
		return runway{}, false
	}
	return runway{number: n, suffix: s[len(digits):]}, true
}

// extractRunways returns every designator spoken after "runway".
func extractRunways(m Message) []runway {
	var out []runway
	for i, t := range m.Tokens {
		if t != "runway" || i+1 >= len(m.Tokens) {
			continue
		}
		num := m.Tokens[i+1]
		if !isDigits(num) || len(num) > 2 {
			continue
		}
		n, _ := strconv.Atoi(num)
		if n < 1 || n > 36 {
			continue
		}
		r := runway{number: n}
		if i+2 < len(m.Tokens) {
			r.suffix = runwaySuffixes[m.Tokens[i+2]]
		}
		out = append(out, r)
	}
	return out
}

func parseQNH(t string) (string, bool) {
	if !isDigits(t) || len(t) < 3 || len(t) > 4 {
		return "", false
	}
	v, _ := strconv.Atoi(t)
	if v < MinQNH || v > MaxQNH {
		return "", false
	}
	return strconv.Itoa(v), true
}

// extractAfter applies parse to the token following any of the marker phrases.
func extractAfter(m Message, markers [][]string, parse func(string) (string, bool)) []string {
	var out []string
	for _, mk := range markers {
		for i := m.Index(mk, 0); i >= 0; i = m.Index(mk, i+1) {
			j := i + len(mk)
			if j >= len(m.Tokens) {
				break
			}
			if v, ok := parse(m.Tokens[j]); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

// extractHoldingPoints reads "<letter><number>" after "holding point", "holding" or "hold".
func extractHoldingPoints(m Message) []string {
	var out []string
	for i, t := range m.Tokens {
		if t != "hold" && t != "holding" {
			continue
		}
		j := i + 1
		if j < len(m.Tokens) && m.Tokens[j] == "point" {
			j++
		}
		if j+1 < len(m.Tokens) && isLetter(m.Tokens[j]) && isDigits(m.Tokens[j+1]) {
			out = append(out, strings.ToUpper(m.Tokens[j])+m.Tokens[j+1])
		}
	}
	return out
}

// extractAltitudes reads numbers followed by "feet" or preceded by "altitude".
func extractAltitudes(m Message) []string {
	var out []string
	for i, t := range m.Tokens {
		if !isDigits(t) {
			continue
		}
		if (i+1 < len(m.Tokens) && m.Tokens[i+1] == "feet") || (i > 0 && m.Tokens[i-1] == "altitude") {
			v, _ := strconv.Atoi(t)
			out = append(out, strconv.Itoa(v))
		}
	}
	return out
}

func isLetter(s string) bool {
	r := []rune(s)
	return len(r) == 1 && r[0] >= 'a' && r[0] <= 'z'
}
