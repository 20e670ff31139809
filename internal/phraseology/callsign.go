package phraseology

import (
	"strings"
	"unicode"
)

// Compact is the lowercase alphanumeric form of a callsign: "G-ABCD" -> "gabcd".
func Compact(callsign string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(callsign) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Abbreviate returns the abbreviated form ATC may use after first contact:
// the first letter and the last two of a purely alphabetic callsign of five
// or more letters, so "G-ABCD" becomes "G-CD". Other callsigns are returned
// unchanged.
func Abbreviate(callsign string) string {
	var letters []rune
	for _, r := range strings.ToUpper(callsign) {
		switch {
		case unicode.IsLetter(r):
			letters = append(letters, r)
		case r == '-' || r == ' ':
		default:
			return callsign
		}
	}
	if len(letters) < 5 {
		return callsign
	}
	return string(letters[0]) + "-" + string(letters[len(letters)-2:])
}
