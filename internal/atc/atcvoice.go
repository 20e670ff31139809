package atc

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/curbz/rt-trainer/internal/phraseology"
)

var (
	bracketedRe = regexp.MustCompile(`\[[^\]]*\]`)
	trailingRe  = regexp.MustCompile(`[\s,\.]+$`)
	spaceRe     = regexp.MustCompile(`\s+`)
	commaRe     = regexp.MustCompile(`\s+,`)
)

// autoReadback derives the pilot readback from a controller phrase: the
// leading {CALLSIGN} moves to the end and bracketed text is dropped.
func autoReadback(phrase string) string {
	phrase = strings.TrimPrefix(phrase, "{CALLSIGN}")
	phrase = strings.TrimPrefix(phrase, ",")
	phrase = removeBracketedPhrases(phrase)
	phrase = trailingRe.ReplaceAllString(phrase, "")
	return strings.TrimSpace(phrase) + ", {CALLSIGN}"
}

func removeBracketedPhrases(input string) string {
	return bracketedRe.ReplaceAllString(input, "")
}

// cleanup strips bracket markers and tidies whitespace and punctuation.
func cleanup(phrase string) string {
	phrase = strings.ReplaceAll(phrase, "[", "")
	phrase = strings.ReplaceAll(phrase, "]", "")
	phrase = spaceRe.ReplaceAllString(phrase, " ")
	phrase = commaRe.ReplaceAllString(phrase, ",")
	phrase = trailingRe.ReplaceAllString(phrase, "")
	phrase = strings.TrimPrefix(strings.TrimSpace(phrase), ", ")
	if phrase == "" {
		return phrase
	}
	r := []rune(phrase)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// translateNumerics converts numeric digits in a string to their word equivalents
func translateNumerics(msg string) string {
	var result strings.Builder
	for _, ch := range msg {
		if word, exists := numericMap[ch]; exists {
			result.WriteString(" ")
			result.WriteString(word)
			result.WriteString(" ")
		} else {
			result.WriteRune(ch)
		}
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(result.String(), " "))
}

// translateRunway spells a designator suffix: "24L" -> "24 left".
func translateRunway(runway string) string {
	runway = strings.ToUpper(strings.TrimSpace(runway))
	switch {
	case strings.HasSuffix(runway, "L"):
		return strings.TrimSuffix(runway, "L") + " left"
	case strings.HasSuffix(runway, "R"):
		return strings.TrimSuffix(runway, "R") + " right"
	case strings.HasSuffix(runway, "C"):
		return strings.TrimSuffix(runway, "C") + " centre"
	}
	return runway
}

// formatFrequency gives the spoken form of a frequency: "122 decimal 455".
func formatFrequency(mhz float64) string {
	return strings.ReplaceAll(phraseology.FormatFrequency(mhz), ".", " decimal ")
}

// formatAltitude gives "2 thousand 5 hundred" style altitudes in feet.
func formatAltitude(feet int) string {
	if feet%1000 == 0 {
		return fmt.Sprintf("%d thousand feet", feet/1000)
	}
	thousands := feet / 1000
	hundreds := (feet % 1000) / 100
	if thousands == 0 {
		return fmt.Sprintf("%d hundred feet", hundreds)
	}
	return fmt.Sprintf("%d thousand %d hundred feet", thousands, hundreds)
}

// formatParking applies logic to convert parking designations into more natural speech phrases
func formatParking(parking string) string {
	parking = strings.ToUpper(strings.TrimSpace(parking))
	if parking == "" {
		return "parking"
	}

	// area-based parking keeps its words
	if strings.Contains(parking, "RAMP") || strings.Contains(parking, "APRON") {
		return phoneticiseSingleAlphas(parking)
	}

	parking = strings.TrimSpace(strings.TrimPrefix(parking, "STAND"))
	if parking == "" {
		return "stand"
	}

	// starts with a number, e.g. "12A"
	if unicode.IsDigit(rune(parking[0])) {
		digits := ""
		suffix := ""
		for i, char := range parking {
			if unicode.IsDigit(char) {
				digits += string(char)
			} else {
				suffix = strings.TrimSpace(parking[i:])
				break
			}
		}
		if len(suffix) == 1 {
			return fmt.Sprintf("stand %s %s", digits, phoneticMap[suffix])
		}
		return fmt.Sprintf("stand %s", digits)
	}

	// one letter then digits, e.g. "B12"; anything else is a name
	if len(parking) > 1 && strings.Trim(parking[1:], "0123456789") == "" {
		if phonetic, exists := phoneticMap[parking[:1]]; exists {
			return fmt.Sprintf("stand %s %s", phonetic, parking[1:])
		}
	}
	return strings.ToLower(parking)
}

// phoneticiseSingleAlphas will replace single alphas in a phrase to their phonetic equivalents
func phoneticiseSingleAlphas(input string) string {
	words := strings.Fields(input)
	for i, word := range words {
		if len(word) == 1 && unicode.IsLetter(rune(word[0])) {
			words[i] = phoneticMap[strings.ToUpper(word)]
		}
	}
	return strings.ToLower(strings.Join(words, " "))
}

// spellOut speaks every letter phonetically and every digit as a word:
// "G-CD" -> "golf charlie delta", "A1" -> "alpha one".
func spellOut(s string) string {
	var parts []string
	for _, ch := range strings.ToUpper(s) {
		switch {
		case unicode.IsLetter(ch):
			parts = append(parts, phoneticMap[string(ch)])
		case unicode.IsDigit(ch):
			parts = append(parts, numericMap[ch])
		}
	}
	return strings.Join(parts, " ")
}

// spokenCallsign keeps any prefix word and spells the registration.
func spokenCallsign(prefix, callsign string) string {
	if prefix == "" {
		return spellOut(callsign)
	}
	return prefix + " " + spellOut(callsign)
}

func formatSquawk(code uint16) string {
	return fmt.Sprintf("%04d", code)
}
