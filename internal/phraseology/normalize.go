package phraseology

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Message is a normalised transmission: lowercase word, letter and number
// tokens with Break between clauses.
type Message struct {
	Tokens []string
}

// Normalize prepares a raw transmission for matching. It never fails; input
// that cannot be decoded is matched as far as it survives.
func Normalize(raw string) Message {
	return Message{Tokens: joinNumbers(mapWords(splitMixed(tokenize(fold(raw)))))}
}

// NormalizeWords is Normalize without clause breaks, used for phrases and names.
func NormalizeWords(s string) []string {
	return Normalize(s).Words()
}

func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

func tokenize(s string) []string {
	var (
		toks []string
		cur  strings.Builder
	)
	rs := []rune(s)

	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	clause := func() {
		flush()
		if len(toks) > 0 && toks[len(toks)-1] != Break {
			toks = append(toks, Break)
		}
	}

	for i, r := range rs {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur.WriteRune(r)
		case r == '.' && i > 0 && i+1 < len(rs) && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]):
			cur.WriteRune(r)
		case r == ',' || r == ';' || r == '!' || r == '?' || r == '.' || r == ':':
			clause()
		case unicode.IsSpace(r):
			flush()
		}
	}
	flush()
	if n := len(toks); n > 0 && toks[n-1] == Break {
		toks = toks[:n-1]
	}
	return toks
}

// splitMixed separates letter runs from digit runs: "a1" -> "a", "1".
func splitMixed(toks []string) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if isNumber(t) || !hasLetter(t) || !hasDigit(t) {
			out = append(out, t)
			continue
		}
		start := 0
		rs := []rune(t)
		for i := 1; i <= len(rs); i++ {
			if i == len(rs) || unicode.IsDigit(rs[i]) != unicode.IsDigit(rs[i-1]) {
				out = append(out, string(rs[start:i]))
				start = i
			}
		}
	}
	return out
}

func mapWords(toks []string) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if exp, ok := compoundWords[t]; ok {
			out = append(out, exp...)
			continue
		}
		if l, ok := phoneticMap[t]; ok {
			out = append(out, l)
			continue
		}
		if d, ok := numericMap[t]; ok {
			out = append(out, d)
			continue
		}
		out = append(out, t)
	}
	return out
}

// joinNumbers merges digit runs into numbers, applying "thousand"/"hundred"
// and "decimal"/"point".
func joinNumbers(toks []string) []string {
	out := make([]string, 0, len(toks))
	for i := 0; i < len(toks); {
		if !isDigits(toks[i]) {
			out = append(out, toks[i])
			i++
			continue
		}
		num, j := digitRun(toks, i)

		switch {
		case j+1 < len(toks) && (toks[j] == "decimal" || toks[j] == "point") && isDigits(toks[j+1]):
			frac, k := digitRun(toks, j+1)
			num, j = num+"."+frac, k
		case j < len(toks) && multipliers[toks[j]] > 0:
			v, _ := strconv.Atoi(num)
			total := 0
			for j < len(toks) && multipliers[toks[j]] > 0 {
				total += v * multipliers[toks[j]]
				v = 0
				j++
				if j < len(toks) && isDigits(toks[j]) {
					var run string
					run, j = digitRun(toks, j)
					v, _ = strconv.Atoi(run)
				}
			}
			num = strconv.Itoa(total + v)
		}

		out = append(out, num)
		i = j
	}
	return out
}

func digitRun(toks []string, i int) (string, int) {
	var sb strings.Builder
	for i < len(toks) && isDigits(toks[i]) {
		sb.WriteString(toks[i])
		i++
	}
	return sb.String(), i
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isNumber accepts digits with at most one interior decimal point.
func isNumber(s string) bool {
	whole, frac, found := strings.Cut(s, ".")
	if !found {
		return isDigits(s)
	}
	return isDigits(whole) && isDigits(frac)
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// Words returns the tokens without clause breaks.
func (m Message) Words() []string {
	out := make([]string, 0, len(m.Tokens))
	for _, t := range m.Tokens {
		if t != Break {
			out = append(out, t)
		}
	}
	return out
}

func (m Message) String() string {
	return strings.Join(m.Tokens, " ")
}

// Index returns the position of the first contiguous occurrence of phrase at
// or after from, or -1. Occurrences never span a clause break.
func (m Message) Index(phrase []string, from int) int {
	if len(phrase) == 0 {
		return -1
	}
	for i := max(from, 0); i+len(phrase) <= len(m.Tokens); i++ {
		match := true
		for j, p := range phrase {
			if m.Tokens[i+j] != p {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func (m Message) Contains(phrase []string) bool {
	return m.Index(phrase, 0) >= 0
}

// ContainsWords matches phrase against the words with clause breaks removed.
func (m Message) ContainsWords(phrase []string) bool {
	return Message{Tokens: m.Words()}.Contains(phrase)
}
