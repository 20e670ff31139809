package phraseology

import (
	"strconv"
	"strings"

	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/world"
)

// Parser validates transmissions against a Grammar. It holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	grammar *Grammar
}

func NewParser(g *Grammar) *Parser {
	return &Parser{grammar: g}
}

// Parse checks raw against the default grammar. See Parser.Parse.
func Parse(key state.Key, expectedStation world.COMFrequency, raw string, st state.State, facts world.Facts) (Intent, error) {
	g, err := DefaultGrammar()
	if err != nil {
		return Intent{}, err
	}
	return NewParser(g).Parse(key, expectedStation, raw, st, facts)
}

// Parse checks a transmission made at stage key, addressed to
// expectedStation, and returns the recognised intent or a *ParseError.
func (p *Parser) Parse(key state.Key, expectedStation world.COMFrequency, raw string, st state.State, facts world.Facts) (Intent, error) {
	sg, ok := p.grammar.Stage(key)
	if !ok {
		return Intent{}, newError(UnexpectedStage, "no grammar for stage %s", key)
	}
	if sg.Terminal {
		return Intent{}, newError(UnexpectedStage, "scenario is complete")
	}

	m := Normalize(raw)
	if len(m.Tokens) == 0 {
		return Intent{}, newError(MissingPhrase, "empty transmission")
	}
	words := m.Words()

	addr, found := locateCallsign(words, st)
	if err := p.checkAddressee(addr, expectedStation.Callsign); err != nil {
		return Intent{}, err
	}
	if !found {
		return Intent{}, newError(WrongCallsign, "callsign %s not heard", st.TargetAllocatedCallsign)
	}

	if in, ok, err := p.orthogonal(m, key); ok {
		return in, err
	}
	if in, ok := p.abort(m, key); ok {
		return in, nil
	}

	if sg.Addressed && !addressed(addr) {
		return Intent{}, newError(WrongStation, "call must be addressed to %s", expectedStation.Callsign)
	}

	// Stages without key phrases still reject the key phrase of another stage.
	if _, ok := matchPhrase(m, sg.phrases); !ok {
		if other, ok := p.grammar.otherStagePhrase(m, key); ok {
			return Intent{}, newError(UnexpectedStage, "%s is not expected now, expected %s", other, sg.Intent)
		}
		if len(sg.phrases) > 0 {
			return Intent{}, newError(MissingPhrase, "expected %q", sg.Phrases[0])
		}
	}

	fields := make(map[string]string, len(sg.Fields))
	for _, fs := range sg.Fields {
		want := expectations[fs.Expect](st, facts)
		got, present, perr := checkField(m, fs, want)
		if perr != nil {
			return Intent{}, perr
		}
		if !present {
			if fs.Optional {
				continue
			}
			return Intent{}, newError(MissingPhrase, "expected %s %s", fs.Name, want)
		}
		fields[fs.Name] = got
	}

	return Intent{Kind: Advance, Key: key, Name: sg.Intent, Fields: fields}, nil
}

// orthogonal recognises emergency and transponder intents, which are valid
// at every non-terminal stage.
func (p *Parser) orthogonal(m Message, key state.Key) (Intent, bool, error) {
	switch {
	case m.ContainsWords([]string{"cancel", "mayday"}),
		m.ContainsWords([]string{"cancel", "pan", "pan"}):
		return Intent{Kind: CancelEmergency, Key: key}, true, nil
	case m.ContainsWords([]string{"mayday", "mayday", "mayday"}):
		return Intent{Kind: DeclareEmergency, Key: key, Emergency: state.EmergencyMayday}, true, nil
	case m.ContainsWords([]string{"pan", "pan", "pan", "pan", "pan", "pan"}):
		return Intent{Kind: DeclareEmergency, Key: key, Emergency: state.EmergencyPanPan}, true, nil
	}

	words := m.Words()
	for i, w := range words {
		if w != "squawk" && w != "squawking" {
			continue
		}
		if i+1 >= len(words) {
			return Intent{}, true, newError(MalformedSquawk, "no squawk code")
		}
		next := words[i+1]
		if next == "ident" {
			return Intent{Kind: Ident, Key: key}, true, nil
		}
		code, ok := parseSquawk(next)
		if !ok {
			return Intent{}, true, newError(MalformedSquawk, "%s is not a four digit octal code", next)
		}
		return Intent{Kind: Squawk, Key: key, Code: code}, true, nil
	}
	return Intent{}, false, nil
}

func parseSquawk(t string) (uint16, bool) {
	if len(t) != 4 || !isDigits(t) {
		return 0, false
	}
	v, _ := strconv.Atoi(t)
	code := uint16(v)
	return code, state.ValidSquawk(code)
}

func (p *Parser) abort(m Message, key state.Key) (Intent, bool) {
	for _, a := range p.grammar.aborts {
		if a.phase != key.Phase {
			continue
		}
		if _, ok := matchPhrase(m, a.phrases); ok {
			return Intent{Kind: GoAround, Key: key, Name: a.Intent}, true
		}
	}
	return Intent{}, false
}

// locateCallsign finds the first window of words that spells the full or
// allocated callsign. It returns the addressee words before it, or the
// leading words up to the first station word when no callsign is found.
func locateCallsign(words []string, st state.State) ([]string, bool) {
	targets := map[string]bool{}
	longest := 0
	for _, c := range []string{st.Callsign, st.TargetAllocatedCallsign} {
		if cc := Compact(c); cc != "" {
			targets[cc] = true
			longest = max(longest, len(cc))
		}
	}

	for i := range words {
		var sb strings.Builder
		for j := i; j < len(words) && sb.Len() < longest; j++ {
			sb.WriteString(words[j])
			if targets[sb.String()] {
				start := i
				if start > 0 && prefixWords[words[start-1]] {
					start--
				}
				return words[:start], true
			}
		}
	}

	for i := range words {
		if isStationWord(words, i) {
			return words[:i+1], false
		}
	}
	return nil, false
}

func isStationWord(words []string, i int) bool {
	if !stationWords[words[i]] {
		return false
	}
	switch words[i] {
	case "radio":
		return i+1 >= len(words) || words[i+1] != "check"
	case "information":
		return i == 0 || words[i-1] != "departure"
	}
	return true
}

// checkAddressee rejects a call whose addressee names a station, or just a
// place, other than the expected one.
func (p *Parser) checkAddressee(addr []string, callsign string) error {
	station := NormalizeWords(callsign)
	switch {
	case addressed(addr):
		if hasSuffix(addr, station) {
			return nil
		}
	case p.grammar.namesPlace(addr):
		if place := placeName(station); len(place) > 0 && hasSuffix(addr, place) {
			return nil
		}
	default:
		return nil
	}
	return newError(WrongStation, "called %q, expected %q", strings.Join(addr, " "), callsign)
}

// placeName drops the station type words: "goodwood ground" -> "goodwood".
func placeName(station []string) []string {
	out := make([]string, 0, len(station))
	for _, w := range station {
		if !stationWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// addressed reports whether the words name a station.
func addressed(addr []string) bool {
	for i := range addr {
		if isStationWord(addr, i) {
			return true
		}
	}
	return false
}

func hasSuffix(words, suffix []string) bool {
	if len(suffix) == 0 || len(suffix) > len(words) {
		return false
	}
	off := len(words) - len(suffix)
	for i, s := range suffix {
		if words[off+i] != s {
			return false
		}
	}
	return true
}
