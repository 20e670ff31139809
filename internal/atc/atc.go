// Package atc renders the controller side of each exchange.
package atc

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/curbz/rt-trainer/internal/phraseology"
	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/world"
	"github.com/curbz/rt-trainer/pkg/rand"
	"github.com/curbz/rt-trainer/pkg/util"
)

//go:embed phrases.yaml
var defaultPhrasesYAML []byte

// Agent answers pilot transmissions. It is immutable once built and safe for
// concurrent use.
type Agent struct {
	phrases map[string][]Exchange
}

// New builds an agent over a phrase table. Every grammar intent and every
// outcome reply must have at least one variant.
func New(phrases map[string][]Exchange) (*Agent, error) {
	g, err := phraseology.DefaultGrammar()
	if err != nil {
		return nil, err
	}
	required := append(g.Intents(), outcomePhrases...)
	for _, k := range required {
		if len(phrases[k]) == 0 {
			return nil, fmt.Errorf("no ATC phrases for %s", k)
		}
	}
	return &Agent{phrases: phrases}, nil
}

// NewDefault builds an agent over the embedded phrase table.
func NewDefault() (*Agent, error) {
	phrases, err := util.DecodeYAML[map[string][]Exchange](defaultPhrasesYAML)
	if err != nil {
		return nil, fmt.Errorf("decode embedded phrases: %w", err)
	}
	return New(*phrases)
}

// LoadPhrases reads a phrase table override from a YAML file.
func LoadPhrases(path string) (map[string][]Exchange, error) {
	phrases, err := util.LoadConfig[map[string][]Exchange](path)
	if err != nil {
		return nil, err
	}
	return *phrases, nil
}

// Reply renders the controller's answer to one turn. before and after are
// the states either side of the turn. It returns nil when the controller
// stays silent, which is the case for calls made to another station.
func (a *Agent) Reply(before, after state.State, intent phraseology.Intent, err error, facts world.Facts) *Transmission {
	key := ""
	if err != nil {
		switch phraseology.KindOf(err) {
		case 0, phraseology.WrongStation:
			return nil
		case phraseology.WrongCallsign:
			key = phraseSayAgainCallsign
		default:
			key = phraseSayAgain
		}
	} else {
		key = phraseKey(intent)
	}

	exchanges := a.phrases[key]
	if len(exchanges) == 0 {
		util.LogWithLabel(before.TargetAllocatedCallsign, "error: no ATC phrases found for %s", key)
		return nil
	}
	exchange := rand.SampleSlice(rand.NewStream(uint64(facts.Seed), "atc/"+key), exchanges)

	c := &phraseContext{before: before, after: after, intent: intent, facts: facts}
	t := &Transmission{
		Station: before.CurrentTarget.Callsign,
		Written: cleanup(c.fill(exchange.ATC, false)),
		Spoken:  cleanup(c.fill(exchange.ATC, true)),
	}
	if exchange.Readback {
		t.Readback = cleanup(c.fill(autoReadback(exchange.ATC), false))
	}
	return t
}

func phraseKey(in phraseology.Intent) string {
	switch in.Kind {
	case phraseology.DeclareEmergency:
		if in.Emergency == state.EmergencyMayday {
			return phraseMayday
		}
		return phrasePanPan
	case phraseology.CancelEmergency:
		return phraseCancelEmergency
	case phraseology.Squawk:
		return phraseSquawk
	case phraseology.Ident:
		return phraseIdent
	case phraseology.GoAround:
		return phraseGoAround
	}
	return in.Name
}

type phraseContext struct {
	before, after state.State
	intent        phraseology.Intent
	facts         world.Facts
}

type placeholder struct {
	name    string
	written func(c *phraseContext) string
	spoken  func(c *phraseContext) string
}

// placeholders are replaced in order. A nil spoken form reuses the written
// one, whose digits are then spoken one by one.
var placeholders = []placeholder{
	{"{CALLSIGN}",
		func(c *phraseContext) string { return phraseology.SpokenCallsign(c.after) },
		func(c *phraseContext) string {
			return spokenCallsign(c.after.Prefix.Word(), c.after.TargetAllocatedCallsign)
		}},
	{"{STATION}",
		func(c *phraseContext) string { return c.before.CurrentTarget.Callsign }, nil},
	{"{NEXT_STATION}",
		func(c *phraseContext) string { return c.after.CurrentTarget.Callsign }, nil},
	{"{NEXT_FREQUENCY}",
		func(c *phraseContext) string { return phraseology.FormatFrequency(c.after.CurrentTarget.Frequency) },
		func(c *phraseContext) string { return formatFrequency(c.after.CurrentTarget.Frequency) }},
	{"{DEPARTURE_RUNWAY}",
		func(c *phraseContext) string { return c.facts.DepartureRunway },
		func(c *phraseContext) string { return translateRunway(c.facts.DepartureRunway) }},
	{"{ARRIVAL_RUNWAY}",
		func(c *phraseContext) string { return c.facts.ArrivalRunway },
		func(c *phraseContext) string { return translateRunway(c.facts.ArrivalRunway) }},
	{"{DEPARTURE_QNH}",
		func(c *phraseContext) string { return formatBaro(c.facts.Start.ICAO, c.facts.StartWeather.QNH) }, nil},
	{"{ARRIVAL_QNH}",
		func(c *phraseContext) string {
			return formatBaro(c.facts.Destination.ICAO, c.facts.DestinationWeather.QNH)
		}, nil},
	{"{HOLDPOINT}",
		func(c *phraseContext) string { return c.facts.HoldingPoint },
		func(c *phraseContext) string { return spellOut(c.facts.HoldingPoint) }},
	{"{WIND}",
		func(c *phraseContext) string { return formatWind(c.facts.StartWeather) }, nil},
	{"{ARRIVAL_WIND}",
		func(c *phraseContext) string { return formatWind(c.facts.DestinationWeather) }, nil},
	{"{TEMPERATURE}",
		func(c *phraseContext) string { return formatTemperature(c.facts.StartWeather.Temperature) }, nil},
	{"{DEWPOINT}",
		func(c *phraseContext) string { return formatTemperature(c.facts.StartWeather.Dewpoint) }, nil},
	{"{ALTITUDE}",
		func(c *phraseContext) string { return strconv.Itoa(c.facts.CruiseAltitude) + " feet" },
		func(c *phraseContext) string { return formatAltitude(c.facts.CruiseAltitude) }},
	{"{JOIN}",
		func(c *phraseContext) string { return c.facts.JoinInstruction }, nil},
	{"{PARKING}",
		func(c *phraseContext) string { return c.facts.Parking },
		func(c *phraseContext) string { return formatParking(c.facts.Parking) }},
	{"{SQUAWK}",
		func(c *phraseContext) string { return formatSquawk(c.after.CurrentTransponderFrequency) }, nil},
}

// fill replaces every placeholder in phrase. The spoken form also turns
// digits into words.
func (c *phraseContext) fill(phrase string, spoken bool) string {
	for _, p := range placeholders {
		if !strings.Contains(phrase, p.name) {
			continue
		}
		v := p.written(c)
		if spoken && p.spoken != nil {
			v = p.spoken(c)
		}
		phrase = strings.ReplaceAll(phrase, p.name, v)
	}
	if spoken {
		phrase = translateNumerics(phrase)
	}
	return phrase
}
