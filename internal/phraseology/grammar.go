package phraseology

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/world"
	"github.com/curbz/rt-trainer/pkg/util"
)

//go:embed grammar.yaml
var defaultGrammarYAML []byte

type FieldSpec struct {
	Name     string `yaml:"name"`
	Expect   string `yaml:"expect"`
	Optional bool   `yaml:"optional"`
}

// StageGrammar is what a transmission must contain at one stage.
type StageGrammar struct {
	KeyName   string      `yaml:"key"`
	Intent    string      `yaml:"intent"`
	Addressed bool        `yaml:"addressed"`
	Phrases   []string    `yaml:"phrases"`
	Fields    []FieldSpec `yaml:"fields"`
	Terminal  bool        `yaml:"terminal"`
	Example   string      `yaml:"example"`

	key     state.Key
	phrases [][]string
}

type Abort struct {
	PhaseName string   `yaml:"phase"`
	Intent    string   `yaml:"intent"`
	Phrases   []string `yaml:"phrases"`

	phase   state.Phase
	phrases [][]string
}

type grammarFile struct {
	Stages []*StageGrammar `yaml:"stages"`
	Aborts []*Abort        `yaml:"aborts"`
}

// Grammar is the validated, immutable stage grammar.
type Grammar struct {
	stages map[state.Key]*StageGrammar
	aborts []*Abort

	// vocabulary holds every word of every key phrase.
	vocabulary map[string]bool
}

var fieldExtractors = map[string]bool{
	"frequency": true, "runway": true, "qnh": true, "holdpoint": true,
	"altitude": true, "position": true, "parking": true,
}

var (
	defaultGrammarOnce sync.Once
	defaultGrammar     *Grammar
	defaultGrammarErr  error
)

// DefaultGrammar returns the embedded grammar, decoded once per process.
func DefaultGrammar() (*Grammar, error) {
	defaultGrammarOnce.Do(func() {
		defaultGrammar, defaultGrammarErr = LoadGrammar(defaultGrammarYAML)
	})
	return defaultGrammar, defaultGrammarErr
}

// LoadGrammar decodes and validates a grammar. Every stage key must be
// covered exactly once.
func LoadGrammar(data []byte) (*Grammar, error) {
	f, err := util.DecodeYAML[grammarFile](data)
	if err != nil {
		return nil, fmt.Errorf("decode grammar: %w", err)
	}

	g := &Grammar{
		stages:     make(map[state.Key]*StageGrammar, len(f.Stages)),
		vocabulary: map[string]bool{},
	}
	for _, sg := range f.Stages {
		k, err := state.ParseKey(sg.KeyName)
		if err != nil {
			return nil, fmt.Errorf("grammar: %w", err)
		}
		if _, dup := g.stages[k]; dup {
			return nil, fmt.Errorf("grammar: duplicate stage %s", k)
		}
		if !sg.Terminal && sg.Intent == "" {
			return nil, fmt.Errorf("grammar: stage %s has no intent", k)
		}
		for _, fs := range sg.Fields {
			if !fieldExtractors[fs.Name] {
				return nil, fmt.Errorf("grammar: stage %s has unknown field %q", k, fs.Name)
			}
			if _, ok := expectations[fs.Expect]; !ok {
				return nil, fmt.Errorf("grammar: stage %s field %s has unknown expectation %q", k, fs.Name, fs.Expect)
			}
		}
		for _, ph := range placeholderRe.FindAllStringSubmatch(sg.Example, -1) {
			if !knownPlaceholder(ph[1]) {
				return nil, fmt.Errorf("grammar: stage %s example has unknown placeholder %s", k, ph[0])
			}
		}
		sg.key = k
		sg.phrases = normalizePhrases(sg.Phrases)
		g.addVocabulary(sg.phrases)
		g.stages[k] = sg
	}
	for _, k := range state.AllKeys() {
		if _, ok := g.stages[k]; !ok {
			return nil, fmt.Errorf("grammar: no entry for stage %s", k)
		}
	}

	for _, a := range f.Aborts {
		p, err := state.ParsePhase(a.PhaseName)
		if err != nil {
			return nil, fmt.Errorf("grammar: abort: %w", err)
		}
		a.phase = p
		a.phrases = normalizePhrases(a.Phrases)
		g.addVocabulary(a.phrases)
		g.aborts = append(g.aborts, a)
	}
	return g, nil
}

func (g *Grammar) addVocabulary(phrases [][]string) {
	for _, p := range phrases {
		for _, w := range p {
			g.vocabulary[w] = true
		}
	}
}

// namesPlace reports whether the words ahead of a callsign can only be a
// place name: no digits, no phraseology, at least one unknown word.
func (g *Grammar) namesPlace(addr []string) bool {
	unknown := false
	for _, w := range addr {
		switch {
		case hasDigit(w), g.vocabulary[w]:
			return false
		case commonWords[w], len(w) == 1:
		default:
			unknown = true
		}
	}
	return unknown
}

func normalizePhrases(ps []string) [][]string {
	out := make([][]string, 0, len(ps))
	for _, p := range ps {
		if w := NormalizeWords(p); len(w) > 0 {
			out = append(out, w)
		}
	}
	return out
}

// Stage returns the grammar entry for a key.
func (g *Grammar) Stage(k state.Key) (*StageGrammar, bool) {
	sg, ok := g.stages[k]
	return sg, ok
}

func (sg *StageGrammar) Key() state.Key {
	return sg.key
}

// Intents lists the intent names of every non-terminal stage in flight order.
func (g *Grammar) Intents() []string {
	var out []string
	for _, k := range state.AllKeys() {
		if sg := g.stages[k]; !sg.Terminal {
			out = append(out, sg.Intent)
		}
	}
	return out
}

var placeholderRe = regexp.MustCompile(`\{([A-Z_]+)\}`)

func knownPlaceholder(name string) bool {
	if name == "STATION" || name == "CALLSIGN" {
		return true
	}
	_, ok := expectations[strings.ToLower(name)]
	return ok
}

// Example renders a correct transmission for stage k, or false when the
// stage takes no call.
func (g *Grammar) Example(k state.Key, st state.State, f world.Facts) (string, bool) {
	sg, ok := g.stages[k]
	if !ok || sg.Example == "" {
		return "", false
	}
	return placeholderRe.ReplaceAllStringFunc(sg.Example, func(ph string) string {
		name := ph[1 : len(ph)-1]
		switch name {
		case "STATION":
			return st.CurrentTarget.Callsign
		case "CALLSIGN":
			return SpokenCallsign(st)
		}
		return expectations[strings.ToLower(name)](st, f)
	}), true
}

// SpokenCallsign is the allocated callsign with its prefix word, if any.
func SpokenCallsign(st state.State) string {
	if w := st.Prefix.Word(); w != "" {
		return w + " " + st.TargetAllocatedCallsign
	}
	return st.TargetAllocatedCallsign
}

// matchPhrase reports the first phrase alternative present in m.
func matchPhrase(m Message, phrases [][]string) ([]string, bool) {
	for _, p := range phrases {
		if m.Contains(p) {
			return p, true
		}
	}
	return nil, false
}

// otherStagePhrase finds a key phrase belonging to a stage other than k.
func (g *Grammar) otherStagePhrase(m Message, k state.Key) (state.Key, bool) {
	for _, other := range state.AllKeys() {
		if other == k {
			continue
		}
		if _, ok := matchPhrase(m, g.stages[other].phrases); ok {
			return other, true
		}
	}
	return state.Key{}, false
}
