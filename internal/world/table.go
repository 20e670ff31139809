package world

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/curbz/rt-trainer/pkg/util"
)

//go:embed aerodromes.yaml
var defaultAerodromes []byte

// Table is the immutable aerodrome reference table.
type Table struct {
	aerodromes []Aerodrome
}

type tableFile struct {
	Aerodromes []Aerodrome `yaml:"aerodromes"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// DefaultTable returns the embedded table. It is decoded once per process.
func DefaultTable() (*Table, error) {
	defaultOnce.Do(func() {
		f, err := util.DecodeYAML[tableFile](defaultAerodromes)
		if err != nil {
			defaultErr = &ConfigError{Reason: fmt.Sprintf("embedded aerodromes: %v", err)}
			return
		}
		defaultTable, defaultErr = NewTable(f.Aerodromes)
	})
	return defaultTable, defaultErr
}

// LoadTable reads an aerodrome table from a YAML file, or from an X-Plane
// apt.dat style file when the extension is .dat.
func LoadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open airports data file: %w", err)
		}
		defer f.Close()
		aerodromes, err := ParseApt(f)
		if err != nil {
			return nil, err
		}
		return NewTable(aerodromes)
	default:
		f, err := util.LoadConfig[tableFile](path)
		if err != nil {
			return nil, &ConfigError{Reason: err.Error()}
		}
		return NewTable(f.Aerodromes)
	}
}

// NewTable validates the entries and takes a private copy of them.
func NewTable(aerodromes []Aerodrome) (*Table, error) {
	if len(aerodromes) == 0 {
		return nil, &ConfigError{Reason: "aerodrome table is empty"}
	}
	for _, a := range aerodromes {
		if len(a.ComFrequencies) == 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("aerodrome %s has no COM frequencies", a.ICAO)}
		}
		if len(a.Runways) == 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("aerodrome %s has no runways", a.ICAO)}
		}
		if a.Station(Tower, Information, AirGround, Approach).FrequencyType == Ground {
			return nil, &ConfigError{Reason: fmt.Sprintf("aerodrome %s has no airborne station", a.ICAO)}
		}
	}
	return &Table{aerodromes: append([]Aerodrome(nil), aerodromes...)}, nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.aerodromes)
}

// At returns the aerodrome at index i.
func (t *Table) At(i int) (Aerodrome, error) {
	if i < 0 || i >= t.Len() {
		return Aerodrome{}, &ConfigError{Reason: fmt.Sprintf("index %d outside aerodrome table of %d", i, t.Len())}
	}
	return t.aerodromes[i], nil
}

// Lookup finds an aerodrome by ICAO code.
func (t *Table) Lookup(icao string) (Aerodrome, bool) {
	for _, a := range t.aerodromes {
		if strings.EqualFold(a.ICAO, icao) {
			return a, true
		}
	}
	return Aerodrome{}, false
}
