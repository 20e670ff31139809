package rand

import (
	"hash/fnv"
	"math"

	"github.com/MichaelTJones/pcg"
)

// Rand is a seeded PCG32 source. Every procedurally generated fact in a
// scenario is drawn from one of these so that a seed always replays the
// same world.
type Rand struct {
	r *pcg.PCG32
}

const defaultStream = 0xda3e39cb94b95bdb

// New returns a generator seeded with seed on the default stream.
func New(seed uint64) *Rand {
	return NewStream(seed, "")
}

// NewStream returns a generator whose sequence is selected by name, so that
// independent facts derived from one seed do not share draws.
func NewStream(seed uint64, name string) *Rand {
	seq := uint64(defaultStream)
	if name != "" {
		h := fnv.New64a()
		h.Write([]byte(name))
		seq ^= h.Sum64()
	}
	r := &Rand{r: pcg.NewPCG32()}
	r.r.Seed(seed, seq)
	return r
}

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.r.Bounded(uint32(n)))
}

func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.r.Random()) / (1 << 32)
}

// NormFloat64 returns a standard normally distributed value using the
// Box-Muller transform.
func (r *Rand) NormFloat64() float64 {
	u1 := r.Float64()
	for u1 == 0 {
		u1 = r.Float64()
	}
	u2 := r.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// SampleSlice uniformly samples an element of a non-empty slice.
func SampleSlice[T any](r *Rand, slice []T) T {
	return slice[r.Intn(len(slice))]
}
