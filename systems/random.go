package systems

import (
	"math/rand"
)

// DrawPoint names a place in the tick where the shared stream is consumed.
// Seeded runs are reproducible only if every implementation draws at the same
// points in the same order:
//
//	startup:  DrawTerrainSeed (simplex terrain only), DrawTerrainCell x nx*ny (x-major),
//	          then per founder: DrawSpawnPosition x2, DrawSpawnSex, DrawSpawnGene x5, DrawSpawnHeading
//	per tick: DrawHeading            decision phase, agents in ID order, only on random fallback
//	          reproduction phase, females in ID order, each possibly drawing both:
//	            birth:  DrawBlend, DrawMutate[, DrawMutationNoise] per gene in canonical order,
//	                    then DrawChildSex, DrawJitter x2
//	            mating: DrawMateAccept once if a candidate male was found
//	between ticks: DrawDiseaseSample (disease intervention)
type DrawPoint uint8

const (
	DrawTerrainSeed DrawPoint = iota
	DrawTerrainCell
	DrawSpawnPosition
	DrawSpawnSex
	DrawSpawnGene
	DrawSpawnHeading
	DrawHeading
	DrawMateAccept
	DrawBlend
	DrawMutate
	DrawMutationNoise
	DrawChildSex
	DrawJitter
	DrawDiseaseSample
)

var drawPointNames = [...]string{
	"terrain_seed", "terrain_cell", "spawn_position", "spawn_sex", "spawn_gene",
	"spawn_heading", "heading", "mate_accept", "blend", "mutate", "mutation_noise",
	"child_sex", "jitter", "disease_sample",
}

func (p DrawPoint) String() string {
	if int(p) < len(drawPointNames) {
		return drawPointNames[p]
	}
	return "unknown"
}

// Stream is the single deterministic random source threaded through the simulation.
type Stream struct {
	rng   *rand.Rand
	trace func(DrawPoint)
}

// NewStream creates a stream seeded with seed.
func NewStream(seed int64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(seed))}
}

// SetTrace installs a hook called before every draw. Pass nil to disable.
func (s *Stream) SetTrace(fn func(DrawPoint)) {
	s.trace = fn
}

func (s *Stream) mark(p DrawPoint) {
	if s.trace != nil {
		s.trace(p)
	}
}

// Float64 returns a uniform value in [0,1).
func (s *Stream) Float64(p DrawPoint) float64 {
	s.mark(p)
	return s.rng.Float64()
}

// Uniform returns a uniform value in [lo,hi).
func (s *Stream) Uniform(p DrawPoint, lo, hi float64) float64 {
	s.mark(p)
	return lo + (hi-lo)*s.rng.Float64()
}

// NormFloat64 returns a standard normal value.
func (s *Stream) NormFloat64(p DrawPoint) float64 {
	s.mark(p)
	return s.rng.NormFloat64()
}

// Int63 returns a non-negative 63-bit integer.
func (s *Stream) Int63(p DrawPoint) int64 {
	s.mark(p)
	return s.rng.Int63()
}

// Intn returns a uniform integer in [0,n).
func (s *Stream) Intn(p DrawPoint, n int) int {
	s.mark(p)
	return s.rng.Intn(n)
}
