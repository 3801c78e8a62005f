// Package components defines ECS components for the simulation.
package components

// Species tags which diet and phenotype rules apply.
type Species uint8

const (
	Herbivore Species = iota
	Carnivore
)

// String returns the short code used in reports ("H" or "C").
func (s Species) String() string {
	if s == Carnivore {
		return "C"
	}
	return "H"
}

// Name returns the long display name.
func (s Species) Name() string {
	if s == Carnivore {
		return "carnivore"
	}
	return "herbivore"
}

// Sex of a creature.
type Sex uint8

const (
	Female Sex = iota
	Male
)

// String returns the short code used in reports ("F" or "M").
func (s Sex) String() string {
	if s == Male {
		return "M"
	}
	return "F"
}

// Organism bundles identity, vitals, and reproductive state.
// Energy and HP may go negative within a tick; death is a flag, not removal.
type Organism struct {
	ID      uint64
	Species Species
	Sex     Sex

	Age    int     // ticks alive
	HP     float64 // hit points
	Energy float64

	AttackCooldown int // ticks until the next predation attempt
	MateCooldown   int // ticks until a male can mate again

	Pregnant  bool
	Gestation int // ticks remaining until birth

	Density float64 // alive neighbors within the density radius, recomputed each tick
	Dead    bool
}

// Alive reports whether the organism has not been flagged dead.
func (o *Organism) Alive() bool {
	return !o.Dead
}

// Mature reports whether the organism has reached the given age.
func (o *Organism) Mature(matureAge int) bool {
	return o.Age >= matureAge
}
