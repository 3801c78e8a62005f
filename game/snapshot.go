package game

import (
	"slices"

	"github.com/pthm-cable/evogarden/components"
)

// CreatureView is the read-only part of a creature that observers see.
type CreatureView struct {
	ID      uint64
	Species components.Species
	Sex     components.Sex
	X, Y    float64
	VX, VY  float64
	Radius  float64
	HP      float64
	Energy  float64
}

// Snapshot is a copy of the observable state between ticks. Nothing in it
// aliases simulation storage.
type Snapshot struct {
	Tick      int
	Creatures []CreatureView // ascending ID

	// Lattice grids, flat row-major by i*NY + j
	NX, NY    int
	Nutrition []float64
	Capacity  []float64
	Elevation []float64

	TotalNutrition float64
}

// Snapshot copies the current state for rendering and logging.
func (s *Simulation) Snapshot() Snapshot {
	agents := s.liveSet()
	views := make([]CreatureView, len(agents))
	for i, a := range agents {
		views[i] = CreatureView{
			ID:      a.Org.ID,
			Species: a.Org.Species,
			Sex:     a.Org.Sex,
			X:       a.Pos.X,
			Y:       a.Pos.Y,
			VX:      a.Vel.X,
			VY:      a.Vel.Y,
			Radius:  a.Radius(),
			HP:      a.Org.HP,
			Energy:  a.Org.Energy,
		}
	}

	nf := s.ctx.Nutrition
	return Snapshot{
		Tick:           s.tick,
		Creatures:      views,
		NX:             nf.NX,
		NY:             nf.NY,
		Nutrition:      slices.Clone(nf.N),
		Capacity:       slices.Clone(nf.K),
		Elevation:      slices.Clone(s.ctx.Terrain.Elevation),
		TotalNutrition: nf.Total(),
	}
}

// Counts returns the live population split by species and sex.
func (snap Snapshot) Counts() (hf, hm, cf, cm int) {
	for _, c := range snap.Creatures {
		switch {
		case c.Species == components.Herbivore && c.Sex == components.Female:
			hf++
		case c.Species == components.Herbivore:
			hm++
		case c.Sex == components.Female:
			cf++
		default:
			cm++
		}
	}
	return hf, hm, cf, cm
}
