// Package traits maps genes to phenotype.
// Every function is pure over (genes, sex, species); the sex multipliers are
// intentionally asymmetric.
package traits

import "github.com/pthm-cable/evogarden/components"

// Trait ranges.
const (
	SpeedLo, SpeedHi   = 0.8, 3.4
	VisionLo, VisionHi = 20.0, 80.0
	AttackLo, AttackHi = 2.0, 8.0
	SizeLo, SizeHi     = 0.7, 1.6
	ReproLo, ReproHi   = 0.7, 1.3

	// RadiusPerSize converts size to collision radius.
	RadiusPerSize = 2.2
	// ReproBase is divided by the mapped repro gene to get the threshold.
	ReproBase = 8.0
)

// Map01 maps a gene clamped to [0,1] linearly onto [lo, hi].
func Map01(g, lo, hi float64) float64 {
	if g < 0 {
		g = 0
	} else if g > 1 {
		g = 1
	}
	return lo + g*(hi-lo)
}

// Speed returns the movement speed in world units per tick.
func Speed(g components.Genes, sex components.Sex) float64 {
	base := Map01(g.Speed, SpeedLo, SpeedHi)
	if sex == components.Male {
		return base * 1.05
	}
	return base * 0.95
}

// Vision returns the perception radius.
func Vision(g components.Genes) float64 {
	return Map01(g.Vision, VisionLo, VisionHi)
}

// Attack returns the damage dealt per predation event. Herbivores never attack.
func Attack(g components.Genes, sex components.Sex, species components.Species) float64 {
	if species == components.Herbivore {
		return 0
	}
	base := Map01(g.Attack, AttackLo, AttackHi)
	if sex == components.Male {
		return base * 1.1
	}
	return base * 0.9
}

// Size returns the body size.
func Size(g components.Genes) float64 {
	return Map01(g.Size, SizeLo, SizeHi)
}

// Radius returns the collision radius.
func Radius(g components.Genes) float64 {
	return RadiusPerSize * Size(g)
}

// MetabolismFactor scales basal and movement costs.
func MetabolismFactor(sex components.Sex) float64 {
	if sex == components.Male {
		return 1.1
	}
	return 0.95
}

// HPFactor scales the species base hit points at birth.
func HPFactor(sex components.Sex) float64 {
	if sex == components.Male {
		return 0.95
	}
	return 1.05
}

// ReproThreshold is an energy threshold inversely scaled by the repro gene.
func ReproThreshold(g components.Genes) float64 {
	return ReproBase / Map01(g.Repro, ReproLo, ReproHi)
}

// BaseHP returns the species base hit points.
func BaseHP(species components.Species) float64 {
	if species == components.Carnivore {
		return 28
	}
	return 20
}

// BaseEnergy returns the starting energy of a founder.
func BaseEnergy(species components.Species) float64 {
	if species == components.Carnivore {
		return 12
	}
	return 10
}

// HungerThreshold is the energy below which a creature seeks food.
func HungerThreshold(species components.Species) float64 {
	if species == components.Carnivore {
		return 7
	}
	return 6
}
