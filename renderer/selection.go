package renderer

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/evogarden/game"
	"github.com/pthm-cable/evogarden/systems"
)

// PickCreature returns the index of the creature nearest to world point
// (wx, wy) whose body, widened by slack world units, contains the point.
// Distances are toroidal; ties go to the lower index.
func PickCreature(creatures []game.CreatureView, world systems.World, wx, wy, slack float64) (int, bool) {
	best := -1
	bestDist := 0.0
	for i, c := range creatures {
		d := world.Distance(wx, wy, c.X, c.Y)
		if d > c.Radius+slack {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// FindByID returns the creature with the given ID. Creatures are in
// ascending ID order.
func FindByID(creatures []game.CreatureView, id uint64) (game.CreatureView, bool) {
	i, ok := slices.BinarySearchFunc(creatures, id, func(c game.CreatureView, id uint64) int {
		return cmp.Compare(c.ID, id)
	})
	if !ok {
		return game.CreatureView{}, false
	}
	return creatures[i], true
}
