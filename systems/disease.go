package systems

// SampleDisease picks int(n*fraction) distinct alive agents and scales their
// hit points by damageFactor. Creatures brought to zero are flagged dead. It
// returns the number of agents affected.
func SampleDisease(agents []Agent, stream *Stream, damageFactor, fraction float64) int {
	idx := make([]int, 0, len(agents))
	for i, a := range agents {
		if a.Org.Alive() {
			idx = append(idx, i)
		}
	}

	k := int(float64(len(idx)) * clamp01(fraction))
	if k == 0 {
		return 0
	}
	f := clamp01(damageFactor)

	// Partial Fisher-Yates over the alive indices.
	for n := 0; n < k; n++ {
		r := n + stream.Intn(DrawDiseaseSample, len(idx)-n)
		idx[n], idx[r] = idx[r], idx[n]

		a := agents[idx[n]]
		a.Org.HP *= f
		if a.Org.HP <= 0 {
			a.Org.Dead = true
		}
	}
	return k
}

// MeteorStrike kills every alive agent within radius of (x, y) and returns how many died.
func MeteorStrike(world World, agents []Agent, x, y, radius float64) int {
	killed := 0
	for _, a := range agents {
		if a.Org.Dead {
			continue
		}
		if world.Distance(x, y, a.Pos.X, a.Pos.Y) <= radius {
			a.Org.Dead = true
			killed++
		}
	}
	return killed
}

// MeteorCell converts a world-space impact into nutrition lattice coordinates
// and a radius in cells.
func MeteorCell(world World, nx, ny int, x, y, radius float64) (ci, cj int, radiusCells float64) {
	ci, cj = world.CellOf(x, y, nx, ny)
	radiusCells = radius / (world.Width / float64(nx))
	return ci, cj, radiusCells
}
