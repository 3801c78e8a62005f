package systems

import (
	"math"

	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/traits"
)

// Reindex rebuilds the spatial grid from the live set.
func Reindex(ctx *Context) {
	ctx.Grid.Rebuild(ctx.Agents)
}

// UpdateDensity stores, for every alive agent, the number of other alive
// agents within the density radius.
func UpdateDensity(ctx *Context) {
	var buf []int
	r := ctx.DensityRadius
	for i, a := range ctx.Agents {
		if a.Org.Dead {
			continue
		}
		buf = ctx.Grid.QueryRadiusInto(buf[:0], a.Pos.X, a.Pos.Y, r)
		count := 0
		for _, j := range buf {
			if j == i {
				continue
			}
			o := ctx.Agents[j]
			if o.Org.Dead {
				continue
			}
			if ctx.World.Distance(a.Pos.X, a.Pos.Y, o.Pos.X, o.Pos.Y) <= r {
				count++
			}
		}
		a.Org.Density = float64(count)
	}
}

// ChooseVelocities sets each alive agent's velocity for this tick. Agents with
// nothing to steer toward take a uniformly random heading.
func ChooseVelocities(ctx *Context) {
	for i, a := range ctx.Agents {
		if a.Org.Dead {
			continue
		}
		dx, dy, found := DesiredHeading(ctx, i)
		if !found {
			angle := ctx.Stream.Float64(DrawHeading) * 2 * math.Pi
			dx, dy = math.Cos(angle), math.Sin(angle)
		}
		speed := a.Speed()
		a.Vel.X = dx * speed
		a.Vel.Y = dy * speed
	}
}

// DesiredHeading returns the unit heading agent i wants to follow. found is
// false when the agent is not hungry or has no improving cell or visible prey.
// A found target at zero displacement yields (0, 0, true).
func DesiredHeading(ctx *Context, i int) (dx, dy float64, found bool) {
	a := ctx.Agents[i]
	if a.Org.Energy >= traits.HungerThreshold(a.Org.Species) {
		return 0, 0, false
	}

	switch a.Org.Species {
	case components.Herbivore:
		return NutritionGradient(ctx, a)
	case components.Carnivore:
		j, ok := NearestPrey(ctx, i)
		if !ok {
			return 0, 0, false
		}
		prey := ctx.Agents[j]
		dx, dy = ctx.World.Delta(a.Pos.X, a.Pos.Y, prey.Pos.X, prey.Pos.Y)
		dx, dy = normalize(dx, dy)
		return dx, dy, true
	}
	return 0, 0, false
}

// NutritionGradient returns the direction toward the richest of the 8
// neighboring cells, if any is strictly richer than the agent's own cell.
// The first strictly better cell in scan order wins ties.
func NutritionGradient(ctx *Context, a Agent) (dx, dy float64, found bool) {
	nf := ctx.Nutrition
	i, j := ctx.CellOf(a)
	best := nf.At(i, j)
	var bi, bj int

	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			v := nf.At(modInt(i+di, nf.NX), modInt(j+dj, nf.NY))
			if v > best {
				best = v
				bi, bj = di, dj
				found = true
			}
		}
	}
	if !found {
		return 0, 0, false
	}
	dx, dy = normalize(float64(bi), float64(bj))
	return dx, dy, true
}

// NearestPrey returns the index of the closest alive herbivore within the
// predator's vision. Equal distances resolve to the lower ID.
func NearestPrey(ctx *Context, i int) (int, bool) {
	pred := ctx.Agents[i]
	vision := pred.Vision()
	best := -1
	bestD := math.Inf(1)

	for _, j := range ctx.Grid.QueryRadius(pred.Pos.X, pred.Pos.Y, vision) {
		o := ctx.Agents[j]
		if j == i || o.Org.Dead || o.Org.Species != components.Herbivore {
			continue
		}
		d := ctx.World.Distance(pred.Pos.X, pred.Pos.Y, o.Pos.X, o.Pos.Y)
		if d > vision {
			continue
		}
		if d < bestD || (d == bestD && j < best) {
			best, bestD = j, d
		}
	}
	return best, best >= 0
}

// Move advances alive agents by their velocity, ages them, and ticks their
// cooldowns down toward zero.
func Move(ctx *Context) {
	for _, a := range ctx.Agents {
		if a.Org.Dead {
			continue
		}
		a.Pos.X, a.Pos.Y = ctx.World.WrapPosition(a.Pos.X+a.Vel.X, a.Pos.Y+a.Vel.Y)
		a.Org.Age++
		a.Org.AttackCooldown = max(0, a.Org.AttackCooldown-1)
		a.Org.MateCooldown = max(0, a.Org.MateCooldown-1)
	}
}
