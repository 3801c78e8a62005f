package systems

import (
	"github.com/pthm-cable/evogarden/components"
)

// Feed lets every alive herbivore graze the cell it stands on.
func Feed(ctx *Context) {
	p := ctx.Params
	for _, a := range ctx.Agents {
		if a.Org.Dead || a.Org.Species != components.Herbivore {
			continue
		}
		i, j := ctx.CellOf(a)
		eaten := ctx.Nutrition.Consume(i, j, p.EatRate*a.Size())
		a.Org.Energy += p.EtaEat * eaten
	}
}

// Predate gives each ready carnivore at most one bite this tick, on the
// lowest-ID alive herbivore whose body overlaps its own.
func Predate(ctx *Context) {
	var buf []int
	for _, pred := range ctx.Agents {
		if pred.Org.Dead || pred.Org.Species != components.Carnivore || pred.Org.AttackCooldown > 0 {
			continue
		}

		r := pred.Radius()
		buf = ctx.Grid.QueryRadiusInto(buf[:0], pred.Pos.X, pred.Pos.Y, r+ctx.Params.PredationReach)

		target := -1
		for _, j := range buf {
			prey := ctx.Agents[j]
			if prey.Org.Dead || prey.Org.Species != components.Herbivore {
				continue
			}
			d := ctx.World.Distance(pred.Pos.X, pred.Pos.Y, prey.Pos.X, prey.Pos.Y)
			if d < r+prey.Radius() && (target < 0 || j < target) {
				target = j
			}
		}
		if target < 0 {
			continue
		}
		Strike(ctx, pred, ctx.Agents[target])
	}
}

// Strike applies one predation event and reports whether the prey died.
func Strike(ctx *Context, pred, prey Agent) bool {
	p := ctx.Params
	prey.Org.HP -= pred.Attack()
	pred.Org.Energy -= p.BiteCost
	pred.Org.AttackCooldown = p.CooldownTicks

	killed := prey.Org.HP <= 0
	if killed {
		prey.Org.Dead = true
		pred.Org.Energy += p.PreyEnergyGain
	}
	ctx.recordBite(killed)
	return killed
}
