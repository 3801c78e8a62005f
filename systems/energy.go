package systems

import (
	"math"

	"github.com/pthm-cable/evogarden/traits"
)

// MetabolicCost returns the energy an agent spends this tick.
func MetabolicCost(ctx *Context, a Agent) float64 {
	p := ctx.Params
	mf := traits.MetabolismFactor(a.Org.Sex)
	speed := math.Hypot(a.Vel.X, a.Vel.Y)
	i, j := ctx.CellOf(a)
	slope := ctx.Terrain.Slope(i, j)

	basal := p.BasalCost * mf
	move := p.MoveCost * speed * mf
	climb := p.SlopeCost * slope * speed
	crowd := p.CrowdCost * math.Max(0, a.Org.Density-p.Rho0)
	return basal + move + climb + crowd
}

// Metabolize charges every alive agent its metabolic cost. A negative energy
// balance is also taken out of hit points; energy itself stays negative.
func Metabolize(ctx *Context) {
	for _, a := range ctx.Agents {
		if a.Org.Dead {
			continue
		}
		a.Org.Energy -= MetabolicCost(ctx, a)
		if a.Org.Energy < 0 {
			a.Org.HP += a.Org.Energy
		}
		if a.Org.HP <= 0 {
			a.Org.Dead = true
		}
	}
}
