package systems

import (
	"math"

	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/config"
	"github.com/pthm-cable/evogarden/traits"
)

// Creature bundles the components of a creature that is not yet in the world.
type Creature struct {
	Pos   components.Position
	Vel   components.Velocity
	Org   components.Organism
	Genes components.Genes
}

// SpawnFounder creates a random initial creature of the given species.
func SpawnFounder(species components.Species, world World, stream *Stream, ids *IDGenerator) Creature {
	x := stream.Uniform(DrawSpawnPosition, 0, world.Width)
	y := stream.Uniform(DrawSpawnPosition, 0, world.Height)
	x, y = world.WrapPosition(x, y)

	sex := components.Female
	if stream.Float64(DrawSpawnSex) >= 0.5 {
		sex = components.Male
	}

	var vals [components.NumGenes]float64
	for k := range vals {
		vals[k] = stream.Float64(DrawSpawnGene)
	}
	genes := components.GenesFromValues(vals)

	angle := stream.Float64(DrawSpawnHeading) * 2 * math.Pi
	v := traits.Speed(genes, sex) * 0.2

	return Creature{
		Pos: components.Position{X: x, Y: y},
		Vel: components.Velocity{X: v * math.Cos(angle), Y: v * math.Sin(angle)},
		Org: components.Organism{
			ID:      ids.Next(),
			Species: species,
			Sex:     sex,
			HP:      traits.BaseHP(species) * traits.HPFactor(sex),
			Energy:  traits.BaseEnergy(species),
		},
		Genes: genes,
	}
}

// Crossover blends two genomes gene by gene and applies point mutations.
// Results are clamped to [0,1].
func Crossover(mother, father components.Genes, stream *Stream, rate, sigma float64) components.Genes {
	m := mother.Values()
	f := father.Values()
	var out [components.NumGenes]float64
	for k := range out {
		a := stream.Float64(DrawBlend)
		g := (1-a)*m[k] + a*f[k]
		if stream.Float64(DrawMutate) < rate {
			g += stream.NormFloat64(DrawMutationNoise) * sigma
		}
		out[k] = g
	}
	return components.GenesFromValues(out)
}

// SpawnChild creates the offspring of mother. The father is the mother's
// recorded mate if still alive, otherwise the mother is crossed with herself.
func SpawnChild(ctx *Context, mother Agent) Creature {
	p := ctx.Params

	father := *mother.Genes
	if fid, ok := ctx.Paternity[mother.Org.ID]; ok {
		if fa, ok := ctx.Lookup(fid); ok && fa.Org.Alive() {
			father = *fa.Genes
		}
	}
	genes := Crossover(*mother.Genes, father, ctx.Stream, p.MutationRate, p.MutationSigma)

	sex := components.Female
	if ctx.Stream.Float64(DrawChildSex) >= 0.5 {
		sex = components.Male
	}

	jx := ctx.Stream.Uniform(DrawJitter, -p.BirthJitter, p.BirthJitter)
	jy := ctx.Stream.Uniform(DrawJitter, -p.BirthJitter, p.BirthJitter)
	x, y := ctx.World.WrapPosition(mother.Pos.X+jx, mother.Pos.Y+jy)

	species := mother.Org.Species
	return Creature{
		Pos: components.Position{X: x, Y: y},
		Org: components.Organism{
			ID:      ctx.IDs.Next(),
			Species: species,
			Sex:     sex,
			HP:      traits.BaseHP(species) * traits.HPFactor(sex),
			Energy:  p.ChildEnergy,
		},
		Genes: genes,
	}
}

// FemaleMateMin returns the energy a female must exceed before she mates.
func FemaleMateMin(p *config.ParamsConfig, g components.Genes) float64 {
	if p.GeneReproThreshold {
		return math.Max(p.FemaleMateMin, traits.ReproThreshold(g))
	}
	return p.FemaleMateMin
}

// MateAcceptance returns the probability that a mating goes ahead at the
// given local density.
func MateAcceptance(p *config.ParamsConfig, density float64) float64 {
	return math.Exp(-p.AMate * math.Max(0, density-p.Rho0))
}

// Reproduce runs gestation, births and mate search for every female in ID
// order. Newborns are returned rather than inserted so the live set stays
// fixed for the rest of the tick.
func Reproduce(ctx *Context) []Creature {
	p := ctx.Params
	var births []Creature
	var buf []int

	for i, f := range ctx.Agents {
		if f.Org.Dead || f.Org.Sex != components.Female {
			continue
		}

		if f.Org.Pregnant {
			f.Org.Gestation--
			if f.Org.Gestation <= 0 && f.Org.Energy > p.BirthCost {
				f.Org.Energy -= p.BirthCost
				f.Org.Pregnant = false
				births = append(births, SpawnChild(ctx, f))
			}
		}

		if f.Org.Pregnant || !f.Org.Mature(p.MatureAge) || f.Org.Energy <= FemaleMateMin(p, *f.Genes) {
			continue
		}

		var j int
		var ok bool
		buf, j, ok = findMate(ctx, i, buf)
		if !ok {
			continue
		}
		if ctx.Stream.Float64(DrawMateAccept) > MateAcceptance(p, f.Org.Density) {
			continue
		}

		m := ctx.Agents[j]
		f.Org.Pregnant = true
		f.Org.Gestation = p.GestationTicks
		f.Org.Energy -= p.FemaleMateCost
		m.Org.Energy -= p.MaleMateCost
		m.Org.MateCooldown = p.MateCooldownTicks
		ctx.Paternity[f.Org.ID] = m.Org.ID
		ctx.recordMating()
	}
	return births
}

// findMate returns the lowest-ID eligible male within mating range of female
// i. Species is not checked; the child always takes the mother's species.
func findMate(ctx *Context, i int, buf []int) ([]int, int, bool) {
	p := ctx.Params
	f := ctx.Agents[i]
	buf = ctx.Grid.QueryRadiusInto(buf[:0], f.Pos.X, f.Pos.Y, p.MateRadius)

	best := -1
	for _, j := range buf {
		m := ctx.Agents[j]
		if j == i || m.Org.Dead || m.Org.Sex != components.Male {
			continue
		}
		if !m.Org.Mature(p.MatureAge) || m.Org.MateCooldown > 0 || m.Org.Energy <= p.MaleMateMin {
			continue
		}
		if ctx.World.Distance(f.Pos.X, f.Pos.Y, m.Pos.X, m.Pos.Y) > p.MateRadius {
			continue
		}
		if best < 0 || j < best {
			best = j
		}
	}
	return buf, best, best >= 0
}

// PrunePaternity drops entries whose mother is no longer alive.
func PrunePaternity(paternity map[uint64]uint64, alive func(id uint64) bool) {
	for mother := range paternity {
		if !alive(mother) {
			delete(paternity, mother)
		}
	}
}
