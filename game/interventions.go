package game

import (
	"github.com/pthm-cable/evogarden/systems"
	"github.com/pthm-cable/evogarden/telemetry"
)

// Interventions mutate state strictly between ticks. Each one is logged and
// sent to the report sinks.

// InjectNutrition adds delta to every lattice cell within radiusCells of cell
// (cx, cy), clamped to [0, k].
func (s *Simulation) InjectNutrition(cx, cy, radiusCells, delta float64) {
	s.ctx.Nutrition.InjectCircle(cx, cy, radiusCells, delta)
	s.emitIntervention(telemetry.Intervention{
		Tick:   s.tick,
		Kind:   telemetry.InterventionInject,
		X:      cx,
		Y:      cy,
		Radius: radiusCells,
		Amount: delta,
	})
}

// Disease scales the hit points of a random fraction of the live population
// by damageFactor. Both arguments are clamped to [0, 1]. Creatures brought to
// zero hit points are removed immediately. It returns how many were sampled.
func (s *Simulation) Disease(damageFactor, fraction float64) int {
	affected := systems.SampleDisease(s.liveSet(), s.stream, damageFactor, fraction)
	s.cullDead()
	s.emitIntervention(telemetry.Intervention{
		Tick:     s.tick,
		Kind:     telemetry.InterventionDisease,
		Amount:   damageFactor,
		Fraction: fraction,
		Affected: affected,
	})
	return affected
}

// Meteor kills every creature within radius world units of (x, y), removes
// them immediately, and adds nutritionDelta (usually negative) to the
// lattice cells under the impact. It returns the number killed.
func (s *Simulation) Meteor(x, y, radius, nutritionDelta float64) int {
	killed := systems.MeteorStrike(s.ctx.World, s.liveSet(), x, y, radius)
	s.cullDead()

	nf := s.ctx.Nutrition
	ci, cj, rc := systems.MeteorCell(s.ctx.World, nf.NX, nf.NY, x, y, radius)
	nf.InjectCircle(float64(ci), float64(cj), rc, nutritionDelta)

	s.emitIntervention(telemetry.Intervention{
		Tick:     s.tick,
		Kind:     telemetry.InterventionMeteor,
		X:        x,
		Y:        y,
		Radius:   radius,
		Amount:   nutritionDelta,
		Affected: killed,
	})
	return killed
}
