package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/evogarden/systems"
	"github.com/pthm-cable/evogarden/telemetry"
)

// Step advances the simulation exactly one tick.
func (s *Simulation) Step() {
	s.tick++
	ctx := s.ctx
	s.liveSet()

	s.startTick()

	// 1. Spatial index over the pre-move positions
	s.phase(telemetry.PhaseSpatialGrid)
	systems.Reindex(ctx)

	// 2. Local density
	s.phase(telemetry.PhaseDensity)
	systems.UpdateDensity(ctx)

	// 3. Velocity decision
	s.phase(telemetry.PhaseDecision)
	systems.ChooseVelocities(ctx)

	// 4-5. Move, then reindex at the new positions
	s.phase(telemetry.PhaseMove)
	systems.Move(ctx)
	systems.Reindex(ctx)

	// 6. Grazing
	s.phase(telemetry.PhaseFeeding)
	systems.Feed(ctx)

	// 7. Predation
	s.phase(telemetry.PhasePredation)
	systems.Predate(ctx)

	// 8. Metabolism
	s.phase(telemetry.PhaseMetabolism)
	systems.Metabolize(ctx)

	// 9. Gestation, births, mating
	s.phase(telemetry.PhaseReproduction)
	births := systems.Reproduce(ctx)

	// 10. Structural pass
	s.phase(telemetry.PhaseCleanup)
	s.applyPopulationChanges(births)

	// 11. Nutrition growth and diffusion
	s.phase(telemetry.PhaseNutrition)
	ctx.Nutrition.Update()

	s.phase(telemetry.PhaseTelemetry)
	s.emitTelemetry()

	s.endTick()
}

// Run advances the simulation n ticks.
func (s *Simulation) Run(n int) {
	for range n {
		s.Step()
	}
}

// applyPopulationChanges removes dead creatures and inserts births. Every read
// of the live set happens before the first structural change.
func (s *Simulation) applyPopulationChanges(births []systems.Creature) {
	s.cullDead()
	for i := range births {
		s.addCreature(&births[i])
		s.collector.RecordBirth(births[i].Org.Species)
	}
}

func (s *Simulation) removeDead(entities []ecs.Entity) {
	if len(entities) == 0 {
		return
	}
	for _, e := range entities {
		s.world.RemoveEntity(e)
	}
	s.stale = true
}

// cullDead removes every creature flagged dead and returns how many went.
// Paternity records of dead mothers are dropped first; records naming a dead
// father are kept and fall back to self-crossover at birth.
func (s *Simulation) cullDead() int {
	// First pass: collect dead entities (must complete before modifying)
	var dead []ecs.Entity
	for _, a := range s.liveSet() {
		if a.Org.Dead {
			s.collector.RecordDeath(a.Org.Species)
			dead = append(dead, a.Entity)
		}
	}
	systems.PrunePaternity(s.ctx.Paternity, func(id uint64) bool {
		a, ok := s.ctx.Lookup(id)
		return ok && a.Org.Alive()
	})

	// Second pass: remove entities
	s.removeDead(dead)
	return len(dead)
}

func (s *Simulation) startTick() {
	if s.perfCollector != nil {
		s.perfCollector.StartTick()
	}
}

func (s *Simulation) phase(name string) {
	if s.perfCollector != nil {
		s.perfCollector.StartPhase(name)
	}
}

func (s *Simulation) endTick() {
	if s.perfCollector != nil {
		s.perfCollector.EndTick()
	}
}
