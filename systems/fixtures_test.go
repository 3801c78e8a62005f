package systems

import (
	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/config"
	"github.com/pthm-cable/evogarden/traits"
)

const testGridN = 8

var midGenes = components.Genes{Speed: 0.5, Vision: 0.5, Attack: 0.5, Repro: 0.5, Size: 0.5}

func testParams() *config.ParamsConfig {
	p := config.Defaults().Params
	return &p
}

// flatNutrition returns a field over uniform productivity 1 filled to capacity.
func flatNutrition(nx, ny int, k float64) *NutritionField {
	prod := make([]float64, nx*ny)
	for i := range prod {
		prod[i] = 1
	}
	return NewNutritionField(prod, nx, ny, config.NutritionConfig{
		R0:        0.02,
		K0:        k,
		Diffusion: 0.12,
		InitFill:  1,
	})
}

func flatTerrain(nx, ny int) *Terrain {
	prod := make([]float64, nx*ny)
	for i := range prod {
		prod[i] = 1
	}
	return &Terrain{NX: nx, NY: ny, Elevation: make([]float64, nx*ny), Productivity: prod}
}

func newCreature(id uint64, species components.Species, sex components.Sex, x, y float64) Creature {
	return Creature{
		Pos: components.Position{X: x, Y: y},
		Org: components.Organism{
			ID:      id,
			Species: species,
			Sex:     sex,
			HP:      traits.BaseHP(species) * traits.HPFactor(sex),
			Energy:  traits.BaseEnergy(species),
		},
		Genes: midGenes,
	}
}

func agentsOf(creatures []Creature) []Agent {
	agents := make([]Agent, len(creatures))
	for i := range creatures {
		c := &creatures[i]
		agents[i] = Agent{Pos: &c.Pos, Vel: &c.Vel, Org: &c.Org, Genes: &c.Genes}
	}
	return agents
}

type eventLog struct {
	bites, kills, matings int
}

func (e *eventLog) RecordBite(killed bool) {
	e.bites++
	if killed {
		e.kills++
	}
}

func (e *eventLog) RecordMating() { e.matings++ }

// newTestContext builds a 100x100 world over a flat 8x8 lattice. creatures
// must be in ascending ID order and must not be reallocated afterwards.
func newTestContext(creatures []Creature) (*Context, *eventLog) {
	w := NewWorld(100, 100)
	var maxID uint64
	for _, c := range creatures {
		maxID = max(maxID, c.Org.ID)
	}

	events := &eventLog{}
	ctx := &Context{
		World:         w,
		Terrain:       flatTerrain(testGridN, testGridN),
		Nutrition:     flatNutrition(testGridN, testGridN, 10),
		Grid:          NewSpatialGrid(w, 20),
		Stream:        NewStream(1),
		Params:        testParams(),
		IDs:           &IDGenerator{next: maxID + 1},
		Events:        events,
		DensityRadius: 40,
		Paternity:     make(map[uint64]uint64),
	}
	ctx.SetAgents(agentsOf(creatures))
	Reindex(ctx)
	return ctx, events
}

// traceDraws records every draw point the stream consumes.
func traceDraws(s *Stream) *[]DrawPoint {
	var log []DrawPoint
	s.SetTrace(func(p DrawPoint) { log = append(log, p) })
	return &log
}
