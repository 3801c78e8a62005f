package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/config"
	"github.com/pthm-cable/evogarden/traits"
)

// Agent is a one-tick view of a creature's components. The pointers alias ECS
// storage and stay valid until the next structural change (births or culling).
type Agent struct {
	Entity ecs.Entity
	Pos    *components.Position
	Vel    *components.Velocity
	Org    *components.Organism
	Genes  *components.Genes
}

// Speed returns the agent's current speed stat.
func (a Agent) Speed() float64 { return traits.Speed(*a.Genes, a.Org.Sex) }

// Vision returns the agent's perception radius.
func (a Agent) Vision() float64 { return traits.Vision(*a.Genes) }

// Attack returns the agent's attack stat.
func (a Agent) Attack() float64 { return traits.Attack(*a.Genes, a.Org.Sex, a.Org.Species) }

// Size returns the agent's size stat.
func (a Agent) Size() float64 { return traits.Size(*a.Genes) }

// Radius returns the agent's collision radius.
func (a Agent) Radius() float64 { return traits.Radius(*a.Genes) }

// IDGenerator hands out creature identifiers. IDs start at 1 and are never reused.
type IDGenerator struct {
	next uint64
}

// NewIDGenerator creates a generator whose first ID is 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{next: 1}
}

// Next returns a fresh identifier.
func (g *IDGenerator) Next() uint64 {
	id := g.next
	g.next++
	return id
}

// Peek returns the identifier the next call to Next will return.
func (g *IDGenerator) Peek() uint64 {
	return g.next
}

// Events receives notable phase outcomes. Implementations must not mutate
// simulation state.
type Events interface {
	RecordBite(killed bool)
	RecordMating()
}

// Context carries everything a phase reads or writes. It is owned by the
// orchestrator and passed explicitly to each phase.
type Context struct {
	World     World
	Terrain   *Terrain
	Nutrition *NutritionField
	Grid      *SpatialGrid
	Stream    *Stream
	Params    *config.ParamsConfig
	IDs       *IDGenerator
	Events    Events

	DensityRadius float64

	// Paternity maps a mother ID to the ID of her most recently accepted mate.
	Paternity map[uint64]uint64

	// Agents is the live set for the current tick in ascending ID order.
	Agents []Agent
	byID   map[uint64]int
}

// SetAgents installs the tick's live set. agents must be sorted by ID.
func (c *Context) SetAgents(agents []Agent) {
	c.Agents = agents
	if c.byID == nil {
		c.byID = make(map[uint64]int, len(agents))
	} else {
		clear(c.byID)
	}
	for i, a := range agents {
		c.byID[a.Org.ID] = i
	}
}

// Lookup resolves an ID against the current live set.
func (c *Context) Lookup(id uint64) (Agent, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Agent{}, false
	}
	return c.Agents[i], true
}

// CellOf returns the terrain cell under an agent.
func (c *Context) CellOf(a Agent) (int, int) {
	return c.World.CellOf(a.Pos.X, a.Pos.Y, c.Nutrition.NX, c.Nutrition.NY)
}

func (c *Context) recordBite(killed bool) {
	if c.Events != nil {
		c.Events.RecordBite(killed)
	}
}

func (c *Context) recordMating() {
	if c.Events != nil {
		c.Events.RecordMating()
	}
}
