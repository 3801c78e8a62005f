// Package game owns the simulation: ECS storage, the tick pipeline,
// read-only snapshots, and the intervention surface.
package game

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/config"
	"github.com/pthm-cable/evogarden/systems"
	"github.com/pthm-cable/evogarden/telemetry"
)

// Options configures a simulation beyond what the config file holds.
type Options struct {
	Seed      int64  // RNG seed (0 = use population.seed from config)
	LogStats  bool   // Log report rows and window stats via slog
	OutputDir string // Directory for CSV logs (empty = disabled)
	DBPath    string // SQLite file for report rows (empty = disabled)
	Perf      bool   // Collect per-phase timings

	// Sinks receive report rows, extinctions, and interventions in addition
	// to the CSV and SQLite outputs.
	Sinks []ReportSink

	// StatsCallback is called with each flushed stats window.
	StatsCallback func(telemetry.WindowStats)

	// Trace, if set, observes every random draw.
	Trace func(systems.DrawPoint)
}

// Simulation holds the complete simulation state.
type Simulation struct {
	cfg   *config.Config
	seed  int64
	world *ecs.World

	creatureMap    *ecs.Map4[components.Position, components.Velocity, components.Organism, components.Genes]
	creatureFilter *ecs.Filter4[components.Position, components.Velocity, components.Organism, components.Genes]

	ctx    *systems.Context
	stream *systems.Stream

	// Live set for the current tick, rebuilt after every structural change
	agents []systems.Agent
	stale  bool

	tick     int
	interval int

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	store            *telemetry.Store
	sinks            []ReportSink
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// New builds a simulation: terrain first, then herbivore founders, then
// carnivore founders, all drawn from one seeded stream.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Population.Seed
	}

	stream := systems.NewStream(seed)
	if opts.Trace != nil {
		stream.SetTrace(opts.Trace)
	}

	w := systems.NewWorld(cfg.World.Width, cfg.World.Height)
	terrain := systems.GenerateTerrain(cfg.Terrain, stream)
	nutrition := systems.NewNutritionField(terrain.Productivity, terrain.NX, terrain.NY, cfg.Nutrition)

	world := ecs.NewWorld()
	s := &Simulation{
		cfg:            cfg,
		seed:           seed,
		world:          world,
		creatureMap:    ecs.NewMap4[components.Position, components.Velocity, components.Organism, components.Genes](world),
		creatureFilter: ecs.NewFilter4[components.Position, components.Velocity, components.Organism, components.Genes](world),
		stream:         stream,
		interval:       cfg.Telemetry.Interval,
		collector:      telemetry.NewCollector(cfg.Telemetry.WindowTicks),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		stale:          true,
	}
	if cfg.Telemetry.WindowTicks > 0 {
		s.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory)
	}
	if opts.Perf {
		s.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	s.ctx = &systems.Context{
		World:         w,
		Terrain:       terrain,
		Nutrition:     nutrition,
		Grid:          systems.NewSpatialGrid(w, cfg.Spatial.CellSize),
		Stream:        stream,
		Params:        &cfg.Params,
		IDs:           systems.NewIDGenerator(),
		Events:        s.collector,
		DensityRadius: cfg.Spatial.DensityRadius,
		Paternity:     make(map[uint64]uint64),
	}

	s.spawnFounders(components.Herbivore, cfg.Population.Herbivores)
	s.spawnFounders(components.Carnivore, cfg.Population.Carnivores)

	if err := s.openOutputs(opts); err != nil {
		s.Close()
		return nil, err
	}

	slog.Info("simulation created",
		"seed", seed,
		"world", fmt.Sprintf("%gx%g", w.Width, w.Height),
		"terrain", fmt.Sprintf("%dx%d", terrain.NX, terrain.NY),
		"herbivores", cfg.Population.Herbivores,
		"carnivores", cfg.Population.Carnivores,
	)
	return s, nil
}

// openOutputs wires the CSV and SQLite sinks requested by opts.
func (s *Simulation) openOutputs(opts Options) error {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	s.outputManager = om
	if om != nil {
		if err := om.WriteConfig(s.cfg); err != nil {
			return err
		}
		s.sinks = append(s.sinks, csvSink{om})
	}

	if opts.DBPath != "" {
		st, err := telemetry.OpenStore(opts.DBPath, s.seed)
		if err != nil {
			return err
		}
		s.store = st
		s.sinks = append(s.sinks, storeSink{st})
		slog.Info("report store opened", "path", opts.DBPath, "run_id", st.RunID())
	}

	s.sinks = append(s.sinks, opts.Sinks...)
	return nil
}

// spawnFounders adds n randomly initialized creatures of one species.
func (s *Simulation) spawnFounders(species components.Species, n int) {
	for range n {
		c := systems.SpawnFounder(species, s.ctx.World, s.stream, s.ctx.IDs)
		s.addCreature(&c)
	}
}

func (s *Simulation) addCreature(c *systems.Creature) ecs.Entity {
	s.stale = true
	return s.creatureMap.NewEntity(&c.Pos, &c.Vel, &c.Org, &c.Genes)
}

// liveSet returns the creatures in ascending ID order. The pointers alias ECS
// storage and are valid until the next structural change.
func (s *Simulation) liveSet() []systems.Agent {
	if !s.stale {
		return s.agents
	}

	s.agents = s.agents[:0]
	query := s.creatureFilter.Query()
	for query.Next() {
		pos, vel, org, genes := query.Get()
		s.agents = append(s.agents, systems.Agent{
			Entity: query.Entity(),
			Pos:    pos,
			Vel:    vel,
			Org:    org,
			Genes:  genes,
		})
	}
	slices.SortFunc(s.agents, func(a, b systems.Agent) int {
		return cmp.Compare(a.Org.ID, b.Org.ID)
	})

	s.ctx.SetAgents(s.agents)
	s.stale = false
	return s.agents
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int {
	return s.tick
}

// Seed returns the seed the stream was created with.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// World returns the torus geometry.
func (s *Simulation) World() systems.World {
	return s.ctx.World
}

// Population returns the live herbivore and carnivore counts.
func (s *Simulation) Population() (herbivores, carnivores int) {
	for _, a := range s.liveSet() {
		if a.Org.Species == components.Herbivore {
			herbivores++
		} else {
			carnivores++
		}
	}
	return herbivores, carnivores
}

// PerfStats returns the current perf window, or false if timing is disabled.
func (s *Simulation) PerfStats() (telemetry.PerfStats, bool) {
	if s.perfCollector == nil {
		return telemetry.PerfStats{}, false
	}
	return s.perfCollector.Stats(), true
}

// RecordFrame feeds frame timing to the perf collector in graphical mode.
func (s *Simulation) RecordFrame() {
	if s.perfCollector != nil {
		s.perfCollector.RecordFrame()
	}
}

// Close releases output files and the report store.
func (s *Simulation) Close() error {
	var errs []error
	if err := s.outputManager.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing store: %w", err))
		}
	}
	return errors.Join(errs...)
}
