package game

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/config"
	"github.com/pthm-cable/evogarden/systems"
	"github.com/pthm-cable/evogarden/telemetry"
)

// testConfig returns a small garden that runs quickly.
func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.World.Width = 256
	cfg.World.Height = 256
	cfg.Terrain.NX = 16
	cfg.Terrain.NY = 16
	cfg.Spatial.CellSize = 32
	cfg.Population.Herbivores = 30
	cfg.Population.Carnivores = 10
	cfg.Population.Seed = 42
	cfg.Params.MatureAge = 20
	cfg.Params.GestationTicks = 30
	cfg.Params.MateCooldownTicks = 10
	cfg.Telemetry.WindowTicks = 0
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config, opts Options) *Simulation {
	t.Helper()
	s, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

// recordingSink keeps everything it is sent.
type recordingSink struct {
	reports       []telemetry.Report
	extinctions   []telemetry.Extinction
	interventions []telemetry.Intervention
}

func (r *recordingSink) OnReport(rep telemetry.Report) error {
	r.reports = append(r.reports, rep)
	return nil
}

func (r *recordingSink) OnExtinction(e telemetry.Extinction) error {
	r.extinctions = append(r.extinctions, e)
	return nil
}

func (r *recordingSink) OnIntervention(iv telemetry.Intervention) error {
	r.interventions = append(r.interventions, iv)
	return nil
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.World.Width = 0
	if _, err := New(cfg, Options{}); err == nil {
		t.Error("expected error for zero-width world")
	}
}

func TestFounders(t *testing.T) {
	s := newTestSim(t, testConfig(), Options{})

	h, c := s.Population()
	if h != 30 || c != 10 {
		t.Errorf("Population() = %d, %d, want 30, 10", h, c)
	}
	if s.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", s.Tick())
	}

	// Herbivores are spawned first, so they hold the low IDs
	snap := s.Snapshot()
	for i, cv := range snap.Creatures {
		want := components.Herbivore
		if i >= 30 {
			want = components.Carnivore
		}
		if cv.Species != want {
			t.Fatalf("creature %d (id %d) species = %v, want %v", i, cv.ID, cv.Species, want)
		}
	}
}

func TestSeedOverride(t *testing.T) {
	cfg := testConfig()
	if s := newTestSim(t, cfg, Options{}); s.Seed() != 42 {
		t.Errorf("Seed() = %d, want config seed 42", s.Seed())
	}
	if s := newTestSim(t, cfg, Options{Seed: 9}); s.Seed() != 9 {
		t.Errorf("Seed() = %d, want 9", s.Seed())
	}
}

func TestDeterministicReplay(t *testing.T) {
	cfg := testConfig()
	a := newTestSim(t, cfg, Options{})
	b := newTestSim(t, cfg, Options{})

	for tick := 1; tick <= 150; tick++ {
		a.Step()
		b.Step()
		if ra, rb := a.Report(), b.Report(); ra != rb {
			t.Fatalf("tick %d: reports differ:\n%+v\n%+v", tick, ra, rb)
		}
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if !slices.Equal(sa.Creatures, sb.Creatures) {
		t.Error("creature state differs after identical runs")
	}
	if !slices.Equal(sa.Nutrition, sb.Nutrition) {
		t.Error("nutrition differs after identical runs")
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	cfg := testConfig()
	a := newTestSim(t, cfg, Options{Seed: 1})
	b := newTestSim(t, cfg, Options{Seed: 2})

	if slices.Equal(a.Snapshot().Creatures, b.Snapshot().Creatures) {
		t.Error("different seeds produced identical founders")
	}
}

func TestStartupDrawOrder(t *testing.T) {
	cfg := testConfig()
	cfg.Terrain.Source = "uniform"
	cfg.Population.Herbivores = 2
	cfg.Population.Carnivores = 1

	var draws []systems.DrawPoint
	newTestSim(t, cfg, Options{Trace: func(p systems.DrawPoint) { draws = append(draws, p) }})

	var want []systems.DrawPoint
	for range cfg.Terrain.NX * cfg.Terrain.NY {
		want = append(want, systems.DrawTerrainCell)
	}
	for range 3 {
		want = append(want, systems.DrawSpawnPosition, systems.DrawSpawnPosition, systems.DrawSpawnSex)
		for range components.NumGenes {
			want = append(want, systems.DrawSpawnGene)
		}
		want = append(want, systems.DrawSpawnHeading)
	}

	if !slices.Equal(draws, want) {
		t.Errorf("startup draws = %v\nwant %v", draws, want)
	}
}

func TestInvariantsHoldOverRun(t *testing.T) {
	cfg := testConfig()
	s := newTestSim(t, cfg, Options{})

	for tick := 1; tick <= 200; tick++ {
		s.Step()

		agents := s.liveSet()
		for i, a := range agents {
			if i > 0 && agents[i-1].Org.ID >= a.Org.ID {
				t.Fatalf("tick %d: live set not in ascending ID order", tick)
			}
			if a.Org.Dead || a.Org.HP <= 0 {
				t.Fatalf("tick %d: creature %d is dead but still present", tick, a.Org.ID)
			}
			if a.Pos.X < 0 || a.Pos.X >= cfg.World.Width || a.Pos.Y < 0 || a.Pos.Y >= cfg.World.Height {
				t.Fatalf("tick %d: creature %d outside the torus at (%g, %g)", tick, a.Org.ID, a.Pos.X, a.Pos.Y)
			}
			for k, g := range a.Genes.Values() {
				if g < 0 || g > 1 {
					t.Fatalf("tick %d: creature %d gene %d = %g outside [0, 1]", tick, a.Org.ID, k, g)
				}
			}
		}

		nf := s.ctx.Nutrition
		for idx, n := range nf.N {
			if n < 0 || n > nf.K[idx] {
				t.Fatalf("tick %d: cell %d nutrition %g outside [0, %g]", tick, idx, n, nf.K[idx])
			}
		}
	}
	if s.Tick() != 200 {
		t.Errorf("Tick() = %d, want 200", s.Tick())
	}
}

func TestCarnivoresAloneStarve(t *testing.T) {
	cfg := testConfig()
	cfg.Population.Herbivores = 0
	cfg.Population.Carnivores = 6
	cfg.Telemetry.Interval = 5
	sink := &recordingSink{}
	s := newTestSim(t, cfg, Options{Sinks: []ReportSink{sink}})

	last := make(map[uint64]float64)
	for _, c := range s.Snapshot().Creatures {
		last[c.ID] = c.Energy
	}

	for tick := 1; tick <= 15; tick++ {
		s.Step()
		for _, c := range s.Snapshot().Creatures {
			prev, ok := last[c.ID]
			if !ok {
				continue
			}
			if c.Energy >= prev {
				t.Fatalf("tick %d: carnivore %d energy %g did not drop from %g", tick, c.ID, c.Energy, prev)
			}
			last[c.ID] = c.Energy
		}
	}

	// A herbivore extinction event accompanies every report row
	if len(sink.reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(sink.reports))
	}
	herbEvents := 0
	for _, e := range sink.extinctions {
		if e.Species == "herbivore" {
			herbEvents++
		}
	}
	if herbEvents != 3 {
		t.Errorf("herbivore extinction events = %d, want 3", herbEvents)
	}
}

func TestReportInterval(t *testing.T) {
	cfg := testConfig()
	cfg.Telemetry.Interval = 10
	sink := &recordingSink{}
	s := newTestSim(t, cfg, Options{Sinks: []ReportSink{sink}})

	s.Run(35)

	var ticks []int
	for _, r := range sink.reports {
		ticks = append(ticks, r.Tick)
	}
	if !slices.Equal(ticks, []int{10, 20, 30}) {
		t.Errorf("report ticks = %v, want [10 20 30]", ticks)
	}
}

func TestReportIntervalZeroDisables(t *testing.T) {
	cfg := testConfig()
	cfg.Telemetry.Interval = 0
	sink := &recordingSink{}
	s := newTestSim(t, cfg, Options{Sinks: []ReportSink{sink}})

	s.Run(20)
	if len(sink.reports) != 0 {
		t.Errorf("got %d reports with interval 0", len(sink.reports))
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestSim(t, testConfig(), Options{})

	snap := s.Snapshot()
	snap.Nutrition[0] = -1
	snap.Elevation[0] = -1
	snap.Creatures[0].HP = -1

	fresh := s.Snapshot()
	if fresh.Nutrition[0] < 0 || fresh.Elevation[0] < 0 || fresh.Creatures[0].HP < 0 {
		t.Error("mutating a snapshot changed simulation state")
	}

	before := s.Snapshot()
	s.Run(5)
	if before.Tick != 0 {
		t.Errorf("old snapshot tick changed to %d", before.Tick)
	}
}

func TestSnapshotCounts(t *testing.T) {
	s := newTestSim(t, testConfig(), Options{})

	snap := s.Snapshot()
	hf, hm, cf, cm := snap.Counts()
	r := s.Report()
	if hf != r.HerbivoreFemales || hm != r.HerbivoreMales || cf != r.CarnivoreFemales || cm != r.CarnivoreMales {
		t.Errorf("Counts() = %d %d %d %d, report = %+v", hf, hm, cf, cm, r)
	}
	if hf+hm != 30 || cf+cm != 10 {
		t.Errorf("species totals = %d, %d", hf+hm, cf+cm)
	}
	if math.Abs(snap.TotalNutrition-r.SumNutrition) > 1e-9 {
		t.Errorf("TotalNutrition = %g, report sum = %g", snap.TotalNutrition, r.SumNutrition)
	}
}

func TestMeteorRemovesEveryoneInRange(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSim(t, testConfig(), Options{Sinks: []ReportSink{sink}})
	s.Run(3)

	before := s.Snapshot()
	killed := s.Meteor(128, 128, 1000, -1)

	if killed != len(before.Creatures) {
		t.Errorf("Meteor killed %d, want all %d", killed, len(before.Creatures))
	}
	if h, c := s.Population(); h != 0 || c != 0 {
		t.Errorf("Population() after meteor = %d, %d, want 0, 0", h, c)
	}
	if after := s.Snapshot(); after.TotalNutrition > before.TotalNutrition {
		t.Errorf("nutrition rose from %g to %g after a negative meteor", before.TotalNutrition, after.TotalNutrition)
	}

	if len(sink.interventions) != 1 {
		t.Fatalf("got %d interventions, want 1", len(sink.interventions))
	}
	iv := sink.interventions[0]
	if iv.Kind != telemetry.InterventionMeteor || iv.Affected != killed || iv.Tick != 3 {
		t.Errorf("intervention = %+v", iv)
	}

	// The garden keeps running with nobody in it
	s.Step()
}

func TestMeteorSparesCreaturesOutOfRange(t *testing.T) {
	s := newTestSim(t, testConfig(), Options{})

	target := s.Snapshot().Creatures[0]
	killed := s.Meteor(target.X, target.Y, 0.001, 0)
	if killed < 1 {
		t.Fatalf("Meteor on creature %d killed nobody", target.ID)
	}

	after := s.Snapshot()
	if len(after.Creatures) != 40-killed {
		t.Errorf("%d creatures left, want %d", len(after.Creatures), 40-killed)
	}
	for _, c := range after.Creatures {
		if c.ID == target.ID {
			t.Errorf("creature %d survived a direct hit", target.ID)
		}
	}
}

func TestDiseaseScalesHitPoints(t *testing.T) {
	cfg := testConfig()
	s := newTestSim(t, cfg, Options{})

	before := s.Snapshot()
	affected := s.Disease(0.5, 0.25)
	if affected != 10 {
		t.Fatalf("Disease sampled %d, want 10 of 40", affected)
	}

	after := s.Snapshot()
	changed := 0
	for i, c := range after.Creatures {
		old := before.Creatures[i]
		switch {
		case c.HP == old.HP:
		case math.Abs(c.HP-old.HP*0.5) < 1e-12:
			changed++
		default:
			t.Errorf("creature %d HP went from %g to %g", c.ID, old.HP, c.HP)
		}
	}
	if changed != affected {
		t.Errorf("%d creatures changed, want %d", changed, affected)
	}
}

func TestDiseaseLethalRemoves(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSim(t, testConfig(), Options{Sinks: []ReportSink{sink}})

	affected := s.Disease(0, 0.5)
	h, c := s.Population()
	if h+c != 40-affected {
		t.Errorf("population %d after lethal disease on %d, want %d", h+c, affected, 40-affected)
	}

	iv := sink.interventions[0]
	if iv.Kind != telemetry.InterventionDisease || iv.Fraction != 0.5 || iv.Amount != 0 {
		t.Errorf("intervention = %+v", iv)
	}
}

func TestDiseaseIsDeterministic(t *testing.T) {
	cfg := testConfig()
	a := newTestSim(t, cfg, Options{})
	b := newTestSim(t, cfg, Options{})

	a.Run(10)
	b.Run(10)
	a.Disease(0.3, 0.4)
	b.Disease(0.3, 0.4)

	if !slices.Equal(a.Snapshot().Creatures, b.Snapshot().Creatures) {
		t.Error("same seed produced different disease outcomes")
	}
}

func TestInjectNutrition(t *testing.T) {
	cfg := testConfig()
	s := newTestSim(t, cfg, Options{})

	before := s.Snapshot()
	s.InjectNutrition(4, 4, 2, -1000)
	after := s.Snapshot()

	idx := 4*after.NY + 4
	if after.Nutrition[idx] != 0 {
		t.Errorf("center cell = %g, want 0 after a large negative injection", after.Nutrition[idx])
	}
	far := 12*after.NY + 12
	if after.Nutrition[far] != before.Nutrition[far] {
		t.Error("cell outside the radius changed")
	}

	s.InjectNutrition(4, 4, 0, 1000)
	if got := s.Snapshot().Nutrition[idx]; got != after.Capacity[idx] {
		t.Errorf("center cell = %g, want capacity %g", got, after.Capacity[idx])
	}
}

func TestOutputsWritten(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Telemetry.Interval = 5
	cfg.Telemetry.WindowTicks = 10

	var windows []telemetry.WindowStats
	s, err := New(cfg, Options{
		OutputDir:     filepath.Join(dir, "out"),
		DBPath:        filepath.Join(dir, "runs.db"),
		Perf:          true,
		StatsCallback: func(ws telemetry.WindowStats) { windows = append(windows, ws) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.Run(20)
	s.Disease(0.9, 0.1)

	if _, ok := s.PerfStats(); !ok {
		t.Error("PerfStats() disabled with Perf set")
	}
	if len(windows) != 2 {
		t.Errorf("got %d stats windows, want 2", len(windows))
	}

	reports, err := s.store.Reports()
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(reports) != 4 {
		t.Errorf("store has %d reports, want 4", len(reports))
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, name := range []string{"config.yaml", "reports.csv", "windows.csv", "interventions.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
