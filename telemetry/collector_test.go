package telemetry

import (
	"testing"

	"github.com/pthm-cable/evogarden/components"
)

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(100)

	if c.ShouldFlush(99) {
		t.Error("flushed before window elapsed")
	}
	if !c.ShouldFlush(100) {
		t.Error("did not flush at window end")
	}

	c.Flush(100, 0, nil)
	if c.ShouldFlush(150) {
		t.Error("window start not advanced after flush")
	}
	if !c.ShouldFlush(200) {
		t.Error("second window did not flush")
	}
}

func TestCollector_FlushCountsAndResets(t *testing.T) {
	c := NewCollector(10)

	c.RecordBite(false)
	c.RecordBite(true)
	c.RecordBite(true)
	c.RecordMating()
	c.RecordBirth(components.Herbivore)
	c.RecordBirth(components.Herbivore)
	c.RecordBirth(components.Carnivore)
	c.RecordDeath(components.Carnivore)

	samples := []Sample{
		{Species: components.Herbivore, Energy: 10},
		{Species: components.Herbivore, Energy: 20},
		{Species: components.Carnivore, Energy: 5},
	}
	s := c.Flush(10, 42, samples)

	if s.Bites != 3 || s.Kills != 2 {
		t.Errorf("bites/kills = %d/%d, want 3/2", s.Bites, s.Kills)
	}
	if s.KillRate < 0.666 || s.KillRate > 0.667 {
		t.Errorf("kill rate = %v, want 2/3", s.KillRate)
	}
	if s.Matings != 1 {
		t.Errorf("matings = %d, want 1", s.Matings)
	}
	if s.HerbivoreBirths != 2 || s.CarnivoreBirths != 1 || s.HerbivoreDeaths != 0 || s.CarnivoreDeaths != 1 {
		t.Errorf("births/deaths = %d/%d/%d/%d", s.HerbivoreBirths, s.CarnivoreBirths, s.HerbivoreDeaths, s.CarnivoreDeaths)
	}
	if s.Herbivores != 2 || s.Carnivores != 1 {
		t.Errorf("population = %d/%d, want 2/1", s.Herbivores, s.Carnivores)
	}
	if s.HerbEnergyMean != 15 || s.CarnEnergyMean != 5 {
		t.Errorf("energy means = %v/%v, want 15/5", s.HerbEnergyMean, s.CarnEnergyMean)
	}
	if s.SumNutrition != 42 || s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("window fields = %+v", s)
	}

	next := c.Flush(20, 0, nil)
	if next.Bites != 0 || next.Matings != 0 || next.HerbivoreBirths != 0 || next.CarnivoreDeaths != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartTick != 10 {
		t.Errorf("window start = %d, want 10", next.WindowStartTick)
	}
}

func TestCollector_MinimumWindow(t *testing.T) {
	if got := NewCollector(0).WindowTicks(); got != 1 {
		t.Errorf("WindowTicks() = %d, want 1", got)
	}
}
