package telemetry

import "github.com/pthm-cable/evogarden/components"

// Collector accumulates events within tick windows and produces WindowStats.
// It satisfies the simulation's event hook and never mutates what it is told.
type Collector struct {
	windowTicks int

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	herbBirths int
	carnBirths int
	herbDeaths int
	carnDeaths int
	bites      int
	kills      int
	matings    int
}

// NewCollector creates a collector whose windows span windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordBite records a predation event.
func (c *Collector) RecordBite(killed bool) {
	c.bites++
	if killed {
		c.kills++
	}
}

// RecordMating records an accepted mating.
func (c *Collector) RecordMating() {
	c.matings++
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(species components.Species) {
	if species == components.Herbivore {
		c.herbBirths++
	} else {
		c.carnBirths++
	}
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(species components.Species) {
	if species == components.Herbivore {
		c.herbDeaths++
	} else {
		c.carnDeaths++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the living population and resets
// counters for the next window.
func (c *Collector) Flush(currentTick int, sumNutrition float64, samples []Sample) WindowStats {
	var herbEnergies, carnEnergies []float64
	for _, s := range samples {
		if s.Species == components.Herbivore {
			herbEnergies = append(herbEnergies, s.Energy)
		} else {
			carnEnergies = append(carnEnergies, s.Energy)
		}
	}

	var killRate float64
	if c.bites > 0 {
		killRate = float64(c.kills) / float64(c.bites)
	}

	herbMean, herbP10, herbP50, herbP90 := ComputeEnergyStats(herbEnergies)
	carnMean, carnP10, carnP50, carnP90 := ComputeEnergyStats(carnEnergies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Herbivores: len(herbEnergies),
		Carnivores: len(carnEnergies),

		HerbivoreBirths: c.herbBirths,
		CarnivoreBirths: c.carnBirths,
		HerbivoreDeaths: c.herbDeaths,
		CarnivoreDeaths: c.carnDeaths,

		Bites:    c.bites,
		Kills:    c.kills,
		KillRate: killRate,
		Matings:  c.matings,

		HerbEnergyMean: herbMean,
		HerbEnergyP10:  herbP10,
		HerbEnergyP50:  herbP50,
		HerbEnergyP90:  herbP90,

		CarnEnergyMean: carnMean,
		CarnEnergyP10:  carnP10,
		CarnEnergyP50:  carnP50,
		CarnEnergyP90:  carnP90,

		SumNutrition: sumNutrition,
	}

	c.windowStartTick = currentTick
	c.herbBirths, c.carnBirths = 0, 0
	c.herbDeaths, c.carnDeaths = 0, 0
	c.bites, c.kills, c.matings = 0, 0, 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
