package systems

import (
	"math"
	"slices"
	"testing"

	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/traits"
)

func matingPair() []Creature {
	f := newCreature(1, components.Herbivore, components.Female, 50, 50)
	m := newCreature(2, components.Herbivore, components.Male, 55, 50)
	f.Org.Age, m.Org.Age = 300, 300
	f.Org.Energy, m.Org.Energy = 20, 20
	return []Creature{f, m}
}

func genesInRange(g components.Genes) bool {
	for _, v := range g.Values() {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// ---------- Births ----------

func TestReproduce_BirthCostExact(t *testing.T) {
	f := newCreature(1, components.Herbivore, components.Female, 50, 50)
	f.Org.Pregnant = true
	f.Org.Gestation = 1
	f.Org.Energy = 20
	ctx, _ := newTestContext([]Creature{f})
	p := ctx.Params

	births := Reproduce(ctx)

	if len(births) != 1 {
		t.Fatalf("births = %d, want 1", len(births))
	}
	mother := ctx.Agents[0]
	if mother.Org.Energy != 20-p.BirthCost {
		t.Errorf("mother energy = %g, want %g", mother.Org.Energy, 20-p.BirthCost)
	}
	if mother.Org.Pregnant {
		t.Error("mother still pregnant after birth")
	}

	child := births[0]
	if child.Org.ID != 2 {
		t.Errorf("child ID = %d, want 2", child.Org.ID)
	}
	if child.Org.Species != components.Herbivore {
		t.Errorf("child species = %v", child.Org.Species)
	}
	if child.Org.Energy != p.ChildEnergy || child.Org.Age != 0 {
		t.Errorf("child energy/age = %g/%d", child.Org.Energy, child.Org.Age)
	}
	if child.Vel != (components.Velocity{}) {
		t.Errorf("child velocity = %+v, want zero", child.Vel)
	}
	if want := traits.BaseHP(components.Herbivore) * traits.HPFactor(child.Org.Sex); child.Org.HP != want {
		t.Errorf("child HP = %g, want %g", child.Org.HP, want)
	}
	dx, dy := ctx.World.Delta(50, 50, child.Pos.X, child.Pos.Y)
	if math.Abs(dx) > p.BirthJitter || math.Abs(dy) > p.BirthJitter {
		t.Errorf("child placed at offset (%g, %g)", dx, dy)
	}
	if !genesInRange(child.Genes) {
		t.Errorf("child genes out of range: %+v", child.Genes)
	}
}

func TestReproduce_GestationWaitsForEnergy(t *testing.T) {
	f := newCreature(1, components.Carnivore, components.Female, 50, 50)
	f.Org.Pregnant = true
	f.Org.Gestation = 1
	f.Org.Energy = 6 // equal to birth cost is not enough
	ctx, _ := newTestContext([]Creature{f})

	for tick := 0; tick < 3; tick++ {
		if births := Reproduce(ctx); len(births) != 0 {
			t.Fatalf("tick %d: unexpected birth", tick)
		}
	}
	mother := ctx.Agents[0]
	if !mother.Org.Pregnant || mother.Org.Gestation != -2 {
		t.Errorf("pregnant=%v gestation=%d, want true/-2", mother.Org.Pregnant, mother.Org.Gestation)
	}
}

// ---------- Mating ----------

func TestReproduce_Mating(t *testing.T) {
	ctx, events := newTestContext(matingPair())
	p := ctx.Params

	births := Reproduce(ctx)

	if len(births) != 0 {
		t.Fatalf("unexpected births: %d", len(births))
	}
	f, m := ctx.Agents[0], ctx.Agents[1]
	if !f.Org.Pregnant || f.Org.Gestation != p.GestationTicks {
		t.Errorf("female pregnant=%v gestation=%d", f.Org.Pregnant, f.Org.Gestation)
	}
	if f.Org.Energy != 20-p.FemaleMateCost {
		t.Errorf("female energy = %g", f.Org.Energy)
	}
	if m.Org.Energy != 20-p.MaleMateCost || m.Org.MateCooldown != p.MateCooldownTicks {
		t.Errorf("male energy=%g cooldown=%d", m.Org.Energy, m.Org.MateCooldown)
	}
	if ctx.Paternity[1] != 2 {
		t.Errorf("paternity[1] = %d, want 2", ctx.Paternity[1])
	}
	if events.matings != 1 {
		t.Errorf("matings = %d, want 1", events.matings)
	}
}

func TestReproduce_NoMate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c []Creature)
		draws  int
	}{
		{"male cooling down", func(c []Creature) { c[1].Org.MateCooldown = 5 }, 0},
		{"male too weak", func(c []Creature) { c[1].Org.Energy = 8 }, 0},
		{"male immature", func(c []Creature) { c[1].Org.Age = 10 }, 0},
		{"male out of range", func(c []Creature) { c[1].Pos.X = 61 }, 0},
		{"male dead", func(c []Creature) { c[1].Org.Dead = true }, 0},
		{"female too weak", func(c []Creature) { c[0].Org.Energy = 8 }, 0},
		{"female immature", func(c []Creature) { c[0].Org.Age = 199 }, 0},
		{"female already pregnant", func(c []Creature) {
			c[0].Org.Pregnant = true
			c[0].Org.Gestation = 50
		}, 0},
		{"crowding rejects", func(c []Creature) { c[0].Org.Density = 1000 }, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creatures := matingPair()
			tc.mutate(creatures)
			ctx, events := newTestContext(creatures)
			draws := traceDraws(ctx.Stream)

			Reproduce(ctx)

			if events.matings != 0 {
				t.Error("mating should not happen")
			}
			if len(*draws) != tc.draws {
				t.Errorf("draws = %v, want %d", *draws, tc.draws)
			}
			if _, ok := ctx.Paternity[1]; ok {
				t.Error("paternity recorded without mating")
			}
		})
	}
}

func TestReproduce_LowestIDMaleChosen(t *testing.T) {
	creatures := matingPair()
	closer := newCreature(3, components.Herbivore, components.Male, 51, 50)
	closer.Org.Age, closer.Org.Energy = 300, 20
	creatures = append(creatures, closer)
	ctx, _ := newTestContext(creatures)

	Reproduce(ctx)

	if ctx.Paternity[1] != 2 {
		t.Errorf("father = %d, want 2", ctx.Paternity[1])
	}
	if ctx.Agents[2].Org.MateCooldown != 0 {
		t.Error("unchosen male was charged")
	}
}

func TestReproduce_MaleMatesOncePerTick(t *testing.T) {
	creatures := matingPair()
	second := newCreature(3, components.Herbivore, components.Female, 45, 50)
	second.Org.Age, second.Org.Energy = 300, 20
	creatures = append(creatures, second)
	ctx, events := newTestContext(creatures)

	Reproduce(ctx)

	if events.matings != 1 {
		t.Errorf("matings = %d, want 1", events.matings)
	}
	if ctx.Agents[2].Org.Pregnant {
		t.Error("second female mated with a male on cooldown")
	}
}

func TestReproduce_DrawOrder(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		gene []DrawPoint
	}{
		{"no mutation", 0, []DrawPoint{DrawBlend, DrawMutate}},
		{"always mutate", 1, []DrawPoint{DrawBlend, DrawMutate, DrawMutationNoise}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creatures := matingPair()
			creatures[0].Org.Pregnant = true
			creatures[0].Org.Gestation = 1
			creatures[0].Org.Energy = 30
			ctx, _ := newTestContext(creatures)
			ctx.Params.MutationRate = tc.rate
			draws := traceDraws(ctx.Stream)

			births := Reproduce(ctx)

			var want []DrawPoint
			for k := 0; k < components.NumGenes; k++ {
				want = append(want, tc.gene...)
			}
			want = append(want, DrawChildSex, DrawJitter, DrawJitter, DrawMateAccept)
			if !slices.Equal(*draws, want) {
				t.Errorf("draws =\n%v\nwant\n%v", *draws, want)
			}
			if len(births) != 1 || !ctx.Agents[0].Org.Pregnant {
				t.Error("expected a birth followed by a new mating")
			}
		})
	}
}

// ---------- Genetics ----------

func TestSpawnChild_Paternity(t *testing.T) {
	tests := []struct {
		name       string
		father     uint64
		fatherDead bool
		wantSelf   bool
	}{
		{"no record", 0, false, true},
		{"father gone", 99, false, true},
		{"father dead this tick", 2, true, true},
		{"father alive", 2, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mother := newCreature(1, components.Herbivore, components.Female, 50, 50)
			father := newCreature(2, components.Herbivore, components.Male, 52, 50)
			father.Genes = components.Genes{Speed: 1, Vision: 1, Attack: 1, Repro: 1, Size: 1}
			father.Org.Dead = tc.fatherDead
			ctx, _ := newTestContext([]Creature{mother, father})
			ctx.Params.MutationRate = 0
			if tc.father != 0 {
				ctx.Paternity[1] = tc.father
			}

			child := SpawnChild(ctx, ctx.Agents[0])

			vals := child.Genes.Values()
			for k, v := range vals {
				if tc.wantSelf && math.Abs(v-0.5) > 1e-12 {
					t.Errorf("gene %d = %g, want 0.5 from self-crossover", k, v)
				}
				if !tc.wantSelf && (v < 0.5 || v > 1) {
					t.Errorf("gene %d = %g, want within parents' range", k, v)
				}
			}
		})
	}
}

func TestCrossover_StaysInRange(t *testing.T) {
	s := NewStream(21)
	lo := components.Genes{}
	hi := components.Genes{Speed: 1, Vision: 1, Attack: 1, Repro: 1, Size: 1}
	for n := 0; n < 500; n++ {
		g := Crossover(lo, hi, s, 1, 10)
		if !genesInRange(g) {
			t.Fatalf("crossover produced %+v", g)
		}
	}
}

func TestSpawnFounder(t *testing.T) {
	s := NewStream(4)
	draws := traceDraws(s)
	w := NewWorld(1024, 768)
	ids := NewIDGenerator()

	c := SpawnFounder(components.Carnivore, w, s, ids)

	want := []DrawPoint{DrawSpawnPosition, DrawSpawnPosition, DrawSpawnSex}
	for k := 0; k < components.NumGenes; k++ {
		want = append(want, DrawSpawnGene)
	}
	want = append(want, DrawSpawnHeading)
	if !slices.Equal(*draws, want) {
		t.Errorf("draws = %v, want %v", *draws, want)
	}

	if c.Org.ID != 1 || ids.Peek() != 2 {
		t.Errorf("ID = %d, next = %d", c.Org.ID, ids.Peek())
	}
	if c.Pos.X < 0 || c.Pos.X >= w.Width || c.Pos.Y < 0 || c.Pos.Y >= w.Height {
		t.Errorf("position %+v outside world", c.Pos)
	}
	if c.Org.Energy != traits.BaseEnergy(components.Carnivore) {
		t.Errorf("energy = %g", c.Org.Energy)
	}
	speed := math.Hypot(c.Vel.X, c.Vel.Y)
	if want := 0.2 * traits.Speed(c.Genes, c.Org.Sex); math.Abs(speed-want) > 1e-9 {
		t.Errorf("initial speed = %g, want %g", speed, want)
	}
}

func TestFemaleMateMin(t *testing.T) {
	p := testParams()
	lowRepro := components.Genes{Repro: 0}
	highRepro := components.Genes{Repro: 1}

	if got := FemaleMateMin(p, lowRepro); got != p.FemaleMateMin {
		t.Errorf("threshold off: got %g", got)
	}

	p.GeneReproThreshold = true
	if got, want := FemaleMateMin(p, lowRepro), 8/0.7; math.Abs(got-want) > 1e-9 {
		t.Errorf("low repro: got %g, want %g", got, want)
	}
	if got := FemaleMateMin(p, highRepro); got != p.FemaleMateMin {
		t.Errorf("high repro: got %g, want %g", got, p.FemaleMateMin)
	}
}

func TestMateAcceptance(t *testing.T) {
	p := testParams()
	if got := MateAcceptance(p, p.Rho0-5); got != 1 {
		t.Errorf("below rho0: %g, want 1", got)
	}
	if got, want := MateAcceptance(p, p.Rho0+10), math.Exp(-p.AMate*10); math.Abs(got-want) > 1e-12 {
		t.Errorf("above rho0: %g, want %g", got, want)
	}
}

func TestPrunePaternity(t *testing.T) {
	paternity := map[uint64]uint64{1: 2, 3: 4, 5: 6}
	PrunePaternity(paternity, func(id uint64) bool { return id != 3 })

	if _, ok := paternity[3]; ok || len(paternity) != 2 {
		t.Errorf("paternity = %v", paternity)
	}
}
