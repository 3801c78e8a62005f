package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/evogarden/components"
)

// Sample is the part of a living creature that reports and windows read.
type Sample struct {
	Species components.Species
	Sex     components.Sex
	Energy  float64
	Genes   components.Genes
}

// Report is one periodic population row.
type Report struct {
	Tick int `csv:"tick" db:"tick"`

	HerbivoreFemales int `csv:"H_F" db:"h_f"`
	HerbivoreMales   int `csv:"H_M" db:"h_m"`
	CarnivoreFemales int `csv:"C_F" db:"c_f"`
	CarnivoreMales   int `csv:"C_M" db:"c_m"`

	SumNutrition float64 `csv:"sum_nutrition" db:"sum_nutrition"`

	// Mean genes per species; zero when the species is absent
	HSpeed  float64 `csv:"H_g_speed" db:"h_g_speed"`
	HVision float64 `csv:"H_g_vision" db:"h_g_vision"`
	HAttack float64 `csv:"H_g_attack" db:"h_g_attack"`
	HRepro  float64 `csv:"H_g_repro" db:"h_g_repro"`
	HSize   float64 `csv:"H_g_size" db:"h_g_size"`
	CSpeed  float64 `csv:"C_g_speed" db:"c_g_speed"`
	CVision float64 `csv:"C_g_vision" db:"c_g_vision"`
	CAttack float64 `csv:"C_g_attack" db:"c_g_attack"`
	CRepro  float64 `csv:"C_g_repro" db:"c_g_repro"`
	CSize   float64 `csv:"C_g_size" db:"c_g_size"`
}

// NewReport aggregates the living population at a tick.
func NewReport(tick int, sumNutrition float64, samples []Sample) Report {
	r := Report{Tick: tick, SumNutrition: sumNutrition}

	var herb, carn [components.NumGenes][]float64
	for _, s := range samples {
		vals := s.Genes.Values()
		switch {
		case s.Species == components.Herbivore && s.Sex == components.Female:
			r.HerbivoreFemales++
		case s.Species == components.Herbivore:
			r.HerbivoreMales++
		case s.Sex == components.Female:
			r.CarnivoreFemales++
		default:
			r.CarnivoreMales++
		}
		for k, v := range vals {
			if s.Species == components.Herbivore {
				herb[k] = append(herb[k], v)
			} else {
				carn[k] = append(carn[k], v)
			}
		}
	}

	hm := geneMeans(herb)
	cm := geneMeans(carn)
	r.HSpeed, r.HVision, r.HAttack, r.HRepro, r.HSize = hm[0], hm[1], hm[2], hm[3], hm[4]
	r.CSpeed, r.CVision, r.CAttack, r.CRepro, r.CSize = cm[0], cm[1], cm[2], cm[3], cm[4]
	return r
}

func geneMeans(cols [components.NumGenes][]float64) [components.NumGenes]float64 {
	var out [components.NumGenes]float64
	for k, c := range cols {
		if len(c) > 0 {
			out[k] = stat.Mean(c, nil)
		}
	}
	return out
}

// Herbivores returns the herbivore head count.
func (r Report) Herbivores() int { return r.HerbivoreFemales + r.HerbivoreMales }

// Carnivores returns the carnivore head count.
func (r Report) Carnivores() int { return r.CarnivoreFemales + r.CarnivoreMales }

// Extinctions lists the species with no living members in this row.
func (r Report) Extinctions() []Extinction {
	var out []Extinction
	if r.Herbivores() == 0 {
		out = append(out, Extinction{Tick: r.Tick, Species: components.Herbivore.Name()})
	}
	if r.Carnivores() == 0 {
		out = append(out, Extinction{Tick: r.Tick, Species: components.Carnivore.Name()})
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging. Gene keys match
// the CSV columns.
func (r Report) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("tick", r.Tick),
		slog.Int("H_F", r.HerbivoreFemales),
		slog.Int("H_M", r.HerbivoreMales),
		slog.Int("C_F", r.CarnivoreFemales),
		slog.Int("C_M", r.CarnivoreMales),
		slog.Float64("sum_nutrition", r.SumNutrition),
	}
	herb := [components.NumGenes]float64{r.HSpeed, r.HVision, r.HAttack, r.HRepro, r.HSize}
	carn := [components.NumGenes]float64{r.CSpeed, r.CVision, r.CAttack, r.CRepro, r.CSize}
	for k, name := range components.GeneNames() {
		attrs = append(attrs, slog.Float64("H_g_"+name, herb[k]))
	}
	for k, name := range components.GeneNames() {
		attrs = append(attrs, slog.Float64("C_g_"+name, carn[k]))
	}
	return slog.GroupValue(attrs...)
}
