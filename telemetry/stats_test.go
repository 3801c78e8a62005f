package telemetry

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"no creatures", nil, 0.5, 0},
		{"lone survivor", []float64{42}, 0.9, 42},
		{"lowest", []float64{10, 20, 30, 40}, 0, 10},
		{"highest", []float64{10, 20, 30, 40}, 1, 40},
		{"p below range clamps", []float64{10, 20, 30, 40}, -0.5, 10},
		{"p above range clamps", []float64{10, 20, 30, 40}, 1.5, 40},
		{"median on a sample", []float64{10, 20, 30, 40}, 0.5, 20},
		{"interpolates between samples", []float64{10, 20, 30, 40}, 0.625, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if !scalar.EqualWithinAbs(got, tt.want, 1e-9) {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	tests := []struct {
		name                string
		energies            []float64
		mean, p10, p50, p90 float64
	}{
		{
			// Herbivore founders start at 60 and spread out as they graze.
			name:     "herbivores",
			energies: []float64{75, 30, 60, 90, 45, 60, 15, 105, 60, 60},
			mean:     60, p10: 15, p50: 60, p90: 90,
		},
		{
			// A starving carnivore population, including one below zero.
			name:     "carnivores",
			energies: []float64{-5, 20, 5, 10},
			mean:     7.5, p10: -5, p50: 5, p90: 16,
		},
		{
			name:     "no carnivores",
			energies: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float64(nil), tt.energies...)
			mean, p10, p50, p90 := ComputeEnergyStats(in)

			got := []float64{mean, p10, p50, p90}
			want := []float64{tt.mean, tt.p10, tt.p50, tt.p90}
			for i, label := range []string{"mean", "p10", "p50", "p90"} {
				if !scalar.EqualWithinAbs(got[i], want[i], 1e-9) {
					t.Errorf("%s = %v, want %v", label, got[i], want[i])
				}
			}
			for i := range in {
				if in[i] != tt.energies[i] {
					t.Fatal("ComputeEnergyStats reordered its input")
				}
			}
		})
	}
}
