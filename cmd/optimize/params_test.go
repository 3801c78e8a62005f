package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/evogarden/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.Extract(config.Defaults())

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %g -> %g", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = 1e9
	}
	pv.ApplyToConfig(cfg, values)

	got := pv.Extract(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Max {
			t.Errorf("%s = %g, want max %g", spec.Name, got[i], spec.Max)
		}
	}
}

func TestApplyToConfigLeavesOthers(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()
	want := cfg.Params.MutationSigma

	pv.ApplyToConfig(cfg, pv.Extract(cfg))
	if cfg.Params.MutationSigma != want {
		t.Errorf("mutation_sigma changed to %g", cfg.Params.MutationSigma)
	}
}

func TestQualityNeedsBothSpecies(t *testing.T) {
	fe := &FitnessEvaluator{}
	if q := fe.computeQuality(nil); q != 0 {
		t.Errorf("quality of no windows = %g, want 0", q)
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	if got := cv([]float64{5, 5, 5}); got != 0 {
		t.Errorf("cv of constant series = %g, want 0", got)
	}
	if got := cv([]float64{0, 0}); got != 0 {
		t.Errorf("cv of zero series = %g, want 0", got)
	}
	if got := cv([]float64{1, 3}); got <= 0 {
		t.Errorf("cv of varying series = %g, want > 0", got)
	}
}
