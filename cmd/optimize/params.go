// Package main provides CMA-ES optimization for EvoGarden parameters.
package main

import (
	"github.com/pthm-cable/evogarden/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Config key, used for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound

	// ref returns the config field the parameter controls
	ref func(cfg *config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Grazing
			{Name: "eat_rate", Min: 0.2, Max: 2.0, ref: func(c *config.Config) *float64 { return &c.Params.EatRate }},
			{Name: "eta_eat", Min: 0.3, Max: 1.5, ref: func(c *config.Config) *float64 { return &c.Params.EtaEat }},
			// Predation
			{Name: "bite_cost", Min: 0.2, Max: 4.0, ref: func(c *config.Config) *float64 { return &c.Params.BiteCost }},
			{Name: "prey_energy_gain", Min: 4, Max: 40, ref: func(c *config.Config) *float64 { return &c.Params.PreyEnergyGain }},
			{Name: "predation_reach", Min: 0.5, Max: 10, ref: func(c *config.Config) *float64 { return &c.Params.PredationReach }},
			// Metabolism
			{Name: "basal_cost", Min: 0.005, Max: 0.2, ref: func(c *config.Config) *float64 { return &c.Params.BasalCost }},
			{Name: "move_cost", Min: 0.002, Max: 0.08, ref: func(c *config.Config) *float64 { return &c.Params.MoveCost }},
			{Name: "crowd_cost", Min: 0, Max: 0.1, ref: func(c *config.Config) *float64 { return &c.Params.CrowdCost }},
			// Reproduction
			{Name: "mate_radius", Min: 3, Max: 30, ref: func(c *config.Config) *float64 { return &c.Params.MateRadius }},
			{Name: "birth_cost", Min: 1, Max: 12, ref: func(c *config.Config) *float64 { return &c.Params.BirthCost }},
			{Name: "a_mate", Min: 0.01, Max: 0.5, ref: func(c *config.Config) *float64 { return &c.Params.AMate }},
			{Name: "child_energy", Min: 1, Max: 10, ref: func(c *config.Config) *float64 { return &c.Params.ChildEnergy }},
			// Nutrition
			{Name: "r0", Min: 0.005, Max: 0.1, ref: func(c *config.Config) *float64 { return &c.Nutrition.R0 }},
			{Name: "k0", Min: 2, Max: 30, ref: func(c *config.Config) *float64 { return &c.Nutrition.K0 }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Extract reads the current parameter values from a config.
func (pv *ParamVector) Extract(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = *spec.ref(cfg)
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].ref(cfg) = v
	}
}
