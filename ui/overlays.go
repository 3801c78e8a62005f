package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayNutrition OverlayID = "nutrition"
	OverlayCapacity  OverlayID = "capacity"
	OverlayElevation OverlayID = "elevation"
	OverlayVelocity  OverlayID = "velocity"
	OverlayHealth    OverlayID = "health"
	OverlayGrid      OverlayID = "grid"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "N", "E")
	Category    string      // Grouping ("field", "creature", "debug")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID
}

// NewOverlayRegistry creates a registry with default overlays. The
// nutrition field is shown initially.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.SetEnabled(OverlayNutrition, true)
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	// The background shows one lattice field at a time
	fields := []OverlayID{OverlayNutrition, OverlayCapacity, OverlayElevation}
	others := func(id OverlayID) []OverlayID {
		var out []OverlayID
		for _, f := range fields {
			if f != id {
				out = append(out, f)
			}
		}
		return out
	}

	r.Register(OverlayDescriptor{
		ID:          OverlayNutrition,
		Name:        "Nutrition",
		Description: "Shade lattice cells by current nutrition",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "field",
		Exclusive:   others(OverlayNutrition),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayCapacity,
		Name:        "Capacity",
		Description: "Shade lattice cells by carrying capacity",
		Key:         rl.KeyK,
		KeyLabel:    "K",
		Category:    "field",
		Exclusive:   others(OverlayCapacity),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayElevation,
		Name:        "Elevation",
		Description: "Shade lattice cells by terrain height",
		Key:         rl.KeyE,
		KeyLabel:    "E",
		Category:    "field",
		Exclusive:   others(OverlayElevation),
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayVelocity,
		Name:        "Velocity",
		Description: "Draw each creature's velocity vector",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "creature",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayHealth,
		Name:        "Health",
		Description: "Fade creatures by remaining hit points",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "creature",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayGrid,
		Name:        "Lattice Grid",
		Description: "Outline lattice cells",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// Keys returns every key bound to an overlay.
func (r *OverlayRegistry) Keys() []int32 {
	var keys []int32
	for _, desc := range r.descriptors {
		if desc.Key != 0 {
			keys = append(keys, desc.Key)
		}
	}
	return keys
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
