// Package telemetry provides population reports, windowed event stats,
// bookmarks, performance timing, and CSV/SQLite output.
package telemetry

import "log/slog"

// Extinction records a report row in which a species had no living members.
type Extinction struct {
	Tick    int    `csv:"tick" db:"tick"`
	Species string `csv:"species" db:"species"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e Extinction) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", e.Tick),
		slog.String("species", e.Species),
	)
}

// InterventionKind identifies an external mutation of the world.
type InterventionKind string

const (
	InterventionInject  InterventionKind = "inject"
	InterventionDisease InterventionKind = "disease"
	InterventionMeteor  InterventionKind = "meteor"
)

// Intervention records one external mutation applied between ticks.
type Intervention struct {
	Tick     int              `csv:"tick" db:"tick"`
	Kind     InterventionKind `csv:"kind" db:"kind"`
	X        float64          `csv:"x" db:"x"`
	Y        float64          `csv:"y" db:"y"`
	Radius   float64          `csv:"radius" db:"radius"`
	Amount   float64          `csv:"amount" db:"amount"`     // nutrition delta, or damage factor for disease
	Fraction float64          `csv:"fraction" db:"fraction"` // sampled share of the population (disease only)
	Affected int              `csv:"affected" db:"affected"`
}

// LogValue implements slog.LogValuer for structured logging.
func (iv Intervention) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", iv.Tick),
		slog.String("kind", string(iv.Kind)),
		slog.Float64("x", iv.X),
		slog.Float64("y", iv.Y),
		slog.Float64("radius", iv.Radius),
		slog.Float64("amount", iv.Amount),
		slog.Float64("fraction", iv.Fraction),
		slog.Int("affected", iv.Affected),
	)
}
