package components

// Position represents a creature's world position, always wrapped into the torus.
type Position struct {
	X, Y float64
}

// Velocity represents the displacement applied on the next move, in world units per tick.
type Velocity struct {
	X, Y float64
}
