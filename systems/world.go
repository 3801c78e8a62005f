package systems

import "math"

// World is the immutable torus all positional arithmetic routes through.
// Raw subtraction of positions is wrong near the edges; use Delta.
type World struct {
	Width, Height float64
}

// NewWorld creates a torus of the given size.
func NewWorld(width, height float64) World {
	return World{Width: width, Height: height}
}

// WrapScalar maps a delta into (-length/2, length/2].
func WrapScalar(d, length float64) float64 {
	half := length / 2
	r := math.Mod(half-d, length)
	if r < 0 {
		r += length
	}
	return half - r
}

// Delta returns the shortest signed displacement from (x1,y1) to (x2,y2).
func (w World) Delta(x1, y1, x2, y2 float64) (dx, dy float64) {
	return WrapScalar(x2-x1, w.Width), WrapScalar(y2-y1, w.Height)
}

// Distance returns the toroidal Euclidean distance. It is exactly symmetric
// in its endpoints, so radius checks agree whichever creature is self.
func (w World) Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(axisSpan(x2-x1, w.Width), axisSpan(y2-y1, w.Height))
}

// axisSpan returns the unsigned shortest separation along one axis. |d| is
// the same for both orderings of the endpoints, unlike the signed wrap.
func axisSpan(d, length float64) float64 {
	m := math.Mod(math.Abs(d), length)
	return math.Min(m, length-m)
}

// WrapPosition normalizes an absolute position into [0,W) x [0,H).
func (w World) WrapPosition(x, y float64) (float64, float64) {
	return wrapCoord(x, w.Width), wrapCoord(y, w.Height)
}

// CellOf returns the lattice cell containing a world position.
func (w World) CellOf(x, y float64, nx, ny int) (i, j int) {
	i = modInt(int(x/w.Width*float64(nx)), nx)
	j = modInt(int(y/w.Height*float64(ny)), ny)
	return i, j
}

func wrapCoord(v, length float64) float64 {
	r := math.Mod(v, length)
	if r < 0 {
		r += length
	}
	// math.Mod of a tiny negative can round up to length
	if r >= length {
		r = 0
	}
	return r
}
