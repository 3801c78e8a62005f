// Package systems provides the world model and the per-tick phases of the simulation.
package systems

import (
	"math"
)

// SpatialGrid buckets agents on a uniform grid over the torus.
//
// QueryRadius is a conservative superset query: it returns every agent whose
// toroidal distance is <= radius, plus anything else sharing a scanned bucket.
// Callers doing exact-radius logic must re-filter by World.Distance.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int // flat grid of agent indices

	// A partial last bucket on an axis lets a short wrapped path cross one
	// extra bucket boundary, so queries scan one more bucket on that axis.
	padCols int
	padRows int

	// Scratch for the scanned window
	colBuf []int
	rowBuf []int
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(world World, cellSize float64) *SpatialGrid {
	cols := max(1, int(math.Ceil(world.Width/cellSize)))
	rows := max(1, int(math.Ceil(world.Height/cellSize)))

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		padCols:  seamPad(world.Width, cellSize, cols),
		padRows:  seamPad(world.Height, cellSize, rows),
	}
}

// Dims returns the bucket grid dimensions.
func (g *SpatialGrid) Dims() (cols, rows int) {
	return g.cols, g.rows
}

// Clear removes all agents from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Rebuild clears the grid and inserts every alive agent, keyed by slice index.
// Buckets preserve slice order.
func (g *SpatialGrid) Rebuild(agents []Agent) {
	g.Clear()
	for i, a := range agents {
		if a.Org.Dead {
			continue
		}
		g.insert(i, a.Pos.X, a.Pos.Y)
	}
}

func (g *SpatialGrid) insert(idx int, x, y float64) {
	col, row := g.bucket(x, y)
	b := row*g.cols + col
	g.cells[b] = append(g.cells[b], idx)
}

func (g *SpatialGrid) bucket(x, y float64) (col, row int) {
	col = modInt(int(math.Floor(x/g.cellSize)), g.cols)
	row = modInt(int(math.Floor(y/g.cellSize)), g.rows)
	return col, row
}

// QueryRadiusInto appends the indices of all agents in buckets within
// ceil(radius/cellSize) of (x,y) to dst. Each bucket is scanned once even when
// the window wraps past itself. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []int, x, y, radius float64) []int {
	reach := int(math.Ceil(radius / g.cellSize))
	cx, cy := g.bucket(x, y)

	g.colBuf = window(g.colBuf[:0], cx, reach+g.padCols, g.cols)
	g.rowBuf = window(g.rowBuf[:0], cy, reach+g.padRows, g.rows)

	for _, col := range g.colBuf {
		for _, row := range g.rowBuf {
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}
	return dst
}

// QueryRadius returns the candidate agent indices near (x,y).
func (g *SpatialGrid) QueryRadius(x, y, radius float64) []int {
	return g.QueryRadiusInto(nil, x, y, radius)
}

func seamPad(length, cellSize float64, n int) int {
	if math.Abs(float64(n)*cellSize-length) > 1e-9*length {
		return 1
	}
	return 0
}

// window lists the distinct wrapped coordinates center-reach..center+reach.
func window(dst []int, center, reach, n int) []int {
	if 2*reach+1 >= n {
		for k := 0; k < n; k++ {
			dst = append(dst, k)
		}
		return dst
	}
	for d := -reach; d <= reach; d++ {
		dst = append(dst, modInt(center+d, n))
	}
	return dst
}
