package systems

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/evogarden/config"
)

// Terrain holds the immutable elevation and productivity lattices.
// Grids are flat, indexed i*NY + j with i along x and j along y.
type Terrain struct {
	NX, NY       int
	Elevation    []float64
	Productivity []float64
}

// GenerateTerrain builds elevation from the stream and derives productivity.
func GenerateTerrain(cfg config.TerrainConfig, stream *Stream) *Terrain {
	var elev []float64
	if cfg.Source == "simplex" {
		elev = simplexField(cfg.NX, cfg.NY, cfg.NoiseScale, stream.Int63(DrawTerrainSeed))
	} else {
		elev = uniformField(cfg.NX, cfg.NY, stream)
	}
	for p := 0; p < cfg.SmoothingPasses; p++ {
		elev = SmoothWrap(elev, cfg.NX, cfg.NY)
	}
	Normalize(elev)

	return &Terrain{
		NX:           cfg.NX,
		NY:           cfg.NY,
		Elevation:    elev,
		Productivity: ProductivityFromElevation(elev, cfg.E0, cfg.CMountain),
	}
}

func uniformField(nx, ny int, stream *Stream) []float64 {
	field := make([]float64, nx*ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			field[i*ny+j] = stream.Float64(DrawTerrainCell)
		}
	}
	return field
}

// simplexField samples 4-D noise on a torus embedding so the field tiles.
func simplexField(nx, ny int, scale float64, seed int64) []float64 {
	noise := opensimplex.NewNormalized(seed)
	field := make([]float64, nx*ny)
	for i := 0; i < nx; i++ {
		u := 2 * math.Pi * float64(i) / float64(nx)
		for j := 0; j < ny; j++ {
			v := 2 * math.Pi * float64(j) / float64(ny)
			field[i*ny+j] = noise.Eval4(
				scale*math.Cos(u), scale*math.Sin(u),
				scale*math.Cos(v), scale*math.Sin(v),
			)
		}
	}
	return field
}

// SmoothWrap returns a new grid where each cell is the mean of itself and its
// four toroidal neighbors. The input is not modified.
func SmoothWrap(field []float64, nx, ny int) []float64 {
	out := make([]float64, len(field))
	for i := 0; i < nx; i++ {
		ip, im := modInt(i+1, nx), modInt(i-1, nx)
		for j := 0; j < ny; j++ {
			jp, jm := modInt(j+1, ny), modInt(j-1, ny)
			out[i*ny+j] = (field[i*ny+j] + field[ip*ny+j] + field[im*ny+j] +
				field[i*ny+jp] + field[i*ny+jm]) / 5.0
		}
	}
	return out
}

// Normalize min-max rescales field to [0,1] in place.
func Normalize(field []float64) {
	if len(field) == 0 {
		return
	}
	lo, hi := floats.Min(field), floats.Max(field)
	span := math.Max(1e-8, hi-lo)
	floats.AddConst(-lo, field)
	floats.Scale(1/span, field)
}

// ProductivityFromElevation maps elevation through an inverted parabola peaking at e0.
func ProductivityFromElevation(elev []float64, e0, c float64) []float64 {
	out := make([]float64, len(elev))
	for i, e := range elev {
		d := e - e0
		out[i] = clamp01(1 - c*d*d)
	}
	return out
}

// Slope returns the central-difference gradient magnitude of elevation at (i,j).
func (t *Terrain) Slope(i, j int) float64 {
	ip, im := modInt(i+1, t.NX), modInt(i-1, t.NX)
	jp, jm := modInt(j+1, t.NY), modInt(j-1, t.NY)
	dx := 0.5 * (t.Elevation[ip*t.NY+j] - t.Elevation[im*t.NY+j])
	dy := 0.5 * (t.Elevation[i*t.NY+jp] - t.Elevation[i*t.NY+jm])
	return math.Sqrt(dx*dx + dy*dy)
}
