package systems

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/evogarden/config"
)

// capacityEpsilon floors k in the logistic term.
const capacityEpsilon = 1e-8

// NutritionField is the forage grid: logistic regrowth toward a per-cell
// capacity plus 5-point toroidal diffusion. Every mutator keeps 0 <= N <= K.
type NutritionField struct {
	NX, NY int

	R []float64 // intrinsic growth rate, immutable
	K []float64 // carrying capacity, immutable
	N []float64 // current nutrition

	Diffusion float64

	// Scratch buffer for the synchronous update
	tmp []float64
}

// NewNutritionField derives rates and capacities from productivity.
func NewNutritionField(productivity []float64, nx, ny int, cfg config.NutritionConfig) *NutritionField {
	nf := &NutritionField{
		NX:        nx,
		NY:        ny,
		R:         make([]float64, nx*ny),
		K:         make([]float64, nx*ny),
		N:         make([]float64, nx*ny),
		Diffusion: cfg.Diffusion,
		tmp:       make([]float64, nx*ny),
	}
	for idx, p := range productivity {
		nf.R[idx] = cfg.R0 * p
		nf.K[idx] = cfg.K0*p + cfg.KMin
		nf.N[idx] = cfg.InitFill * nf.K[idx]
	}
	return nf
}

// Index returns the flat index of cell (i,j).
func (nf *NutritionField) Index(i, j int) int {
	return i*nf.NY + j
}

// At returns the nutrition in cell (i,j).
func (nf *NutritionField) At(i, j int) float64 {
	return nf.N[i*nf.NY+j]
}

// Update advances the field one step. All new values are computed from the
// previous grid before any are committed.
func (nf *NutritionField) Update() {
	nx, ny := nf.NX, nf.NY
	src := nf.N
	dst := nf.tmp

	for i := 0; i < nx; i++ {
		ip, im := modInt(i+1, nx), modInt(i-1, nx)
		for j := 0; j < ny; j++ {
			jp, jm := modInt(j+1, ny), modInt(j-1, ny)

			idx := i*ny + j
			n := src[idx]
			k := nf.K[idx]
			growth := nf.R[idx] * n * (1 - n/math.Max(k, capacityEpsilon))
			lap := src[ip*ny+j] + src[im*ny+j] + src[i*ny+jp] + src[i*ny+jm] - 4*n

			dst[idx] = clamp(n+growth+nf.Diffusion*lap, 0, k)
		}
	}

	nf.N, nf.tmp = dst, src
}

// InjectCircle adds delta to every cell within radiusCells of (cx,cy), measured
// in cell units with per-axis wrap, clamping each result to [0,k].
func (nf *NutritionField) InjectCircle(cx, cy, radiusCells, delta float64) {
	r2 := radiusCells * radiusCells
	for i := 0; i < nf.NX; i++ {
		di := math.Abs(float64(i) - cx)
		di = math.Min(di, float64(nf.NX)-di)
		for j := 0; j < nf.NY; j++ {
			dj := math.Abs(float64(j) - cy)
			dj = math.Min(dj, float64(nf.NY)-dj)
			if di*di+dj*dj <= r2 {
				idx := i*nf.NY + j
				nf.N[idx] = clamp(nf.N[idx]+delta, 0, nf.K[idx])
			}
		}
	}
}

// Consume removes up to want from cell (i,j) and returns the amount removed.
func (nf *NutritionField) Consume(i, j int, want float64) float64 {
	if want <= 0 {
		return 0
	}
	idx := i*nf.NY + j
	take := math.Min(nf.N[idx], want)
	nf.N[idx] -= take
	return take
}

// Total returns the summed nutrition, for reporting only.
func (nf *NutritionField) Total() float64 {
	return floats.Sum(nf.N)
}
