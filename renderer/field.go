package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evogarden/camera"
)

// Ramp maps a normalized value in [0, 1] to a color.
type Ramp func(v float64) color.RGBA

// NutritionRamp shades from bare soil to dense growth.
func NutritionRamp(v float64) color.RGBA {
	return lerpColor(color.RGBA{R: 28, G: 22, B: 16, A: 255}, color.RGBA{R: 70, G: 170, B: 60, A: 255}, v)
}

// CapacityRamp shades carrying capacity from poor to rich.
func CapacityRamp(v float64) color.RGBA {
	return lerpColor(color.RGBA{R: 20, G: 20, B: 35, A: 255}, color.RGBA{R: 210, G: 190, B: 90, A: 255}, v)
}

// ElevationRamp shades lowland blue, midland brown, and peaks pale.
func ElevationRamp(v float64) color.RGBA {
	if v < 0.5 {
		return lerpColor(color.RGBA{R: 30, G: 60, B: 110, A: 255}, color.RGBA{R: 120, G: 100, B: 70, A: 255}, v*2)
	}
	return lerpColor(color.RGBA{R: 120, G: 100, B: 70, A: 255}, color.RGBA{R: 235, G: 235, B: 225, A: 255}, (v-0.5)*2)
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = max(0, min(t, 1))
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// FieldPixels converts a lattice grid stored by i*ny + j into row-major
// texture pixels (j*nx + i), normalized by scale. A non-positive scale
// normalizes by the grid maximum.
func FieldPixels(dst []color.RGBA, values []float64, nx, ny int, scale float64, ramp Ramp) []color.RGBA {
	if scale <= 0 {
		for _, v := range values {
			scale = max(scale, v)
		}
		if scale <= 0 {
			scale = 1
		}
	}
	if cap(dst) < nx*ny {
		dst = make([]color.RGBA, nx*ny)
	}
	dst = dst[:nx*ny]
	for i := range nx {
		for j := range ny {
			dst[j*nx+i] = ramp(values[i*ny+j] / scale)
		}
	}
	return dst
}

// FieldRenderer draws one lattice grid as a texture stretched over the
// world. The texture repeats, so the torus wraps without extra draws.
type FieldRenderer struct {
	tex         rl.Texture2D
	nx, ny      int
	pixels      []color.RGBA
	initialized bool
}

// NewFieldRenderer creates a renderer for an nx by ny lattice.
func NewFieldRenderer(nx, ny int) *FieldRenderer {
	return &FieldRenderer{nx: nx, ny: ny}
}

// Init creates the GPU texture (must be called after the raylib window is created).
func (r *FieldRenderer) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageColor(r.nx, r.ny, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)
	r.initialized = true
}

// Update uploads a new grid. scale <= 0 normalizes by the grid maximum.
func (r *FieldRenderer) Update(values []float64, scale float64, ramp Ramp) {
	if !r.initialized {
		r.Init()
	}
	if len(values) != r.nx*r.ny {
		return
	}
	r.pixels = FieldPixels(r.pixels, values, r.nx, r.ny, scale, ramp)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw fills the screen with the part of the field the camera sees.
func (r *FieldRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	cellW := cam.World.Width / float64(r.nx)
	cellH := cam.World.Height / float64(r.ny)
	halfW := cam.ViewportW / (2 * cam.Zoom)
	halfH := cam.ViewportH / (2 * cam.Zoom)

	src := rl.Rectangle{
		X:      float32((cam.X - halfW) / cellW),
		Y:      float32((cam.Y - halfH) / cellH),
		Width:  float32(2 * halfW / cellW),
		Height: float32(2 * halfH / cellH),
	}
	dst := rl.Rectangle{Width: float32(cam.ViewportW), Height: float32(cam.ViewportH)}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// DrawLattice outlines the lattice cells visible to the camera.
func DrawLattice(cam *camera.Camera, nx, ny int) {
	lineColor := rl.Color{R: 255, G: 255, B: 255, A: 30}
	cellW := cam.World.Width / float64(nx)
	cellH := cam.World.Height / float64(ny)
	if cellW*cam.Zoom < 4 || cellH*cam.Zoom < 4 {
		return
	}

	for i := range nx {
		sx, _ := cam.WorldToScreen(float64(i)*cellW, cam.Y)
		rl.DrawLine(int32(sx), 0, int32(sx), int32(cam.ViewportH), lineColor)
	}
	for j := range ny {
		_, sy := cam.WorldToScreen(cam.X, float64(j)*cellH)
		rl.DrawLine(0, int32(sy), int32(cam.ViewportW), int32(sy), lineColor)
	}
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
