package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evogarden/camera"
	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/game"
	"github.com/pthm-cable/evogarden/traits"
	"github.com/pthm-cable/evogarden/ui"
)

// CreatureStyle selects optional creature decorations.
type CreatureStyle struct {
	Velocity bool // draw velocity vectors
	Health   bool // fade by remaining hit points
}

// CreatureRenderer draws creatures as triangles pointing along their
// velocity, plus ghost copies where they straddle the view seam.
type CreatureRenderer struct {
	theme ui.Theme
}

// NewCreatureRenderer creates a creature renderer with the default theme.
func NewCreatureRenderer() *CreatureRenderer {
	return &CreatureRenderer{theme: ui.DefaultTheme()}
}

// Draw renders every visible creature.
func (r *CreatureRenderer) Draw(cam *camera.Camera, creatures []game.CreatureView, style CreatureStyle) {
	for i := range creatures {
		c := &creatures[i]
		if !cam.IsVisible(c.X, c.Y, c.Radius*1.5) {
			continue
		}

		col := r.speciesColor(c)
		if style.Health {
			base := traits.BaseHP(c.Species) * traits.HPFactor(c.Sex)
			col.A = uint8(60 + 195*max(0, min(c.HP/base, 1)))
		}

		heading := math.Atan2(c.VY, c.VX)
		radius := float32(c.Radius * cam.Zoom)
		radius = max(radius, 2)

		sx, sy := cam.WorldToScreen(c.X, c.Y)
		points := append([]camera.Point{{X: sx, Y: sy}}, cam.GhostPositions(c.X, c.Y, c.Radius)...)
		for _, p := range points {
			drawOrientedTriangle(p.X, p.Y, heading, radius, col, c.Sex == components.Female)
			if style.Velocity {
				ex := p.X + float32(c.VX*cam.Zoom*8)
				ey := p.Y + float32(c.VY*cam.Zoom*8)
				rl.DrawLineV(rl.Vector2{X: p.X, Y: p.Y}, rl.Vector2{X: ex, Y: ey}, rl.Yellow)
			}
		}
	}
}

// DrawSelection rings the selected creature.
func (r *CreatureRenderer) DrawSelection(cam *camera.Camera, c game.CreatureView) {
	sx, sy := cam.WorldToScreen(c.X, c.Y)
	radius := max(float32(c.Radius*cam.Zoom), 2) * 2
	rl.DrawCircleLines(int32(sx), int32(sy), radius, rl.White)
}

func (r *CreatureRenderer) speciesColor(c *game.CreatureView) rl.Color {
	if c.Species == components.Carnivore {
		return r.theme.Carnivore
	}
	return r.theme.Herbivore
}

// drawOrientedTriangle draws a triangle pointing in the heading direction.
// Females are filled, males are outlined.
func drawOrientedTriangle(x, y float32, heading float64, radius float32, color rl.Color, filled bool) {
	cos := float32(math.Cos(heading))
	sin := float32(math.Sin(heading))

	frontX := x + cos*radius*1.5
	frontY := y + sin*radius*1.5

	backAngle := heading + math.Pi*0.8
	backLeftX := x + float32(math.Cos(backAngle))*radius
	backLeftY := y + float32(math.Sin(backAngle))*radius

	backAngle = heading - math.Pi*0.8
	backRightX := x + float32(math.Cos(backAngle))*radius
	backRightY := y + float32(math.Sin(backAngle))*radius

	v1 := rl.Vector2{X: frontX, Y: frontY}
	v2 := rl.Vector2{X: backLeftX, Y: backLeftY}
	v3 := rl.Vector2{X: backRightX, Y: backRightY}

	if filled {
		// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
		rl.DrawTriangle(v1, v3, v2, color)
		return
	}
	rl.DrawTriangleLines(v1, v2, v3, color)
}
