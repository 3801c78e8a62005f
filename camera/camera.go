// Package camera provides a 2D camera system for viewport control.
package camera

import (
	"github.com/pthm-cable/evogarden/systems"
)

// Camera controls the viewport into the torus.
// World coordinates are float64 to match the simulation; screen
// coordinates are float32 to match raylib.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Zoom level in screen pixels per world unit
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	World systems.World

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the world, zoomed so the whole world fits.
func New(viewportW, viewportH float64, world systems.World) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		World:     world,
		MaxZoom:   8.0,
	}
	c.updateMinZoom()
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole world fits the viewport.
func (c *Camera) fitZoom() float64 {
	return min(c.ViewportW/c.World.Width, c.ViewportH/c.World.Height)
}

func (c *Camera) updateMinZoom() {
	c.MinZoom = c.fitZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// WorldToScreen converts world coordinates to screen coordinates along the
// shortest toroidal path from the camera center.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	dx, dy := c.World.Delta(c.X, c.Y, wx, wy)
	return float32(c.ViewportW/2 + dx*c.Zoom), float32(c.ViewportH/2 + dy*c.Zoom)
}

// ScreenToWorld converts screen coordinates to wrapped world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	dx := (float64(sx) - c.ViewportW/2) / c.Zoom
	dy := (float64(sy) - c.ViewportH/2) / c.Zoom
	return c.World.WrapPosition(c.X+dx, c.Y+dy)
}

// IsVisible returns true if a circle at (wx, wy) with the given radius could
// be on screen. Conservative; used for culling.
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	dx, dy := c.World.Delta(c.X, c.Y, wx, wy)
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return abs(dx) <= halfW && abs(dy) <= halfH
}

// Point is a screen position.
type Point struct{ X, Y float32 }

// GhostPositions returns extra screen positions for a circle near the seam of
// the visible area, so it is drawn on both sides while wrapping. At most 3.
func (c *Camera) GhostPositions(wx, wy, radius float64) []Point {
	var ghosts []Point

	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	dx, dy := c.World.Delta(c.X, c.Y, wx, wy)

	var hGhost, vGhost bool
	var hx, vy float64
	switch {
	case dx > halfW-radius && dx < halfW+radius:
		hGhost, hx = true, dx-c.World.Width
	case dx < -halfW+radius && dx > -halfW-radius:
		hGhost, hx = true, dx+c.World.Width
	}
	switch {
	case dy > halfH-radius && dy < halfH+radius:
		vGhost, vy = true, dy-c.World.Height
	case dy < -halfH+radius && dy > -halfH-radius:
		vGhost, vy = true, dy+c.World.Height
	}

	toScreen := func(dx, dy float64) Point {
		return Point{float32(c.ViewportW/2 + dx*c.Zoom), float32(c.ViewportH/2 + dy*c.Zoom)}
	}
	if hGhost {
		ghosts = append(ghosts, toScreen(hx, dy))
	}
	if vGhost {
		ghosts = append(ghosts, toScreen(dx, vy))
	}
	if hGhost && vGhost {
		ghosts = append(ghosts, toScreen(hx, vy))
	}
	return ghosts
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
}

// Pan moves the camera by the given delta in screen pixels, wrapping around
// world boundaries.
func (c *Camera) Pan(dx, dy float64) {
	c.X, c.Y = c.World.WrapPosition(c.X+dx/c.Zoom, c.Y+dy/c.Zoom)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = max(c.MinZoom, min(zoom, c.MaxZoom))
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera and fits the whole world.
func (c *Camera) Reset() {
	c.X = c.World.Width / 2
	c.Y = c.World.Height / 2
	c.Zoom = c.fitZoom()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
