package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// InspectorData holds the selected creature's observable state.
type InspectorData struct {
	ID            uint64
	Carnivore     bool
	Female        bool
	X, Y          float64
	VX, VY        float64
	Radius        float64
	HP, BaseHP    float64
	Energy        float64
	FounderEnergy float64
}

// Inspector renders the creature inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, 170)
	x := ins.x + padding
	y := ins.y + padding

	species, color := "Herbivore", r.Theme.Herbivore
	if data.Carnivore {
		species, color = "Carnivore", r.Theme.Carnivore
	}
	sex := "male"
	if data.Female {
		sex = "female"
	}
	rl.DrawCircle(x+6, y+7, 6, color)
	rl.DrawText(fmt.Sprintf("%s #%d (%s)", species, data.ID, sex), x+18, y, r.Theme.HeaderFontSize, rl.White)
	y += r.Theme.LineHeight + 6

	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("%.1f, %.1f", data.X, data.Y))
	y = r.DrawLabelValue(x, y, "Velocity", fmt.Sprintf("%.2f, %.2f", data.VX, data.VY))
	y = r.DrawLabelValue(x, y, "Radius", fmt.Sprintf("%.2f", data.Radius))
	y = r.DrawLevelBar(x, y, "HP", data.HP, data.BaseHP, contentWidth)
	y = r.DrawLevelBar(x, y, "Energy", data.Energy, data.FounderEnergy, contentWidth)

	return y
}
