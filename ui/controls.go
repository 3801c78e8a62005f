package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the left-side controls panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight + int32(len(categories))*4

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return c.y + panelHeight
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "field":
		return "Field"
	case "creature":
		return "Creatures"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// Tool selects what a left click in the world does.
type Tool int

const (
	ToolSelect Tool = iota // pick a creature to inspect
	ToolInject             // add nutrition around the cursor
	ToolMeteor             // strike at the cursor
)

func (t Tool) String() string {
	switch t {
	case ToolInject:
		return "Inject"
	case ToolMeteor:
		return "Meteor"
	default:
		return "Select"
	}
}

// InterventionSettings are the slider values of the intervention panel.
type InterventionSettings struct {
	InjectDelta     float32 // nutrition added per cell
	InjectRadius    float32 // lattice cells
	DiseaseFactor   float32 // hit point multiplier
	DiseaseFraction float32 // share of the population sampled
	MeteorRadius    float32 // world units
	MeteorDelta     float32 // nutrition added per cell under the impact
}

// DefaultInterventionSettings returns the initial slider values.
func DefaultInterventionSettings() InterventionSettings {
	return InterventionSettings{
		InjectDelta:     2,
		InjectRadius:    3,
		DiseaseFactor:   0.5,
		DiseaseFraction: 0.2,
		MeteorRadius:    40,
		MeteorDelta:     -5,
	}
}

// InterventionPanel holds the tool selection and slider values for
// interventions.
type InterventionPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32

	Tool     Tool
	Settings InterventionSettings
}

// NewInterventionPanel creates the panel at the given position.
func NewInterventionPanel(x, y, width float32) *InterventionPanel {
	return &InterventionPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		Settings: DefaultInterventionSettings(),
	}
}

// SetPosition updates the panel position.
func (p *InterventionPanel) SetPosition(x, y float32) {
	p.x = x
	p.y = y
}

// Contains reports whether a screen point is over the panel, so clicks on
// it are not treated as world clicks.
func (p *InterventionPanel) Contains(pt rl.Vector2) bool {
	return rl.CheckCollisionPointRec(pt, rl.Rectangle{X: p.x, Y: p.y, Width: p.width, Height: p.height()})
}

func (p *InterventionPanel) height() float32 {
	return 330
}

// Draw renders the panel and returns true if "Spread Disease" was pressed
// this frame.
func (p *InterventionPanel) Draw() bool {
	r := p.renderer
	pad := float32(r.Theme.Padding)
	inner := p.width - pad*2
	sliderW := inner - 50

	r.DrawPanel(int32(p.x), int32(p.y), int32(p.width), int32(p.height()))
	x := p.x + pad
	y := p.y + pad

	rl.DrawText("Interventions", int32(x), int32(y), 16, rl.White)
	y += 24

	btnW := (inner - 10) / 3
	for i, tool := range []Tool{ToolSelect, ToolInject, ToolMeteor} {
		label := tool.String()
		if p.Tool == tool {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: x + float32(i)*(btnW+5), Y: y, Width: btnW, Height: 24}, label) {
			p.Tool = tool
		}
	}
	y += 34

	slider := func(label string, v *float32, lo, hi float32, format string) {
		rl.DrawText(label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += 14
		*v = gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16}, "", "", *v, lo, hi)
		rl.DrawText(fmt.Sprintf(format, *v), int32(x+sliderW+6), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
		y += 22
	}

	s := &p.Settings
	slider("Inject delta", &s.InjectDelta, -10, 10, "%.1f")
	slider("Inject radius (cells)", &s.InjectRadius, 0, 20, "%.0f")
	slider("Meteor radius", &s.MeteorRadius, 5, 200, "%.0f")
	slider("Meteor nutrition", &s.MeteorDelta, -20, 0, "%.1f")
	slider("Disease damage", &s.DiseaseFactor, 0, 1, "%.2f")
	slider("Disease fraction", &s.DiseaseFraction, 0, 1, "%.2f")

	return gui.Button(rl.Rectangle{X: x, Y: y + 4, Width: inner, Height: 26}, "Spread Disease")
}
