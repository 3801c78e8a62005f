package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evogarden/camera"
	"github.com/pthm-cable/evogarden/components"
	"github.com/pthm-cable/evogarden/game"
	"github.com/pthm-cable/evogarden/traits"
	"github.com/pthm-cable/evogarden/ui"
)

const controlsLegend = "[Space] Pause  [,/.] Speed  [Tab] Overlays  [F3] Perf  [Arrows/Wheel] Camera  [Home] Reset  [F11] Fullscreen"

// Viewer drives a simulation interactively: it owns the window-side state
// and translates input into camera moves and interventions.
type Viewer struct {
	sim *game.Simulation
	cam *camera.Camera

	overlays      *ui.OverlayRegistry
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	controls      *ui.ControlsPanel
	interventions *ui.InterventionPanel
	inspector     *ui.Inspector

	field     *FieldRenderer
	creatures *CreatureRenderer

	snap      game.Snapshot
	fieldTick int
	fieldID   ui.OverlayID

	paused        bool
	ticksPerFrame int
	showPerf      bool
	maxTicks      int

	selectedID  uint64
	hasSelected bool

	screenW, screenH float32
}

// NewViewer creates a viewer for sim. The raylib window must already exist.
// maxTicks > 0 stops the loop once the simulation reaches that tick.
func NewViewer(sim *game.Simulation, maxTicks int) *Viewer {
	cfg := sim.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	v := &Viewer{
		sim:           sim,
		cam:           camera.New(float64(w), float64(h), sim.World()),
		overlays:      ui.NewOverlayRegistry(),
		hud:           ui.NewHUD(),
		perfPanel:     ui.NewPerfPanel(int32(w)-300, 10),
		controls:      ui.NewControlsPanel(10, 120, 200),
		interventions: ui.NewInterventionPanel(w-230, h-370, 220),
		inspector:     ui.NewInspector(int32(w)-250, 10, 240),
		field:         NewFieldRenderer(cfg.Terrain.NX, cfg.Terrain.NY),
		creatures:     NewCreatureRenderer(),
		ticksPerFrame: max(1, cfg.Screen.TicksPerFrame),
		maxTicks:      maxTicks,
		fieldTick:     -1,
		screenW:       w,
		screenH:       h,
	}
	v.field.Init()
	v.snap = sim.Snapshot()
	return v
}

// Run loops until the window closes or maxTicks is reached.
func (v *Viewer) Run() {
	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if v.maxTicks > 0 && v.sim.Tick() >= v.maxTicks {
			return
		}
	}
}

// Update handles input and advances the simulation.
func (v *Viewer) Update() {
	v.handleInput()

	if !v.paused {
		for range v.ticksPerFrame {
			v.sim.Step()
			if v.maxTicks > 0 && v.sim.Tick() >= v.maxTicks {
				break
			}
		}
	}
	v.snap = v.sim.Snapshot()
}

// Unload frees GPU resources.
func (v *Viewer) Unload() {
	v.field.Unload()
}

func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyComma) && v.ticksPerFrame > 1 {
		v.ticksPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.ticksPerFrame < 50 {
		v.ticksPerFrame++
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		v.showPerf = !v.showPerf
	}
	for _, key := range v.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			v.overlays.HandleKeyPress(key)
		}
	}

	v.handleCameraInput()
	v.handleMouse()
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h

	v.cam.Resize(float64(w), float64(h))
	v.perfPanel.SetPosition(int32(w)-300, 10)
	v.inspector.SetPosition(int32(w)-250, 10)
	v.interventions.SetPosition(w-230, h-370)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Pan speed is in screen pixels, so it feels the same at every zoom
	const panSpeed = 8.0

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}

	// Right drag pans
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-float64(d.X), -float64(d.Y))
	}
}

// handleMouse applies the active tool at the clicked world position.
// Interventions run here, between ticks.
func (v *Viewer) handleMouse() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if v.interventions.Contains(mouse) {
		return
	}
	wx, wy := v.cam.ScreenToWorld(mouse.X, mouse.Y)
	s := v.interventions.Settings

	switch v.interventions.Tool {
	case ui.ToolInject:
		ci, cj := v.sim.World().CellOf(wx, wy, v.snap.NX, v.snap.NY)
		v.sim.InjectNutrition(float64(ci), float64(cj), float64(s.InjectRadius), float64(s.InjectDelta))
		v.fieldTick = -1
	case ui.ToolMeteor:
		v.sim.Meteor(wx, wy, float64(s.MeteorRadius), float64(s.MeteorDelta))
		v.fieldTick = -1
	default:
		// Allow a few pixels of slack so small creatures are clickable
		slack := 6 / v.cam.Zoom
		if i, ok := PickCreature(v.snap.Creatures, v.sim.World(), wx, wy, slack); ok {
			v.selectedID, v.hasSelected = v.snap.Creatures[i].ID, true
		} else {
			v.hasSelected = false
		}
	}
	v.snap = v.sim.Snapshot()
}

// Draw renders the frame.
func (v *Viewer) Draw() {
	v.sim.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.drawField()
	if v.overlays.IsEnabled(ui.OverlayGrid) {
		DrawLattice(v.cam, v.snap.NX, v.snap.NY)
	}

	v.creatures.Draw(v.cam, v.snap.Creatures, CreatureStyle{
		Velocity: v.overlays.IsEnabled(ui.OverlayVelocity),
		Health:   v.overlays.IsEnabled(ui.OverlayHealth),
	})

	selected, ok := v.selected()
	if ok {
		v.creatures.DrawSelection(v.cam, selected)
	}
	v.drawToolCursor()

	hf, hm, cf, cm := v.snap.Counts()
	v.hud.Draw(ui.HUDData{
		Title:          "EvoGarden",
		HerbFemales:    hf,
		HerbMales:      hm,
		CarnFemales:    cf,
		CarnMales:      cm,
		TotalNutrition: v.snap.TotalNutrition,
		Tick:           v.snap.Tick,
		Speed:          v.ticksPerFrame,
		FPS:            rl.GetFPS(),
		Paused:         v.paused,
	})
	v.controls.Draw(v.overlays)

	if ok {
		v.inspector.Draw(inspectorData(selected))
	} else if v.showPerf {
		if stats, enabled := v.sim.PerfStats(); enabled {
			v.perfPanel.Draw(stats)
		} else {
			rl.DrawText("Perf disabled (run with -perf)", int32(v.screenW)-300, 10, 14, rl.Gray)
		}
	}

	if v.interventions.Draw() {
		s := v.interventions.Settings
		v.sim.Disease(float64(s.DiseaseFactor), float64(s.DiseaseFraction))
	}

	v.hud.DrawControls(int32(v.screenH), controlsLegend)
	rl.EndDrawing()
}

// drawField uploads the active lattice grid when it changed and draws it.
func (v *Viewer) drawField() {
	var id ui.OverlayID
	for _, candidate := range []ui.OverlayID{ui.OverlayNutrition, ui.OverlayCapacity, ui.OverlayElevation} {
		if v.overlays.IsEnabled(candidate) {
			id = candidate
		}
	}
	if id == "" {
		return
	}

	if id != v.fieldID || v.snap.Tick != v.fieldTick {
		k0 := v.sim.Config().Nutrition.K0
		switch id {
		case ui.OverlayCapacity:
			v.field.Update(v.snap.Capacity, k0, CapacityRamp)
		case ui.OverlayElevation:
			v.field.Update(v.snap.Elevation, 0, ElevationRamp)
		default:
			v.field.Update(v.snap.Nutrition, k0, NutritionRamp)
		}
		v.fieldID, v.fieldTick = id, v.snap.Tick
	}
	v.field.Draw(v.cam)
}

// drawToolCursor previews the area the active tool will affect.
func (v *Viewer) drawToolCursor() {
	mouse := rl.GetMousePosition()
	s := v.interventions.Settings

	var radius float32
	var col rl.Color
	switch v.interventions.Tool {
	case ui.ToolInject:
		cellW := v.sim.World().Width / float64(v.snap.NX)
		radius = float32(float64(s.InjectRadius) * cellW * v.cam.Zoom)
		col = rl.Green
	case ui.ToolMeteor:
		radius = float32(float64(s.MeteorRadius) * v.cam.Zoom)
		col = rl.Orange
	default:
		return
	}
	rl.DrawCircleLines(int32(mouse.X), int32(mouse.Y), radius, col)
	rl.DrawText(v.interventions.Tool.String(), int32(mouse.X)+8, int32(mouse.Y)+8, 12, col)
}

func (v *Viewer) selected() (game.CreatureView, bool) {
	if !v.hasSelected {
		return game.CreatureView{}, false
	}
	c, ok := FindByID(v.snap.Creatures, v.selectedID)
	if !ok {
		// Selected creature died
		v.hasSelected = false
	}
	return c, ok
}

func inspectorData(c game.CreatureView) ui.InspectorData {
	return ui.InspectorData{
		ID:            c.ID,
		Carnivore:     c.Species == components.Carnivore,
		Female:        c.Sex == components.Female,
		X:             c.X,
		Y:             c.Y,
		VX:            c.VX,
		VY:            c.VY,
		Radius:        c.Radius,
		HP:            c.HP,
		BaseHP:        traits.BaseHP(c.Species) * traits.HPFactor(c.Sex),
		Energy:        c.Energy,
		FounderEnergy: traits.BaseEnergy(c.Species),
	}
}
