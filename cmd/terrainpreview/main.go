// Terrain preview tool - interactive visualization of generated elevation and
// productivity with sliders.
//
// Usage: go run ./cmd/terrainpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evogarden/config"
	"github.com/pthm-cable/evogarden/renderer"
	"github.com/pthm-cable/evogarden/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	tc := cfg.Terrain
	seed := float32(cfg.Population.Seed % 10000)
	simplex := tc.Source == "simplex"

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(tc.NX, tc.NY, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	rl.SetTextureFilter(texture, rl.FilterPoint)

	showProductivity := false
	needsRegen := true
	var pixels []color.RGBA
	var terrain *systems.Terrain

	for !rl.WindowShouldClose() {
		if needsRegen {
			if simplex {
				tc.Source = "simplex"
			} else {
				tc.Source = "uniform"
			}
			terrain = systems.GenerateTerrain(tc, systems.NewStream(int64(seed)))
			if showProductivity {
				pixels = renderer.FieldPixels(pixels, terrain.Productivity, tc.NX, tc.NY, 1, renderer.CapacityRamp)
			} else {
				pixels = renderer.FieldPixels(pixels, terrain.Elevation, tc.NX, tc.NY, 0, renderer.ElevationRamp)
			}
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw the lattice twice in each direction to show the wrap
		src := rl.Rectangle{Width: float32(tc.NX), Height: float32(tc.NY)}
		half := float32(previewSize / 2)
		for dx := range 2 {
			for dy := range 2 {
				dst := rl.Rectangle{X: 10 + float32(dx)*half, Y: 10 + float32(dy)*half, Width: half, Height: half}
				rl.DrawTexturePro(texture, src, dst, rl.Vector2{}, 0, rl.White)
			}
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Terrain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label string, value *float64, lo, hi float32, format string) {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf("%g", lo), fmt.Sprintf("%g", hi),
				float32(*value), lo, hi,
			)
			rl.DrawText(fmt.Sprintf(format, *value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if float64(v) != *value {
				*value = float64(v)
				needsRegen = true
			}
			panelY += 35
		}

		passes := float64(tc.SmoothingPasses)
		slider("Smoothing passes", &passes, 0, 12, "%.0f")
		if int(passes) != tc.SmoothingPasses {
			tc.SmoothingPasses = int(passes)
			needsRegen = true
		}
		slider("Peak productivity elevation (e0)", &tc.E0, 0, 1, "%.2f")
		slider("Mountain steepness (c_mountain)", &tc.CMountain, 0, 10, "%.2f")
		slider("Noise scale (simplex only)", &tc.NoiseScale, 0.2, 8, "%.2f")

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "9999", seed, 0, 9999,
		)
		rl.DrawText(fmt.Sprintf("%.0f", seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newSeed) != int(seed) {
			seed = float32(int(newSeed))
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(simplex, "Simplex", "Uniform")) {
			simplex = !simplex
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(showProductivity, "Productivity", "Elevation")) {
			showProductivity = !showProductivity
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 260, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			tc = cfg.Terrain
			seed = float32(cfg.Population.Seed % 10000)
			simplex = tc.Source == "simplex"
			needsRegen = true
		}
		panelY += 45

		if terrain != nil {
			minE, maxE := bounds(terrain.Elevation)
			minP, maxP := bounds(terrain.Productivity)
			rl.DrawText(fmt.Sprintf("Elevation: %.3f .. %.3f", minE, maxE), int32(panelX), int32(panelY), 14, rl.DarkGray)
			panelY += 18
			rl.DrawText(fmt.Sprintf("Productivity: %.3f .. %.3f", minP, maxP), int32(panelX), int32(panelY), 14, rl.DarkGray)
		}

		rl.EndDrawing()
	}
}

func toggleText(on bool, whenOn, whenOff string) string {
	if on {
		return whenOn
	}
	return whenOff
}

func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
