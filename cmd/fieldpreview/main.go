// Turbulence field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/murmur/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// FieldParams holds both swirl layers plus the sampling seed.
type FieldParams struct {
	Layer1 systems.TurbLayer
	Layer2 systems.TurbLayer
	Seed   int64
}

func defaultParams() FieldParams {
	return FieldParams{
		Layer1: systems.TurbLayer{Amount: 90, Speed: 0.12, Scale: 0.004, Evolution: 0.08},
		Layer2: systems.TurbLayer{Amount: 22, Speed: 0.45, Scale: 0.016, Evolution: 0.30},
		Seed:   1,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Turbulence Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	field := systems.NewTurbulence(systems.NewNoiseField(params.Seed))

	// Displacement samples over a square world patch
	const gridSize = 128
	const patchExtent = 900.0 // world units covered edge to edge
	dispX := make([]float32, gridSize*gridSize)
	dispY := make([]float32, gridSize*gridSize)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var time float32 = 0
	animating := true
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			time += rl.GetFrameTime()
			needsRegen = true
		}

		if needsRegen {
			sampleField(field, dispX, dispY, gridSize, patchExtent, params, float64(time))
			updateTexture(texture, dispX, dispY, gridSize, params)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		drawVectors(dispX, dispY, gridSize, params)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		var maxMag, sumMag float32
		for i := range dispX {
			m := float32(math.Hypot(float64(dispX[i]), float64(dispY[i])))
			sumMag += m
			if m > maxMag {
				maxMag = m
			}
		}
		avgMag := sumMag / float32(len(dispX))

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Max: %.1f  Avg: %.1f  (world units)", maxMag, avgMag), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.1f", time), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Swirl Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30

		needsRegen = layerSliders(&params.Layer1, "Layer 1 (large slow swirls)", panelX, &panelY) || needsRegen
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 10
		needsRegen = layerSliders(&params.Layer2, "Layer 2 (small fast detail)", panelX, &panelY) || needsRegen

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			field = systems.NewTurbulence(systems.NewNoiseField(params.Seed))
			needsRegen = true
		}
		panelY += 40

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			time = 0
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			field = systems.NewTurbulence(systems.NewNoiseField(params.Seed))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			field = systems.NewTurbulence(systems.NewNoiseField(params.Seed))
			time = 0
			needsRegen = true
		}
		panelY += 45

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 13, rl.Gray)
			panelY += 15
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			var out string
			for _, line := range yamlLines(params) {
				out += line + "\n"
			}
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

// sliderSpec names one layer field with its slider range.
type sliderSpec struct {
	label    string
	min, max float32
	fmtSpec  string
	get      func(*systems.TurbLayer) float64
	set      func(*systems.TurbLayer, float64)
}

var layerSpecs = []sliderSpec{
	{"Amount (displacement gain)", 0, 200, "%.0f",
		func(l *systems.TurbLayer) float64 { return l.Amount },
		func(l *systems.TurbLayer, v float64) { l.Amount = v }},
	{"Speed (drift rate)", 0, 1, "%.3f",
		func(l *systems.TurbLayer) float64 { return l.Speed },
		func(l *systems.TurbLayer, v float64) { l.Speed = v }},
	{"Scale (spatial frequency)", 0.0005, 0.03, "%.4f",
		func(l *systems.TurbLayer) float64 { return l.Scale },
		func(l *systems.TurbLayer, v float64) { l.Scale = v }},
	{"Evolution (morph rate)", 0, 1, "%.3f",
		func(l *systems.TurbLayer) float64 { return l.Evolution },
		func(l *systems.TurbLayer, v float64) { l.Evolution = v }},
}

// layerSliders draws one layer's slider group and reports whether anything
// changed.
func layerSliders(l *systems.TurbLayer, title string, panelX float32, panelY *float32) bool {
	changed := false
	rl.DrawText(title, int32(panelX), int32(*panelY), 16, rl.DarkGray)
	*panelY += 22
	for _, spec := range layerSpecs {
		rl.DrawText(spec.label, int32(panelX), int32(*panelY), 13, rl.Gray)
		*panelY += 16
		cur := float32(spec.get(l))
		next := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: *panelY, Width: float32(panelWidth - 80), Height: 18},
			fmt.Sprintf(spec.fmtSpec, spec.min), fmt.Sprintf(spec.fmtSpec, spec.max),
			cur, spec.min, spec.max,
		)
		rl.DrawText(fmt.Sprintf(spec.fmtSpec, cur), int32(panelX+float32(panelWidth-70)), int32(*panelY+1), 14, rl.DarkGray)
		if next != cur {
			spec.set(l, float64(next))
			changed = true
		}
		*panelY += 28
	}
	return changed
}

// sampleField evaluates the two-layer displacement at every grid cell's
// world anchor.
func sampleField(field *systems.Turbulence, dispX, dispY []float32, size int, extent float64, params FieldParams, t float64) {
	for gy := 0; gy < size; gy++ {
		for gx := 0; gx < size; gx++ {
			wx := (float64(gx)/float64(size-1) - 0.5) * extent
			wy := (float64(gy)/float64(size-1) - 0.5) * extent
			d := field.Displace(systems.Vec3{X: wx, Y: wy}, t, params.Layer1, params.Layer2)
			i := gy*size + gx
			dispX[i] = float32(d.X)
			dispY[i] = float32(d.Y)
		}
	}
}

// updateTexture maps displacement magnitude to brightness, normalized by
// the combined layer amounts so slider moves keep a stable exposure.
func updateTexture(texture rl.Texture2D, dispX, dispY []float32, size int, params FieldParams) {
	norm := float32(params.Layer1.Amount + params.Layer2.Amount)
	if norm <= 0 {
		norm = 1
	}
	pixels := make([]color.RGBA, size*size)
	for i := range pixels {
		m := float32(math.Hypot(float64(dispX[i]), float64(dispY[i]))) / norm
		if m > 1 {
			m = 1
		}
		v := uint8(m * 255)
		pixels[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}

// drawVectors overlays a sparse arrow grid on the preview so swirl
// direction reads at a glance, not just magnitude.
func drawVectors(dispX, dispY []float32, size int, params FieldParams) {
	norm := float32(params.Layer1.Amount+params.Layer2.Amount) + 1e-6
	const step = 8
	cell := float32(previewSize) / float32(size)
	for gy := step / 2; gy < size; gy += step {
		for gx := step / 2; gx < size; gx += step {
			i := gy*size + gx
			x := 10 + float32(gx)*cell
			y := 10 + float32(gy)*cell
			dx := dispX[i] / norm * cell * float32(step) * 0.8
			dy := dispY[i] / norm * cell * float32(step) * 0.8
			rl.DrawLineV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: x + dx, Y: y + dy}, rl.Color{R: 80, G: 180, B: 255, A: 200})
		}
	}
}

func yamlLines(p FieldParams) []string {
	layer := func(name string, l systems.TurbLayer) []string {
		return []string{
			name + ":",
			fmt.Sprintf("  amount: %.1f", l.Amount),
			fmt.Sprintf("  speed: %.3f", l.Speed),
			fmt.Sprintf("  scale: %.4f", l.Scale),
			fmt.Sprintf("  evolution: %.3f", l.Evolution),
		}
	}
	out := layer("turb1", p.Layer1)
	out = append(out, layer("turb2", p.Layer2)...)
	out = append(out, fmt.Sprintf("noise_seed: %d", p.Seed))
	return out
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
