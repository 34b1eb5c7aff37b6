// Package renderer is the raylib draw stage: per-sequence point batches,
// the glow composite shader, and the HUD overlay.
package renderer

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/murmur/camera"
	"github.com/pthm-cable/murmur/config"
	"github.com/pthm-cable/murmur/systems"
)

// batch holds the immutable per-particle draw colors of one sequence.
type batch struct {
	name   string
	colors []rl.Color
}

// PointStage renders the particle cloud. One batch per sequence exists, but
// exactly one is attached to the draw pass at a time; the rest are fully
// detached, not merely hidden, so inactive sequences cost nothing.
//
// Every preset field is pushed to the shader every frame, even unchanged
// ones, so the stage recovers from external uniform loss (GPU context
// events) without bookkeeping. Until Init has run, uniform writes are
// swallowed no-ops - expected during the async load window.
type PointStage struct {
	batches []*batch
	active  int // -1 = nothing attached

	target rl.RenderTexture2D
	shader rl.Shader

	pointSizeLoc int32
	softnessLoc  int32
	fadeLoc      int32
	turb1Loc     int32
	turb2Loc     int32
	rangesLoc    int32 // influence, drag range, visible pct, move pct

	screenW, screenH int32
	background       rl.Color
	additive         bool
	outlineFrame     bool

	preset      systems.Preset
	initialized bool
}

// NewPointStage builds an empty stage. GPU resources are not touched
// until Init and batches arrive with SetSequences, so the stage can be
// handed to the engine before the sequences have loaded; until then every
// ApplyPreset is a recorded no-op.
func NewPointStage(screenW, screenH int32, rc config.RenderConfig) *PointStage {
	return &PointStage{
		active:       -1,
		screenW:      screenW,
		screenH:      screenH,
		background:   ParseHexColor(rc.Background),
		additive:     rc.Blend != "alpha",
		outlineFrame: rc.OutlineFrame,
	}
}

// SetSequences builds one color batch per loaded sequence. Called once
// after the engine finishes its load phase.
func (s *PointStage) SetSequences(store *systems.SequenceStore) {
	s.batches = s.batches[:0]
	for i := 0; i < store.Len(); i++ {
		seq := store.At(i)
		b := &batch{name: seq.Name, colors: make([]rl.Color, seq.Count())}
		for j := range b.colors {
			b.colors[j] = rl.Color{R: seq.R[j], G: seq.G[j], B: seq.B[j], A: seq.A[j]}
		}
		s.batches = append(s.batches, b)
	}
}

// Init compiles the composite shader and allocates the accumulation
// texture. Must run after the raylib window is created.
func (s *PointStage) Init() {
	if s.initialized {
		return
	}
	s.target = rl.LoadRenderTexture(s.screenW, s.screenH)
	s.shader = rl.LoadShaderFromMemory("", pointShaderFS)
	s.pointSizeLoc = rl.GetShaderLocation(s.shader, "pointSize")
	s.softnessLoc = rl.GetShaderLocation(s.shader, "edgeSoftness")
	s.fadeLoc = rl.GetShaderLocation(s.shader, "edgeFade")
	s.turb1Loc = rl.GetShaderLocation(s.shader, "turb1")
	s.turb2Loc = rl.GetShaderLocation(s.shader, "turb2")
	s.rangesLoc = rl.GetShaderLocation(s.shader, "ranges")
	s.initialized = true
}

// ApplyPreset pushes the whole preset to the draw stage. Called every
// frame regardless of change. Before Init it only records the preset.
func (s *PointStage) ApplyPreset(p systems.Preset) {
	s.preset = p
	if !s.initialized {
		return
	}
	rl.SetShaderValue(s.shader, s.pointSizeLoc, []float32{float32(p.PointSize)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s.shader, s.softnessLoc, []float32{float32(p.EdgeSoftness)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s.shader, s.fadeLoc, []float32{float32(p.EdgeFade)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s.shader, s.turb1Loc,
		[]float32{float32(p.Turb1.Amount), float32(p.Turb1.Speed), float32(p.Turb1.Scale), float32(p.Turb1.Evolution)},
		rl.ShaderUniformVec4)
	rl.SetShaderValue(s.shader, s.turb2Loc,
		[]float32{float32(p.Turb2.Amount), float32(p.Turb2.Speed), float32(p.Turb2.Scale), float32(p.Turb2.Evolution)},
		rl.ShaderUniformVec4)
	rl.SetShaderValue(s.shader, s.rangesLoc,
		[]float32{float32(p.Influence), float32(p.DragRange), float32(p.VisiblePct), float32(p.MovePct)},
		rl.ShaderUniformVec4)
}

// SetActive attaches batch i and detaches all others. Out-of-range
// indexes detach everything.
func (s *PointStage) SetActive(i int) {
	if i < 0 || i >= len(s.batches) {
		s.active = -1
		return
	}
	s.active = i
}

// Attached lists the batch indexes currently in the draw pass: at most one.
func (s *PointStage) Attached() []int {
	if s.active < 0 {
		return nil
	}
	return []int{s.active}
}

// Draw accumulates the attached batch into the point texture and
// composites it over the background.
func (s *PointStage) Draw(buf *systems.ParticleBuffer, cam *camera.Camera) {
	if !s.initialized {
		s.Init()
	}

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
	if s.active >= 0 {
		s.drawBatch(s.batches[s.active], buf, cam)
	}
	rl.EndTextureMode()

	rl.ClearBackground(s.background)
	if s.additive {
		rl.BeginBlendMode(rl.BlendAdditive)
	} else {
		rl.BeginBlendMode(rl.BlendAlpha)
	}
	rl.BeginShaderMode(s.shader)
	// Render textures are vertically flipped relative to screen space
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(s.screenW), Height: -float32(s.screenH)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(s.screenW), Height: float32(s.screenH)}
	rl.DrawTexturePro(s.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
	rl.EndShaderMode()
	rl.EndBlendMode()

	if s.outlineFrame {
		s.drawOutlineFrame()
	}
}

// depthScale shrinks points pushed away on the z axis. Constant tuned for
// the default spawn extents.
const depthScale = 0.0009

func (s *PointStage) drawBatch(b *batch, buf *systems.ParticleBuffer, cam *camera.Camera) {
	n := buf.Count
	if len(b.colors) < n {
		n = len(b.colors)
	}
	baseRadius := float32(s.preset.PointSize * cam.Scale)
	for i := 0; i < n; i++ {
		a := buf.OutAlpha[i]
		if a <= 0.003 {
			continue
		}
		sx, sy := cam.WorldToScreen(float64(buf.OutX[i]), float64(buf.OutY[i]))
		persp := 1 / (1 + buf.OutZ[i]*depthScale)
		if persp < 0.25 {
			persp = 0.25
		} else if persp > 2.5 {
			persp = 2.5
		}
		radius := baseRadius * persp
		if offscreen(sx, sy, s.screenW, s.screenH, radius) {
			continue
		}
		c := b.colors[i]
		c.A = uint8(float32(c.A) * a)
		rl.DrawCircleV(rl.Vector2{X: float32(sx), Y: float32(sy)}, radius, c)
	}
}

// offscreen reports whether a point at (sx, sy) with the given drawn
// radius lies fully outside the screen. The margin is the radius itself,
// so large points never pop at the viewport edge.
func offscreen(sx, sy float64, screenW, screenH int32, radius float32) bool {
	m := float64(radius)
	return sx < -m || sx > float64(screenW)+m || sy < -m || sy > float64(screenH)+m
}

// drawOutlineFrame draws the debug frame marking the viewport bounds.
func (s *PointStage) drawOutlineFrame() {
	rl.DrawRectangleLines(0, 0, s.screenW, s.screenH, rl.Color{R: 255, G: 255, B: 255, A: 70})
	rl.DrawRectangleLines(8, 8, s.screenW-16, s.screenH-16, rl.Color{R: 255, G: 255, B: 255, A: 35})
}

// Resize reallocates the accumulation texture for a new viewport.
func (s *PointStage) Resize(screenW, screenH int32) {
	s.screenW = screenW
	s.screenH = screenH
	if !s.initialized {
		return
	}
	rl.UnloadRenderTexture(s.target)
	s.target = rl.LoadRenderTexture(screenW, screenH)
}

// SetRenderConfig re-applies the render toggles, the live half of the
// override surface.
func (s *PointStage) SetRenderConfig(rc config.RenderConfig) {
	s.background = ParseHexColor(rc.Background)
	s.additive = rc.Blend != "alpha"
	s.outlineFrame = rc.OutlineFrame
}

// Unload releases GPU resources.
func (s *PointStage) Unload() {
	if !s.initialized {
		return
	}
	rl.UnloadRenderTexture(s.target)
	rl.UnloadShader(s.shader)
	s.initialized = false
}

// ParseHexColor decodes "#rrggbb" or "#rrggbbaa". Anything unparsable
// yields opaque black rather than an error; a bad background color is not
// worth failing startup over.
func ParseHexColor(s string) rl.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return rl.Color{A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return rl.Color{A: 255}
	}
	c := rl.Color{A: 255}
	if len(s) == 8 {
		c.A = uint8(v)
		v >>= 8
	}
	c.B = uint8(v)
	c.G = uint8(v >> 8)
	c.R = uint8(v >> 16)
	return c
}
