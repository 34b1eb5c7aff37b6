package timeline

import (
	"math"
	"testing"

	"github.com/pthm-cable/murmur/systems"
)

func testStates() []State {
	return []State{
		{Name: "a", Preset: systems.Preset{PointSize: 1, VisiblePct: 0}, Duration: 2},
		{Name: "b", Preset: systems.Preset{PointSize: 3, VisiblePct: 1}, Duration: 1},
		{Name: "c", Preset: systems.Preset{PointSize: 5, VisiblePct: 1}, Duration: 0},
	}
}

func TestIdleDoesNotOverride(t *testing.T) {
	m := NewMachine(testStates())
	if _, override := m.Current(); override {
		t.Error("idle machine overrides the sampler")
	}
	if m.Advance(1) {
		t.Error("Advance while idle reported done")
	}
}

func TestPreview(t *testing.T) {
	m := NewMachine(testStates())

	if err := m.Preview(1); err != nil {
		t.Fatalf("Preview(1) = %v", err)
	}
	p, override := m.Current()
	if !override {
		t.Fatal("preview does not override the sampler")
	}
	if p.PointSize != 3 {
		t.Errorf("previewed PointSize = %v, want 3", p.PointSize)
	}

	// Re-previewing another state is legal
	if err := m.Preview(0); err != nil {
		t.Errorf("Preview(0) from preview = %v", err)
	}
	if err := m.Preview(99); err == nil {
		t.Error("Preview(99) accepted out-of-range state")
	}
}

func TestPlayInterpolates(t *testing.T) {
	m := NewMachine(testStates())
	if err := m.Play(); err != nil {
		t.Fatalf("Play = %v", err)
	}

	// At t=0 playback emits exactly the first state
	p, override := m.Current()
	if !override || p.PointSize != 1 {
		t.Fatalf("start preset = %+v override %v, want PointSize 1", p, override)
	}

	// Halfway through state a's 2s duration: cubic ease at 0.5 is 0.5
	m.Advance(1)
	p, _ = m.Current()
	if math.Abs(p.PointSize-2) > 1e-9 {
		t.Errorf("midpoint PointSize = %v, want 2", p.PointSize)
	}

	// Crossing into state b
	m.Advance(1.5) // total 2.5: 0.5s into b's 1s duration
	p, _ = m.Current()
	if p.PointSize <= 3 || p.PointSize >= 5 {
		t.Errorf("PointSize = %v, want between 3 and 5", p.PointSize)
	}
}

func TestPlayFinishesToIdle(t *testing.T) {
	m := NewMachine(testStates())
	m.Play()

	if !m.Advance(10) {
		t.Fatal("Advance past the end did not report done")
	}
	if m.Phase() != PhaseIdle {
		t.Errorf("phase after playback = %v, want idle", m.Phase())
	}
}

func TestRenderingWaitsForFinish(t *testing.T) {
	m := NewMachine(testStates())
	if err := m.BeginRender(); err != nil {
		t.Fatalf("BeginRender = %v", err)
	}

	if !m.Advance(10) {
		t.Fatal("Advance past the end did not report done")
	}
	// Rendering holds the final state until the recorder finishes
	if m.Phase() != PhaseRendering {
		t.Fatalf("phase = %v, want rendering", m.Phase())
	}
	p, override := m.Current()
	if !override || p.PointSize != 5 {
		t.Errorf("held preset = %+v, want final state", p)
	}

	if err := m.Finish(); err != nil {
		t.Fatalf("Finish = %v", err)
	}
	if m.Phase() != PhaseIdle {
		t.Errorf("phase after Finish = %v, want idle", m.Phase())
	}
}

func TestAtEnd(t *testing.T) {
	m := NewMachine(testStates())
	if m.AtEnd() {
		t.Error("idle machine reports AtEnd")
	}

	m.BeginRender()
	if m.AtEnd() {
		t.Error("AtEnd true right after BeginRender")
	}
	m.Advance(1)
	if m.AtEnd() {
		t.Error("AtEnd true mid-transition")
	}
	m.Advance(10)
	if !m.AtEnd() {
		t.Error("AtEnd false after final state reached")
	}
	m.Finish()
	if m.AtEnd() {
		t.Error("AtEnd true after Finish")
	}
}

func TestIllegalTransitions(t *testing.T) {
	m := NewMachine(testStates())
	m.Play()

	if err := m.Preview(0); err == nil {
		t.Error("Preview accepted while playing")
	}
	if err := m.Play(); err == nil {
		t.Error("Play accepted while playing")
	}
	if err := m.BeginRender(); err == nil {
		t.Error("BeginRender accepted while playing")
	}
	if err := m.Finish(); err == nil {
		t.Error("Finish accepted while playing")
	}

	m.Stop()
	if m.Phase() != PhaseIdle {
		t.Errorf("phase after Stop = %v, want idle", m.Phase())
	}
}

func TestEmptyMachine(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Play(); err == nil {
		t.Error("Play accepted with no states")
	}
	if err := m.BeginRender(); err == nil {
		t.Error("BeginRender accepted with no states")
	}
}

func TestPlayFromPreviewStartsThere(t *testing.T) {
	m := NewMachine(testStates())
	m.Preview(1)
	if err := m.Play(); err != nil {
		t.Fatalf("Play from preview = %v", err)
	}
	p, _ := m.Current()
	if p.PointSize != 3 {
		t.Errorf("playback start PointSize = %v, want previewed state's 3", p.PointSize)
	}
}
