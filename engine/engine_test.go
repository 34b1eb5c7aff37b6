package engine

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/murmur/cells"
	"github.com/pthm-cable/murmur/config"
)

// writeCells writes a small valid CEL1 file with n particles.
func writeCells(t *testing.T, path string, n int) {
	t.Helper()
	buf := make([]byte, 16+n*12)
	binary.LittleEndian.PutUint32(buf[0:4], cells.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(n))
	binary.LittleEndian.PutUint16(buf[8:10], 8)
	binary.LittleEndian.PutUint16(buf[10:12], 8)
	binary.LittleEndian.PutUint16(buf[12:14], 1)
	off := 16
	for i := 0; i < n; i++ {
		u := float32(i%8) / 8
		v := float32(i/8%8) / 8
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(u))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], math.Float32bits(v))
		buf[off+8] = 255
		buf[off+9] = 255
		buf[off+10] = 255
		buf[off+11] = 255
		off += 12
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
}

// testConfig builds a two-sequence, two-section config backed by real
// asset files, small enough to step thousands of frames in tests.
func testConfig(t *testing.T, warmup int) *config.Config {
	t.Helper()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.cells")
	b := filepath.Join(dir, "b.cells")
	writeCells(t, a, 50)
	writeCells(t, b, 40)

	yaml := fmt.Sprintf(`
screen: { width: 800, height: 600 }
page: { design_width: 800 }
engine: { warmup_frames: %d }
telemetry: { enabled: false }
sequences:
  - { name: alpha, path: %s, plane_w: 400, plane_h: 400, offset_y: 300 }
  - { name: beta, path: %s, plane_w: 400, plane_h: 400, offset_y: 1500 }
sections:
  - { name: first, top: 0, height: 1200, sequence: 0 }
  - { name: second, top: 1200, height: 1200, sequence: 1 }
`, warmup, a, b)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load = %v", err)
	}
	return cfg
}

func newTestEngine(t *testing.T, warmup int) (*Engine, *NullStage) {
	t.Helper()
	stage := NewNullStage()
	e, err := New(testConfig(t, warmup), Options{Stage: stage})
	if err != nil {
		t.Fatalf("New = %v", err)
	}
	return e, stage
}

func TestSequencesEqualized(t *testing.T) {
	e, _ := newTestEngine(t, 0)

	// 50 and 40-particle sequences equalize to 50 slots each
	if e.Buffer().Count != 50 {
		t.Errorf("Count = %d, want 50", e.Buffer().Count)
	}
	for i := 0; i < e.Sequences().Len(); i++ {
		if got := e.Sequences().At(i).Count(); got != 50 {
			t.Errorf("sequence %d count = %d, want 50", i, got)
		}
	}
}

func TestFallbackOnMissingAsset(t *testing.T) {
	cfg := testConfig(t, 0)
	cfg.Sequences[1].Path = filepath.Join(t.TempDir(), "missing.cells")

	e, err := New(cfg, Options{Stage: NewNullStage()})
	if err != nil {
		t.Fatalf("New with missing asset = %v", err)
	}
	// The fallback set substitutes; startup never fails on one bad asset
	if e.Sequences().Len() != 2 {
		t.Errorf("sequences = %d, want 2", e.Sequences().Len())
	}
	if e.Buffer().Count == 0 {
		t.Error("no particles after fallback")
	}
}

func TestEmptyAssetFallsBack(t *testing.T) {
	cfg := testConfig(t, 0)
	// A fully transparent source image yields a header-only buffer: good
	// magic, zero entries, no decode error
	empty := filepath.Join(t.TempDir(), "empty.cells")
	writeCells(t, empty, 0)
	cfg.Sequences[1].Path = empty

	e, err := New(cfg, Options{Stage: NewNullStage()})
	if err != nil {
		t.Fatalf("New with empty asset = %v", err)
	}
	for i := 0; i < e.Sequences().Len(); i++ {
		got := e.Sequences().At(i).Count()
		if got == 0 {
			t.Fatalf("sequence %d left with 0 slots", i)
		}
		if got != e.Buffer().Count {
			t.Errorf("sequence %d count = %d, want %d", i, got, e.Buffer().Count)
		}
	}

	// Scroll the empty sequence's section into view: switching to the
	// substituted target must integrate without panicking
	e.OnScroll(1400)
	e.Step(1.0 / 60)
	if e.Sequences().ActiveIndex() != 1 {
		t.Errorf("active = %d, want the substituted sequence", e.Sequences().ActiveIndex())
	}
}

func TestWarmupDiscardsScroll(t *testing.T) {
	e, _ := newTestEngine(t, 3)

	if e.Ready() {
		t.Fatal("engine ready before warm-up")
	}
	e.OnScroll(500)
	if e.ScrollY() != 0 {
		t.Error("scroll accepted during warm-up")
	}

	for i := 0; i < 3; i++ {
		e.Step(1.0 / 60)
	}
	if !e.Ready() {
		t.Fatal("engine not ready after warm-up frames")
	}

	e.OnScroll(500)
	if e.ScrollY() != 500 {
		t.Errorf("ScrollY = %v, want 500", e.ScrollY())
	}
}

func TestExactlyOneAttached(t *testing.T) {
	e, stage := newTestEngine(t, 0)

	for i := 0; i < 5; i++ {
		e.Step(1.0 / 60)
		if got := stage.Attached(); len(got) != 1 {
			t.Fatalf("frame %d: attached = %v, want exactly one", i, got)
		}
	}
}

func TestPresetAppliedEveryFrame(t *testing.T) {
	e, stage := newTestEngine(t, 0)

	// Unchanged scroll still pushes the preset each frame
	for i := 0; i < 10; i++ {
		e.Step(1.0 / 60)
	}
	if stage.Applied != 10 {
		t.Errorf("ApplyPreset calls = %d, want 10", stage.Applied)
	}
}

func TestSectionDrivesSequenceSwitch(t *testing.T) {
	e, stage := newTestEngine(t, 0)

	e.Step(1.0 / 60)
	if got := stage.Attached()[0]; got != 0 {
		t.Fatalf("attached = %d, want sequence 0 near page top", got)
	}

	// Scroll until the second section's center is nearest the view center
	e.OnScroll(1400)
	e.Step(1.0 / 60)
	if got := stage.Attached()[0]; got != 1 {
		t.Errorf("attached = %d, want sequence 1", got)
	}
	if e.LastSection() != "second" {
		t.Errorf("LastSection = %q, want second", e.LastSection())
	}
}

func TestDegenerateSectionsInert(t *testing.T) {
	cfg := testConfig(t, 0)
	for i := range cfg.Sections {
		cfg.Sections[i].Height = 0
	}
	ns := NewNullStage()
	e, err := New(cfg, Options{Stage: ns})
	if err != nil {
		t.Fatalf("New = %v", err)
	}

	e.Step(1.0 / 60)

	// Inert sampler: idle preset, nothing visible, nothing moving
	if ns.LastPreset.VisiblePct != 0 || ns.LastPreset.MovePct != 0 {
		t.Errorf("inert preset = %+v, want idle", ns.LastPreset)
	}
	if e.LastSection() != "" {
		t.Errorf("LastSection = %q, want empty", e.LastSection())
	}
}

func TestPlateauStableUnderJitter(t *testing.T) {
	e, stage := newTestEngine(t, 0)

	// Section 0 progress = (scrollY+600)/1800; the form plateau covers
	// t in [0.45, 0.62], so scroll 210..516 stays inside it
	e.OnScroll(300)
	e.Step(1.0 / 60)
	want := stage.LastPreset

	for _, y := range []float64{280, 320, 300, 250, 450} {
		e.OnScroll(y)
		e.Step(1.0 / 60)
		if stage.LastPreset != want {
			t.Fatalf("preset changed inside plateau at scroll %v", y)
		}
	}
}

func TestTimelineOverridesSampler(t *testing.T) {
	e, stage := newTestEngine(t, 0)

	if err := e.Timeline().Preview(2); err != nil {
		t.Fatalf("Preview = %v", err)
	}
	e.Step(1.0 / 60)

	// Default timeline state 2 is the cloud preset
	if stage.LastPreset.MovePct != 0 || stage.LastPreset.VisiblePct != 1 {
		t.Errorf("override preset = %+v, want cloud", stage.LastPreset)
	}
	if e.LastSection() != "" {
		t.Errorf("LastSection = %q, want empty under override", e.LastSection())
	}

	e.Timeline().Stop()
	e.Step(1.0 / 60)
	if e.LastSection() == "" {
		t.Error("sampler did not resume after Stop")
	}
}

func TestApplyOverridesRebuildsSampler(t *testing.T) {
	e, stage := newTestEngine(t, 0)

	if err := e.ApplyOverrides(config.Overrides{"form.point_size": 9.5}); err != nil {
		t.Fatalf("ApplyOverrides = %v", err)
	}

	// Scroll into the form plateau of section 0
	e.OnScroll(300)
	e.Step(1.0 / 60)
	if stage.LastPreset.PointSize != 9.5 {
		t.Errorf("form PointSize = %v, want 9.5", stage.LastPreset.PointSize)
	}
}

func TestApplyOverridesRejectedRestoresPresets(t *testing.T) {
	e, _ := newTestEngine(t, 0)

	// Break the breakpoint table underneath the rebuild so NewSampler
	// fails; ApplyOverrides must then leave no partial preset state behind
	e.cfg.Breakpoints.AppearingEnd = e.cfg.Breakpoints.IdleEnd - 0.01
	before := e.cfg.Presets

	if err := e.ApplyOverrides(config.Overrides{"form.point_size": 12.0}); err == nil {
		t.Fatal("ApplyOverrides accepted a non-increasing breakpoint table")
	}
	if e.cfg.Presets != before {
		t.Error("preset table mutated on the error path")
	}
}

func TestScrollClamped(t *testing.T) {
	e, _ := newTestEngine(t, 0)

	e.ScrollBy(-100)
	if e.ScrollY() != 0 {
		t.Errorf("ScrollY = %v, want clamp at 0", e.ScrollY())
	}
	e.OnScroll(1e9)
	if e.ScrollY() != e.PageHeight() {
		t.Errorf("ScrollY = %v, want clamp at page height %v", e.ScrollY(), e.PageHeight())
	}
}
