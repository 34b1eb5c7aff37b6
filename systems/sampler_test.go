package systems

import (
	"strings"
	"testing"
)

func testPresetSet() PresetSet {
	return PresetSet{
		Idle: Preset{
			Turb1: TurbLayer{Amount: 5, Speed: 0.3, Scale: 0.01, Evolution: 0.35},
			Turb2: TurbLayer{Amount: 1.6, Speed: 0.8, Scale: 0.07, Evolution: 1.0},
			PointSize: 1.4, EdgeSoftness: 0.8, EdgeFade: 0.25,
			Influence: 1, DragRange: 1, VisiblePct: 0, MovePct: 0,
		},
		Appearing: Preset{
			Turb1: TurbLayer{Amount: 4.2, Speed: 0.3, Scale: 0.011, Evolution: 0.35},
			Turb2: TurbLayer{Amount: 1.4, Speed: 0.8, Scale: 0.07, Evolution: 1.0},
			PointSize: 1.7, EdgeSoftness: 0.7, EdgeFade: 0.3,
			Influence: 1, DragRange: 1, VisiblePct: 0.45, MovePct: 0,
		},
		Cloud: Preset{
			Turb1: TurbLayer{Amount: 3.4, Speed: 0.35, Scale: 0.012, Evolution: 0.4},
			Turb2: TurbLayer{Amount: 1.2, Speed: 0.9, Scale: 0.08, Evolution: 1.1},
			PointSize: 2.0, EdgeSoftness: 0.6, EdgeFade: 0.4,
			Influence: 1, DragRange: 1, VisiblePct: 1, MovePct: 0,
		},
		Form: Preset{
			Turb1: TurbLayer{Amount: 0.5, Speed: 0.2, Scale: 0.015, Evolution: 0.25},
			Turb2: TurbLayer{Amount: 0.2, Speed: 0.5, Scale: 0.09, Evolution: 0.6},
			PointSize: 2.4, EdgeSoftness: 0.3, EdgeFade: 0.9,
			Influence: 0.15, DragRange: 0.1, VisiblePct: 1, MovePct: 1,
		},
	}
}

var testBreakpoints = Breakpoints{
	IdleEnd:       0.25,
	AppearingEnd:  0.40,
	FormReach:     0.55,
	FormHoldEnd:   0.65,
	ReverseClose1: 0.80,
	ReverseClose2: 0.92,
}

func mustSampler(t *testing.T) *Sampler {
	t.Helper()
	s, err := NewSampler(testBreakpoints, testPresetSet(), EaseCubic)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	return s
}

func TestSampleBoundaries(t *testing.T) {
	s := mustSampler(t)
	ps := testPresetSet()
	if got := s.Sample(0); got != ps.Idle {
		t.Errorf("Sample(0) = %+v, want the idle preset", got)
	}
	if got := s.Sample(1); got != ps.Idle {
		t.Errorf("Sample(1) = %+v, want the idle preset", got)
	}
}

func TestFormPlateauExact(t *testing.T) {
	s := mustSampler(t)
	form := testPresetSet().Form
	for _, tt := range []float64{0.55, 0.58, 0.6, 0.649, 0.65} {
		if got := s.Sample(tt); got != form {
			t.Errorf("Sample(%v) = %+v, want the form preset exactly", tt, got)
		}
	}
}

func TestSamplePure(t *testing.T) {
	s := mustSampler(t)
	for _, tt := range []float64{0, 0.1, 0.27, 0.44, 0.6, 0.72, 0.85, 0.95, 1} {
		if a, b := s.Sample(tt), s.Sample(tt); a != b {
			t.Errorf("Sample(%v) differs between calls: %+v vs %+v", tt, a, b)
		}
	}
}

func TestSampleBlendsBetweenStates(t *testing.T) {
	s := mustSampler(t)
	ps := testPresetSet()

	// midway through idle→appearing: strictly between the endpoints
	got := s.Sample(0.125)
	if !(got.VisiblePct > ps.Idle.VisiblePct && got.VisiblePct < ps.Appearing.VisiblePct) {
		t.Errorf("Sample(0.125).VisiblePct = %v, want inside (%v, %v)",
			got.VisiblePct, ps.Idle.VisiblePct, ps.Appearing.VisiblePct)
	}

	// approaching formReach the blend approaches FORM
	near := s.Sample(0.549)
	if d := near.MovePct - ps.Form.MovePct; d > 0.02 || d < -0.02 {
		t.Errorf("Sample(0.549).MovePct = %v, want ~%v", near.MovePct, ps.Form.MovePct)
	}
}

func TestSampleMonotonicWithinSegment(t *testing.T) {
	s := mustSampler(t)
	// move-percentage climbs monotonically across the cloud→form segment
	prev := -1.0
	for tt := 0.40; tt <= 0.55; tt += 0.01 {
		got := s.Sample(tt).MovePct
		if got < prev-1e-12 {
			t.Fatalf("MovePct decreased within segment at t=%v: %v -> %v", tt, prev, got)
		}
		prev = got
	}
}

func TestSamplerRejectsBadBreakpoints(t *testing.T) {
	good := testBreakpoints
	tests := []struct {
		name   string
		mutate func(*Breakpoints)
		errHas string
	}{
		{"zero idleEnd", func(b *Breakpoints) { b.IdleEnd = 0 }, "idleEnd"},
		{"appearing below idle", func(b *Breakpoints) { b.AppearingEnd = 0.2 }, "appearingEnd"},
		{"formReach below appearing", func(b *Breakpoints) { b.FormReach = 0.40 }, "formReach"},
		{"hold before reach", func(b *Breakpoints) { b.FormHoldEnd = 0.5 }, "formHoldEnd"},
		{"reverse1 inside hold", func(b *Breakpoints) { b.ReverseClose1 = 0.65 }, "reverseClose1"},
		{"reverse2 below reverse1", func(b *Breakpoints) { b.ReverseClose2 = 0.80 }, "reverseClose2"},
		{"reverse2 at one", func(b *Breakpoints) { b.ReverseClose2 = 1 }, "reverseClose2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := good
			tt.mutate(&bp)
			_, err := NewSampler(bp, testPresetSet(), EaseCubic)
			if err == nil {
				t.Fatalf("NewSampler accepted %+v", bp)
			}
			if !strings.Contains(err.Error(), tt.errHas) {
				t.Errorf("error %q does not mention %q", err, tt.errHas)
			}
		})
	}
}

func TestSamplerAllowsZeroWidthPlateau(t *testing.T) {
	bp := testBreakpoints
	bp.FormHoldEnd = bp.FormReach
	s, err := NewSampler(bp, testPresetSet(), EaseCubic)
	if err != nil {
		t.Fatalf("NewSampler rejected a zero-width plateau: %v", err)
	}
	if got := s.Sample(bp.FormReach); got != testPresetSet().Form {
		t.Errorf("Sample(formReach) = %+v, want the form preset", got)
	}
}

func TestEasingParseRoundtrip(t *testing.T) {
	for e := EaseCubic; e < easingCount; e++ {
		got, err := ParseEasing(e.String())
		if err != nil {
			t.Fatalf("ParseEasing(%q): %v", e.String(), err)
		}
		if got != e {
			t.Errorf("ParseEasing(%q) = %v, want %v", e.String(), got, e)
		}
	}
	if _, err := ParseEasing("bounce"); err == nil {
		t.Error("ParseEasing(\"bounce\") should fail")
	}
}

func TestEaseEndpoints(t *testing.T) {
	for e := EaseCubic; e < easingCount; e++ {
		if got := e.apply(0); got != 0 {
			t.Errorf("%v.apply(0) = %v, want 0", e, got)
		}
		if got := e.apply(1); got != 1 {
			t.Errorf("%v.apply(1) = %v, want 1", e, got)
		}
	}
}

func TestSmoothstepZeroSlopeAtEnds(t *testing.T) {
	const h = 1e-4
	if d := Smoothstep(h) / h; d > 0.01 {
		t.Errorf("slope near 0 = %v, want ~0", d)
	}
	if d := (1 - Smoothstep(1-h)) / h; d > 0.01 {
		t.Errorf("slope near 1 = %v, want ~0", d)
	}
}
