package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 1440)

	if cam.ScrollY != 0 {
		t.Errorf("expected scroll 0, got %f", cam.ScrollY)
	}
	// Scale = viewport width / design width
	if math.Abs(cam.Scale-1280.0/1440.0) > 1e-9 {
		t.Errorf("expected scale %f, got %f", 1280.0/1440.0, cam.Scale)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 1280) // 1:1 scale

	// World X=0 is the horizontal middle of the screen
	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(sx-640) > 0.01 || math.Abs(sy-0) > 0.01 {
		t.Errorf("expected (640, 0), got (%f, %f)", sx, sy)
	}
}

func TestScrollShiftsVertically(t *testing.T) {
	cam := New(1280, 720, 1280)
	cam.SetScroll(500)

	// A point at page Y=500 sits at the viewport top after scrolling there
	_, sy := cam.WorldToScreen(0, 500)
	if math.Abs(sy) > 0.01 {
		t.Errorf("expected y=0 at viewport top, got %f", sy)
	}
	// Scroll must not move points horizontally
	sx, _ := cam.WorldToScreen(100, 500)
	if math.Abs(sx-740) > 0.01 {
		t.Errorf("expected x=740, got %f", sx)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 1440)
	cam.SetScroll(1234)

	testCases := []struct{ sx, sy float64 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(sx-tc.sx) > 0.01 || math.Abs(sy-tc.sy) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestResizeRecomputesOnlyDerived(t *testing.T) {
	cam := New(1280, 720, 1440)
	cam.SetScroll(999)

	cam.Resize(720, 1280) // portrait

	if cam.ScrollY != 999 {
		t.Errorf("resize changed scroll: %f", cam.ScrollY)
	}
	if cam.DesignW != 1440 {
		t.Errorf("resize changed design width: %f", cam.DesignW)
	}
	if math.Abs(cam.Scale-720.0/1440.0) > 1e-9 {
		t.Errorf("expected scale %f, got %f", 720.0/1440.0, cam.Scale)
	}
}

func TestVisible(t *testing.T) {
	cam := New(1280, 720, 1280)

	if !cam.Visible(0, 360, 0) {
		t.Error("expected center point visible")
	}
	if cam.Visible(0, 5000, 0) {
		t.Error("expected far-below point invisible")
	}
	// Margin pulls off-screen points back into the visible set
	if !cam.Visible(0, 730, 20) {
		t.Error("expected just-below point visible with margin")
	}
}

func TestViewCenterY(t *testing.T) {
	cam := New(1280, 720, 1280)
	cam.SetScroll(100)

	if got, want := cam.ViewCenterY(), 460.0; math.Abs(got-want) > 0.01 {
		t.Errorf("ViewCenterY = %f, want %f", got, want)
	}
}
