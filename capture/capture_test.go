package capture

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
)

func TestClockExactTimestep(t *testing.T) {
	c := NewClock(30)

	if c.Time() != 0 {
		t.Errorf("Time() at frame 0 = %v, want 0", c.Time())
	}
	for i := 1; i <= 300; i++ {
		c.Tick()
		want := float64(i) / 30
		if got := c.Time(); got != want {
			t.Fatalf("frame %d: Time() = %v, want exactly %v", i, got, want)
		}
	}
	if c.Frame() != 300 {
		t.Errorf("Frame() = %d, want 300", c.Frame())
	}
}

func TestClockDT(t *testing.T) {
	c := NewClock(60)
	if c.DT() != 1.0/60 {
		t.Errorf("DT() = %v, want %v", c.DT(), 1.0/60)
	}
	// Non-positive rates fall back instead of dividing by zero
	if NewClock(0).DT() <= 0 {
		t.Error("NewClock(0).DT() not positive")
	}
}

func testFrame(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRecorderStills(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir, "", 30)
	if err != nil {
		t.Fatalf("NewRecorder = %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := r.AddFrame(testFrame(color.RGBA{R: uint8(i * 80), A: 255})); err != nil {
			t.Fatalf("AddFrame(%d) = %v", i, err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close = %v", err)
	}

	for i := 0; i < 3; i++ {
		name := filepath.Join(dir, []string{"0000.png", "0001.png", "0002.png"}[i])
		if _, err := os.Stat(name); err != nil {
			t.Errorf("missing still %s: %v", name, err)
		}
	}
}

func TestRecorderGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	r, err := NewRecorder("", path, 25)
	if err != nil {
		t.Fatalf("NewRecorder = %v", err)
	}

	for i := 0; i < 4; i++ {
		if err := r.AddFrame(testFrame(color.RGBA{G: uint8(60 * i), A: 255})); err != nil {
			t.Fatalf("AddFrame(%d) = %v", i, err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening gif: %v", err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decoding gif: %v", err)
	}
	if len(g.Image) != 4 {
		t.Errorf("gif frames = %d, want 4", len(g.Image))
	}
	// 25 fps = 4cs per frame
	for i, d := range g.Delay {
		if d != 4 {
			t.Errorf("frame %d delay = %dcs, want 4", i, d)
		}
	}
}

func TestGifDelayFloor(t *testing.T) {
	if d := gifDelay(120); d != 2 {
		t.Errorf("gifDelay(120) = %d, want floor 2", d)
	}
}
