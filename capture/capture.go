// Package capture encodes deterministic-timestep frame exports: PNG stills
// and a muxed GIF. It consumes plain image.Image readbacks, so it carries
// no rendering dependency and runs in tests.
package capture

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
)

// Clock is the export clock: it advances by exactly 1/frameRate per frame,
// never wall time. Time is computed from the frame index rather than
// accumulated, so frame n is always exactly n/frameRate with no float
// drift across long captures.
type Clock struct {
	frameRate float64
	frame     int
}

// NewClock creates a clock at the given frame rate. Non-positive rates
// fall back to 60.
func NewClock(frameRate float64) *Clock {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &Clock{frameRate: frameRate}
}

// Frame returns the current frame index.
func (c *Clock) Frame() int { return c.frame }

// Time returns the current frame's timestamp in seconds.
func (c *Clock) Time() float64 { return float64(c.frame) / c.frameRate }

// DT returns the fixed per-frame step in seconds.
func (c *Clock) DT() float64 { return 1 / c.frameRate }

// Tick advances to the next frame and returns its timestamp.
func (c *Clock) Tick() float64 {
	c.frame++
	return c.Time()
}

// Recorder writes each added frame as a PNG still and/or collects it into
// an animated GIF. Either output can be disabled.
type Recorder struct {
	dir       string // PNG output dir, empty = stills disabled
	gifPath   string // empty = GIF disabled
	frameRate float64

	anim   *gif.GIF
	frames int
}

// NewRecorder creates a recorder. dir receives numbered PNG stills,
// gifPath the muxed animation; pass "" to disable either.
func NewRecorder(dir, gifPath string, frameRate float64) (*Recorder, error) {
	if frameRate <= 0 {
		frameRate = 60
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating frames directory: %w", err)
		}
	}
	r := &Recorder{dir: dir, gifPath: gifPath, frameRate: frameRate}
	if gifPath != "" {
		r.anim = &gif.GIF{}
	}
	return r, nil
}

// Frames returns how many frames have been added.
func (r *Recorder) Frames() int { return r.frames }

// AddFrame encodes one frame. Frames are numbered in call order; the
// caller owns pacing via the Clock.
func (r *Recorder) AddFrame(img image.Image) error {
	if r.dir != "" {
		path := filepath.Join(r.dir, fmt.Sprintf("%04d.png", r.frames))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
	}

	if r.anim != nil {
		pal := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, img.Bounds(), img, image.Point{})
		r.anim.Image = append(r.anim.Image, pal)
		r.anim.Delay = append(r.anim.Delay, gifDelay(r.frameRate))
	}

	r.frames++
	return nil
}

// Close writes the GIF, if one was requested.
func (r *Recorder) Close() error {
	if r.anim == nil || len(r.anim.Image) == 0 {
		return nil
	}
	f, err := os.Create(r.gifPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", r.gifPath, err)
	}
	if err := gif.EncodeAll(f, r.anim); err != nil {
		f.Close()
		return fmt.Errorf("encoding gif: %w", err)
	}
	return f.Close()
}

// gifDelay converts a frame rate to GIF's centisecond delay unit, with a
// floor of 2cs (browsers treat smaller delays as 10cs).
func gifDelay(frameRate float64) int {
	d := int(100/frameRate + 0.5)
	if d < 2 {
		d = 2
	}
	return d
}
