// Offline timeline capture - renders the authored timeline with a fixed
// capture clock and writes numbered PNG stills plus a muxed GIF. Output is
// deterministic: frame n is always rendered at exactly n/fps seconds, so
// two runs of the same config produce identical frames.
//
// Usage: go run ./cmd/record -out renders -gif renders/out.gif
package main

import (
	"flag"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/murmur/capture"
	"github.com/pthm-cable/murmur/config"
	"github.com/pthm-cable/murmur/engine"
	"github.com/pthm-cable/murmur/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outDir := flag.String("out", "renders", "Directory for PNG stills (empty = stills disabled)")
	gifPath := flag.String("gif", "", "Animated GIF output path (empty = GIF disabled)")
	fps := flag.Float64("fps", 30, "Capture frame rate")
	tailSec := flag.Float64("tail", 1.0, "Seconds to keep recording after the final state lands")
	maxFrames := flag.Int("max-frames", 5000, "Hard frame cap, guards against runaway captures")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if *outDir == "" && *gifPath == "" {
		slog.Error("nothing to write: both -out and -gif are empty")
		os.Exit(1)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "murmur record")
	defer rl.CloseWindow()

	stage := renderer.NewPointStage(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Render)
	defer stage.Unload()

	e, err := engine.New(cfg, engine.Options{Stage: stage})
	if err != nil {
		slog.Error("engine init failed", "error", err)
		os.Exit(1)
	}
	defer e.Close()

	stage.SetSequences(e.Sequences())
	stage.Init()

	rec, err := capture.NewRecorder(*outDir, *gifPath, *fps)
	if err != nil {
		slog.Error("recorder init failed", "error", err)
		os.Exit(1)
	}

	clock := capture.NewClock(*fps)

	// Warm-up frames run on the capture clock but are not recorded
	for !e.Ready() {
		e.Step(clock.DT())
		drawFrame(stage, e)
	}

	if err := e.Timeline().BeginRender(); err != nil {
		slog.Error("timeline render start failed", "error", err)
		os.Exit(1)
	}
	slog.Info("capture started",
		"states", e.Timeline().Len(),
		"fps", *fps,
		"out", *outDir,
		"gif", *gifPath)

	tailLeft := int(*tailSec * *fps)
	for clock.Frame() < *maxFrames {
		e.Step(clock.DT())
		drawFrame(stage, e)

		if err := rec.AddFrame(readback()); err != nil {
			slog.Error("frame write failed", "frame", clock.Frame(), "error", err)
			os.Exit(1)
		}
		clock.Tick()

		if e.Timeline().AtEnd() {
			if tailLeft == 0 {
				break
			}
			tailLeft--
		}
	}
	if err := e.Timeline().Finish(); err != nil {
		slog.Warn("timeline finish", "error", err)
	}

	if err := rec.Close(); err != nil {
		slog.Error("gif mux failed", "error", err)
		os.Exit(1)
	}
	slog.Info("capture complete",
		"frames", rec.Frames(),
		"duration_sec", clock.Time(),
		"dir", filepath.Clean(*outDir))
}

func drawFrame(stage *renderer.PointStage, e *engine.Engine) {
	rl.BeginDrawing()
	stage.Draw(e.Buffer(), e.Camera())
	rl.EndDrawing()
}

// readback copies the finished frame out of the backbuffer into a plain
// image for the encoder.
func readback() image.Image {
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)

	w, h := int(img.Width), int(img.Height)
	colors := rl.LoadImageColors(img)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(x, y, colors[y*w+x])
		}
	}
	return out
}
