// murmur renders scroll-driven particle formations: an interactive viewer
// simulating the host page's scroll container, or a headless fixed-step
// run for telemetry.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/quasilyte/gdata/v2"

	"github.com/pthm-cable/murmur/config"
	"github.com/pthm-cable/murmur/engine"
	"github.com/pthm-cable/murmur/renderer"
	"github.com/pthm-cable/murmur/telemetry"
	"github.com/pthm-cable/murmur/timeline"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	frames := flag.Int("frames", 600, "Headless: number of fixed-step frames to run")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	enableTelemetry := flag.Bool("telemetry", false, "Collect frame telemetry regardless of config")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "snapshots", "Directory for state snapshot files")
	overridesPath := flag.String("overrides", "", "Overrides JSON file applied over stored overrides")

	flag.Parse()

	setupLogging(*logLevel, *logFormat)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Stored overrides first, then any file passed on the command line
	store := config.OpenStore("murmur")
	config.LoadOverrides(store).Apply(cfg)
	if *overridesPath != "" {
		config.LoadOverridesFile(*overridesPath).Apply(cfg)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to open output directory", "error", err)
		os.Exit(1)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if *headless {
		runHeadless(cfg, output, *frames, *enableTelemetry)
		return
	}
	runViewer(cfg, output, store, *enableTelemetry, *snapshotDir)
}

func setupLogging(level, format string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// runHeadless steps the engine with a fixed dt and the recording stage,
// sweeping the page once so every breakpoint segment is exercised.
func runHeadless(cfg *config.Config, output *telemetry.OutputManager, frames int, forceTelemetry bool) {
	e, err := engine.New(cfg, engine.Options{
		Stage:     engine.NewNullStage(),
		Output:    output,
		Telemetry: forceTelemetry || output != nil,
	})
	if err != nil {
		slog.Error("engine init failed", "error", err)
		os.Exit(1)
	}
	defer e.Close()

	slog.Info("starting headless run", "frames", frames)
	const dt = 1.0 / 60
	for i := 0; i < frames; i++ {
		if e.Ready() {
			e.OnScroll(float64(i) / float64(frames) * e.PageHeight())
		}
		e.Step(dt)
	}
	slog.Info("headless run complete", "frames", e.Frame())
}

// runViewer opens the window and drives the engine from real input.
func runViewer(cfg *config.Config, output *telemetry.OutputManager, store *gdata.Manager, forceTelemetry bool, snapshotDir string) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "murmur")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	stage := renderer.NewPointStage(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Render)
	defer stage.Unload()

	e, err := engine.New(cfg, engine.Options{
		Stage:     stage,
		Output:    output,
		Telemetry: forceTelemetry,
	})
	if err != nil {
		slog.Error("engine init failed", "error", err)
		os.Exit(1)
	}
	defer e.Close()

	stage.SetSequences(e.Sequences())
	stage.Init()
	hud := renderer.NewHUD(int32(cfg.Screen.Width), int32(cfg.Screen.Height))

	for !rl.WindowShouldClose() {
		handleInput(e, stage, cfg, store, snapshotDir)

		if rl.IsWindowResized() {
			w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
			e.Resize(float64(w), float64(h))
			stage.Resize(int32(w), int32(h))
			hud.Resize(int32(w), int32(h))
		}

		e.Step(float64(rl.GetFrameTime()))

		rl.BeginDrawing()
		stage.Draw(e.Buffer(), e.Camera())
		drawHUD(hud, e)
		rl.EndDrawing()
	}
}

// handleInput maps viewer keys onto engine operations. The mouse wheel is
// the scroll container stand-in.
func handleInput(e *engine.Engine, stage *renderer.PointStage, cfg *config.Config, store *gdata.Manager, snapshotDir string) {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		e.ScrollBy(float64(-wheel) * cfg.Page.ScrollStep)
	}
	if rl.IsKeyPressed(rl.KeyPageDown) {
		e.JumpToSection(1)
	}
	if rl.IsKeyPressed(rl.KeyPageUp) {
		e.JumpToSection(-1)
	}

	// Number keys preview timeline states
	for k := 0; k < 9 && k < e.Timeline().Len(); k++ {
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(k)) {
			if err := e.Timeline().Preview(k); err != nil {
				slog.Warn("preview rejected", "state", k, "error", err)
			}
		}
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if e.Timeline().Phase() == timeline.PhaseIdle {
			if err := e.Timeline().Play(); err != nil {
				slog.Warn("play rejected", "error", err)
			}
		} else {
			e.Timeline().Stop()
		}
	}

	if rl.IsKeyPressed(rl.KeyF) {
		e.CyclePattern()
	}
	if rl.IsKeyPressed(rl.KeyO) {
		cfg.Render.OutlineFrame = !cfg.Render.OutlineFrame
		stage.SetRenderConfig(cfg.Render)
	}
	if rl.IsKeyPressed(rl.KeyE) {
		o := config.Collect(cfg)
		if err := o.ExportFile("overrides.json"); err != nil {
			slog.Error("override export failed", "error", err)
		} else {
			slog.Info("overrides exported", "path", "overrides.json")
		}
		if err := config.SaveOverrides(store, o); err != nil {
			slog.Warn("override persistence failed", "error", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyS) {
		if path, err := telemetry.SaveSnapshot(e.Snapshot(), snapshotDir); err != nil {
			slog.Error("snapshot failed", "error", err)
		} else {
			slog.Info("snapshot saved", "path", path)
		}
	}
}

func drawHUD(hud *renderer.HUD, e *engine.Engine) {
	p := e.LastPreset()
	lines := []string{
		fmt.Sprintf("%d fps  frame %d", rl.GetFPS(), e.Frame()),
		fmt.Sprintf("sequence %s  pattern %s", e.Sequences().Active().Name, e.Pattern()),
		fmt.Sprintf("timeline %s", e.Timeline().Phase()),
		fmt.Sprintf("visible %.2f  move %.2f", p.VisiblePct, p.MovePct),
	}
	hud.DrawLines(lines)

	pageT := 0.0
	if e.PageHeight() > 0 {
		pageT = e.ScrollY() / e.PageHeight()
	}
	section := e.LastSection()
	if section == "" {
		section = "-"
	}
	hud.DrawScrollBar(pageT, e.LastScrollT(), section)
}
