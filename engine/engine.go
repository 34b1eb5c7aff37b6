// Package engine orchestrates the particle animation: it owns the
// single-threaded frame loop that samples the scroll state, integrates
// every particle channel, and couples the result to the render stage.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/murmur/camera"
	"github.com/pthm-cable/murmur/config"
	"github.com/pthm-cable/murmur/systems"
	"github.com/pthm-cable/murmur/telemetry"
	"github.com/pthm-cable/murmur/timeline"
)

// Engine ties the animation core together. All mutable per-particle state
// is owned by the integrator's buffer and touched only from Step; the
// event side (scroll, resize) writes nothing but plain scalars consumed by
// the next frame, so no locking exists anywhere.
type Engine struct {
	cfg   *config.Config
	stage Stage

	cam     *camera.Camera
	tracker *systems.SectionTracker
	sampler *systems.Sampler
	presets systems.PresetSet
	store   *systems.SequenceStore
	buf     *systems.ParticleBuffer
	timing  *systems.TimingStore
	integ   *systems.Integrator
	machine *timeline.Machine

	pattern      systems.Pattern
	patternScale float64

	collector *telemetry.Collector
	output    *telemetry.OutputManager

	// scrollY is the only state crossing the event/frame boundary: event
	// handlers write it, Step is the sole reader.
	scrollY float64

	frame       int
	warmupLeft  int
	lastPreset  systems.Preset
	lastSection string
	lastScrollT float64
	noSectWarn  bool
}

// Options configures engine construction.
type Options struct {
	Stage     Stage                    // required
	Output    *telemetry.OutputManager // optional CSV logging
	Telemetry bool                     // overrides cfg.Telemetry.Enabled when true
}

// New loads all sequences, builds the particle state, and arms the warm-up
// window. Blocks until every sequence has loaded (or fallen back).
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if opts.Stage == nil {
		return nil, fmt.Errorf("engine: no stage")
	}

	pattern, err := systems.ParsePattern(cfg.Particles.Pattern)
	if err != nil {
		slog.Warn("unknown ordering pattern, using random", "pattern", cfg.Particles.Pattern)
		pattern = systems.PatternRandom
	}

	presets := presetSetFromConfig(cfg.Presets)
	ease, err := systems.ParseEasing(cfg.Presets.Easing)
	if err != nil {
		slog.Warn("unknown easing, using cubic", "easing", cfg.Presets.Easing)
	}
	sampler, err := systems.NewSampler(breakpointsFromConfig(cfg.Breakpoints), presets, ease)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	seqs := loadSequences(cfg.Sequences)
	if len(seqs) == 0 {
		return nil, fmt.Errorf("engine: no sequences configured")
	}
	store := systems.NewSequenceStore(seqs)

	buf := systems.NewParticleBuffer(seqs[0], systems.SpawnExtent{
		X: cfg.Particles.SpawnExtentX,
		Y: cfg.Particles.SpawnExtentY,
		Z: cfg.Particles.SpawnExtentZ,
	})
	buf.AssignRanks(pattern, cfg.Particles.PatternScale)

	timing := systems.NewTimingStore(buf.Count,
		systems.TimingRange{MinFrames: cfg.Timing.FadeMinFrames, MaxFrames: cfg.Timing.FadeMaxFrames},
		systems.TimingRange{MinFrames: cfg.Timing.MoveMinFrames, MaxFrames: cfg.Timing.MoveMaxFrames},
		systems.TimingRange{MinFrames: cfg.Timing.DragMinFrames, MaxFrames: cfg.Timing.DragMaxFrames},
	)

	turb := systems.NewTurbulence(systems.NewNoiseField(cfg.Particles.NoiseSeed))
	integ := systems.NewIntegrator(buf, timing, turb)

	cam := camera.New(cfg.Derived.ViewportW, cfg.Derived.ViewportH, cfg.Page.DesignWidth)
	tracker := systems.NewSectionTracker(sectionsFromConfig(cfg.Sections), cfg.Derived.ViewportH/cam.Scale)

	e := &Engine{
		cfg:          cfg,
		stage:        opts.Stage,
		cam:          cam,
		tracker:      tracker,
		sampler:      sampler,
		presets:      presets,
		store:        store,
		buf:          buf,
		timing:       timing,
		integ:        integ,
		machine:      timeline.NewMachine(timelineStatesFromConfig(cfg.Timeline, presets)),
		pattern:      pattern,
		patternScale: cfg.Particles.PatternScale,
		output:       opts.Output,
		warmupLeft:   cfg.Engine.WarmupFrames,
		lastPreset:   presets.Idle,
	}
	if cfg.Telemetry.Enabled || opts.Telemetry {
		e.collector = telemetry.NewCollector(cfg.Telemetry.WindowFrames)
	}

	slog.Info("engine ready",
		"particles", buf.Count,
		"sequences", store.Len(),
		"sections", tracker.Len(),
		"pattern", pattern.String(),
		"warmup_frames", e.warmupLeft)
	return e, nil
}

// OnScroll records the page scroll offset. Safe to call from event
// handlers at any rate; the value is consumed once per frame. Ignored
// until warm-up completes.
func (e *Engine) OnScroll(y float64) {
	if e.warmupLeft > 0 {
		return
	}
	if y < 0 {
		y = 0
	}
	if max := e.cfg.Derived.PageHeight; y > max {
		y = max
	}
	e.scrollY = y
}

// ScrollBy nudges the scroll offset, the wheel-event entry point.
func (e *Engine) ScrollBy(dy float64) {
	e.OnScroll(e.scrollY + dy)
}

// Resize recomputes derived projection constants for a new viewport.
// Nothing else is rebuilt; in-flight state is untouched.
func (e *Engine) Resize(viewportW, viewportH float64) {
	e.cam.Resize(viewportW, viewportH)
	e.tracker.Resize(viewportH / e.cam.Scale)
}

// Ready reports whether warm-up has completed and scroll input is live.
func (e *Engine) Ready() bool { return e.warmupLeft == 0 }

// Accessors for the viewer, tools and tests.

func (e *Engine) Camera() *camera.Camera { return e.cam }

func (e *Engine) Buffer() *systems.ParticleBuffer { return e.buf }

func (e *Engine) Sequences() *systems.SequenceStore { return e.store }

func (e *Engine) Timeline() *timeline.Machine { return e.machine }

func (e *Engine) Pattern() systems.Pattern { return e.pattern }

func (e *Engine) ScrollY() float64 { return e.scrollY }

func (e *Engine) Frame() int { return e.frame }

func (e *Engine) LastPreset() systems.Preset { return e.lastPreset }

func (e *Engine) LastSection() string { return e.lastSection }

func (e *Engine) LastScrollT() float64 { return e.lastScrollT }

func (e *Engine) PageHeight() float64 { return e.cfg.Derived.PageHeight }

// JumpToSection scrolls so that the section delta steps away from the
// current driving one sits centered in the viewport. No-op while warming
// up or without sections.
func (e *Engine) JumpToSection(delta int) {
	if e.warmupLeft > 0 || e.tracker.Len() == 0 {
		return
	}
	cur, _, ok := e.tracker.Drive()
	if !ok {
		return
	}
	target := cur + delta
	if target < 0 {
		target = 0
	}
	if target >= e.tracker.Len() {
		target = e.tracker.Len() - 1
	}
	sec := e.tracker.Section(target)
	viewH := e.cam.ViewportH / e.cam.Scale
	e.OnScroll(sec.Top + sec.Height/2 - viewH/2)
}

// CyclePattern moves to the next ordering pattern and relays both rank
// families over the grid.
func (e *Engine) CyclePattern() systems.Pattern {
	e.pattern = e.pattern.Next()
	e.buf.AssignRanks(e.pattern, e.patternScale)
	slog.Info("ordering pattern changed", "pattern", e.pattern.String())
	return e.pattern
}

// ApplyOverrides lays a control-panel override map onto the config and
// rebuilds the sampler so preset changes take effect immediately. The
// override surface cannot touch the breakpoint table, but if the rebuild
// is ever rejected the preset table is restored and the previous sampler
// stays live - no partial state survives the error path.
func (e *Engine) ApplyOverrides(o config.Overrides) error {
	prev := e.cfg.Presets
	applied := o.Apply(e.cfg)
	presets := presetSetFromConfig(e.cfg.Presets)
	ease, _ := systems.ParseEasing(e.cfg.Presets.Easing)
	sampler, err := systems.NewSampler(breakpointsFromConfig(e.cfg.Breakpoints), presets, ease)
	if err != nil {
		e.cfg.Presets = prev
		return fmt.Errorf("overrides rejected: %w", err)
	}
	e.presets = presets
	e.sampler = sampler
	slog.Info("overrides applied", "keys", applied)
	return nil
}

// Snapshot captures the engine's animation state for a debugging dump.
func (e *Engine) Snapshot() *telemetry.Snapshot {
	fadeMean, moveMean := e.channelMeans()
	return &telemetry.Snapshot{
		Version:        telemetry.SnapshotVersion,
		TimeSec:        e.integ.Time(),
		Frame:          e.frame,
		ParticleCount:  e.buf.Count,
		Pattern:        e.pattern.String(),
		ActiveSequence: e.store.Active().Name,
		ScrollY:        e.scrollY,
		Section:        e.lastSection,
		ScrollT:        e.lastScrollT,
		FadeMean:       fadeMean,
		MoveMean:       moveMean,
		Preset:         e.lastPreset,
	}
}

func (e *Engine) channelMeans() (fade, move float64) {
	if e.buf.Count == 0 {
		return 0, 0
	}
	var fs, ms float64
	for i := 0; i < e.buf.Count; i++ {
		fs += float64(e.buf.FadeCur[i])
		ms += float64(e.buf.MoveCur[i])
	}
	n := float64(e.buf.Count)
	return fs / n, ms / n
}

// Close flushes telemetry output.
func (e *Engine) Close() {
	if e.collector != nil {
		if stats, ok := e.collector.Flush(); ok {
			if err := e.output.WriteWindow(stats); err != nil {
				slog.Error("writing final telemetry window", "error", err)
			}
		}
	}
	if err := e.output.Close(); err != nil {
		slog.Error("closing telemetry output", "error", err)
	}
}
