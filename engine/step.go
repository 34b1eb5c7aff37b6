package engine

import (
	"log/slog"

	"github.com/pthm-cable/murmur/systems"
	"github.com/pthm-cable/murmur/telemetry"
)

// Step advances one animation frame: consume the scroll snapshot, resolve
// the driving preset, integrate every particle channel, and couple the
// result to the stage. Called exactly once per display refresh (or per
// capture tick); everything here completes before any render submission.
func (e *Engine) Step(dt float64) {
	e.frame++

	// The scroll scalar was written by event handlers since last frame;
	// it is read exactly here.
	e.cam.SetScroll(e.scrollY)
	e.tracker.OnScroll(e.scrollY)

	preset, section, scrollT := e.resolvePreset(dt)
	e.lastPreset = preset
	e.lastSection = section
	e.lastScrollT = scrollT

	e.integ.Step(dt, preset, e.store.Active(), e.scrollY)

	// Push the full coupling every frame, even when nothing changed
	e.stage.SetActive(e.store.ActiveIndex())
	e.stage.ApplyPreset(preset)

	if e.warmupLeft > 0 {
		// Warm-up frames are rendered and discarded so the external
		// backend finishes program compilation before real scrolling
		e.warmupLeft--
		if e.warmupLeft == 0 {
			slog.Info("warm-up complete", "frame", e.frame)
		}
		return
	}

	e.recordTelemetry(dt, preset, section, scrollT)
}

// resolvePreset picks this frame's parameter bundle: timeline override
// first, otherwise the scroll sampler fed by the driving section.
func (e *Engine) resolvePreset(dt float64) (p systems.Preset, section string, scrollT float64) {
	if preset, override := e.machine.Current(); override {
		e.machine.Advance(dt)
		return preset, "", 0
	}

	idx, t, ok := e.tracker.Drive()
	if !ok {
		// No usable section on the page: stay fully dispersed. Warned
		// once, never fatal.
		if !e.noSectWarn {
			slog.Warn("no tracked section found, sampler inert")
			e.noSectWarn = true
		}
		return e.presets.Idle, "", 0
	}

	sec := e.tracker.Section(idx)
	if sec.Sequence != e.store.ActiveIndex() {
		// Retarget only: channel state and turbulence phase survive the
		// switch, so this is invisible while dispersed and a smooth
		// retarget while formed
		if err := e.store.SwitchTo(sec.Sequence); err != nil {
			slog.Error("sequence switch failed", "section", sec.Name, "error", err)
		}
	}
	return e.sampler.Sample(t), sec.Name, t
}

func (e *Engine) recordTelemetry(dt float64, p systems.Preset, section string, scrollT float64) {
	if e.collector == nil {
		return
	}
	fadeMean, moveMean := e.channelMeans()
	stats, done := e.collector.Record(telemetry.FrameSample{
		DT:       dt,
		ScrollT:  scrollT,
		Section:  section,
		VisPct:   p.VisiblePct,
		MovePct:  p.MovePct,
		FadeMean: fadeMean,
		MoveMean: moveMean,
	})
	if !done {
		return
	}
	if err := e.output.WriteWindow(stats); err != nil {
		slog.Error("writing telemetry window", "error", err)
	}
	slog.Info("window",
		"frame", stats.WindowEndFrame,
		"frame_ms", stats.FrameMsMean,
		"section", stats.Section,
		"scroll_t", stats.ScrollTMean,
		"fade", stats.FadeMean,
		"move", stats.MoveMean)
}
