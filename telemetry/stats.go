// Package telemetry collects per-frame engine observations into windowed
// statistics for CSV logging and JSON debugging dumps.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FrameSample is one frame's worth of engine observations.
type FrameSample struct {
	DT       float64 // wall seconds of the frame
	ScrollT  float64 // driving section's scroll progress, 0 when inert
	Section  string  // driving section name, empty when inert
	VisPct   float64 // sampled preset's visible percentage target
	MovePct  float64 // sampled preset's move percentage target
	FadeMean float64 // mean emitted fade progress over all particles
	MoveMean float64 // mean emitted move progress over all particles
}

// WindowStats holds aggregated statistics for one frame window.
type WindowStats struct {
	WindowEndFrame int     `csv:"window_end"`
	TimeSec        float64 `csv:"time_sec"`
	Section        string  `csv:"section"` // section driving at window end

	// Frame time distribution, milliseconds
	FrameMsMean float64 `csv:"frame_ms_mean"`
	FrameMsP50  float64 `csv:"frame_ms_p50"`
	FrameMsP99  float64 `csv:"frame_ms_p99"`

	// Scroll and channel activity, window means
	ScrollTMean float64 `csv:"scroll_t_mean"`
	VisPctMean  float64 `csv:"vis_pct_mean"`
	MovePctMean float64 `csv:"move_pct_mean"`
	FadeMean    float64 `csv:"fade_mean"`
	MoveMean    float64 `csv:"move_mean"`
}

// meanQuantiles aggregates one population: mean plus the p50/p99 pair.
// Quantile needs sorted data; the input slice is reordered in place.
func meanQuantiles(values []float64) (mean, p50, p99 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	sort.Float64s(values)
	p50 = stat.Quantile(0.5, stat.Empirical, values, nil)
	p99 = stat.Quantile(0.99, stat.Empirical, values, nil)
	return mean, p50, p99
}

// meanOf is stat.Mean guarded against empty windows.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
