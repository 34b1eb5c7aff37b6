package telemetry

// Collector accumulates frame samples and closes a stats window every
// windowFrames frames. Zero value is unusable; construct with NewCollector.
type Collector struct {
	windowFrames int
	frame        int

	totalTime float64

	dts      []float64
	scrollTs []float64
	visPcts  []float64
	movePcts []float64
	fades    []float64
	moves    []float64
	section  string
}

// NewCollector creates a collector aggregating windowFrames frames per
// window.
func NewCollector(windowFrames int) *Collector {
	if windowFrames <= 0 {
		windowFrames = 120
	}
	return &Collector{
		windowFrames: windowFrames,
		dts:          make([]float64, 0, windowFrames),
		scrollTs:     make([]float64, 0, windowFrames),
		visPcts:      make([]float64, 0, windowFrames),
		movePcts:     make([]float64, 0, windowFrames),
		fades:        make([]float64, 0, windowFrames),
		moves:        make([]float64, 0, windowFrames),
	}
}

// Frame returns how many frames have been recorded in total.
func (c *Collector) Frame() int { return c.frame }

// Record adds one frame's sample. When the sample completes a window the
// aggregated stats are returned with done=true and a new window begins.
func (c *Collector) Record(s FrameSample) (stats WindowStats, done bool) {
	c.frame++
	c.totalTime += s.DT

	c.dts = append(c.dts, s.DT*1000)
	c.scrollTs = append(c.scrollTs, s.ScrollT)
	c.visPcts = append(c.visPcts, s.VisPct)
	c.movePcts = append(c.movePcts, s.MovePct)
	c.fades = append(c.fades, s.FadeMean)
	c.moves = append(c.moves, s.MoveMean)
	c.section = s.Section

	if len(c.dts) < c.windowFrames {
		return WindowStats{}, false
	}
	return c.closeWindow(), true
}

func (c *Collector) closeWindow() WindowStats {
	w := WindowStats{
		WindowEndFrame: c.frame,
		TimeSec:        c.totalTime,
		Section:        c.section,
		ScrollTMean:    meanOf(c.scrollTs),
		VisPctMean:     meanOf(c.visPcts),
		MovePctMean:    meanOf(c.movePcts),
		FadeMean:       meanOf(c.fades),
		MoveMean:       meanOf(c.moves),
	}
	w.FrameMsMean, w.FrameMsP50, w.FrameMsP99 = meanQuantiles(c.dts)

	c.dts = c.dts[:0]
	c.scrollTs = c.scrollTs[:0]
	c.visPcts = c.visPcts[:0]
	c.movePcts = c.movePcts[:0]
	c.fades = c.fades[:0]
	c.moves = c.moves[:0]
	return w
}

// Flush closes the current window early, if it holds any frames. Used at
// shutdown so a partial window still reaches the CSV log.
func (c *Collector) Flush() (WindowStats, bool) {
	if len(c.dts) == 0 {
		return WindowStats{}, false
	}
	return c.closeWindow(), true
}
