package systems

import "math"

// Section is one tracked scroll region of the host page, in page units.
// Sequence indexes the formed target it shows.
type Section struct {
	Name     string
	Top      float64
	Height   float64
	Sequence int
}

// SectionTracker resolves which section drives the sampler each frame.
// OnScroll is the only thing the event side calls and it stores a plain
// scalar; the frame loop is the sole reader, so no locking is needed.
type SectionTracker struct {
	sections  []Section
	viewportH float64
	scrollY   float64
}

func NewSectionTracker(sections []Section, viewportH float64) *SectionTracker {
	return &SectionTracker{sections: sections, viewportH: viewportH}
}

// OnScroll records the latest scroll offset.
func (t *SectionTracker) OnScroll(y float64) { t.scrollY = y }

// Resize updates the viewport height used for progress and center math.
func (t *SectionTracker) Resize(viewportH float64) { t.viewportH = viewportH }

func (t *SectionTracker) ScrollY() float64 { return t.scrollY }

func (t *SectionTracker) Len() int { return len(t.sections) }

func (t *SectionTracker) Section(i int) Section { return t.sections[i] }

// Progress is how far section i has travelled through the viewport: 0 when
// its top touches the viewport bottom, 1 when its bottom clears the top.
func (t *SectionTracker) Progress(i int) float64 {
	s := t.sections[i]
	span := t.viewportH + s.Height
	if span <= 0 {
		return 0
	}
	return Clamp01((t.scrollY + t.viewportH - s.Top) / span)
}

// Drive picks the section whose vertical center sits nearest the viewport
// center; every other section is inert this frame. ok is false when no
// usable section exists, which callers treat as fully dispersed.
func (t *SectionTracker) Drive() (index int, progress float64, ok bool) {
	best := -1
	bestDist := math.MaxFloat64
	viewCenter := t.scrollY + t.viewportH/2
	for i, s := range t.sections {
		if s.Height <= 0 {
			continue
		}
		d := math.Abs(s.Top + s.Height/2 - viewCenter)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, t.Progress(best), true
}
