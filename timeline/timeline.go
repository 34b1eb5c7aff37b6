// Package timeline provides the authoring surface: an ordered list of
// named parameter states and the state machine playing them back for
// scripted, non-scroll animation.
package timeline

import (
	"fmt"

	"github.com/pthm-cable/murmur/systems"
)

// State is one authored snapshot: a full resolved preset plus the seconds
// the blend into the next state takes.
type State struct {
	Name     string
	Preset   systems.Preset
	Duration float64
}

// Phase is the machine's explicit mode. There is no implicit "currently
// selected state" anywhere; every mode the playback surface can be in is
// one of these.
type Phase int

const (
	PhaseIdle       Phase = iota // scroll sampler drives, machine inert
	PhasePreviewing              // one state pinned for inspection
	PhasePlaying                 // interpolating through the list in real time
	PhaseRendering               // playing under a fixed capture clock
)

var phaseNames = [...]string{"idle", "previewing", "playing", "rendering"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[int(p)]
}

// Machine plays an ordered state list. While non-idle its preset overrides
// the scroll sampler.
type Machine struct {
	states []State

	phase Phase
	from  int     // index of the state being left
	t     float64 // seconds into the current transition
}

// NewMachine builds a machine over the given states. An empty list is
// allowed; such a machine just refuses to leave idle.
func NewMachine(states []State) *Machine {
	return &Machine{states: states}
}

func (m *Machine) Phase() Phase { return m.phase }

func (m *Machine) Len() int { return len(m.states) }

// StateName names state i, for HUD display.
func (m *Machine) StateName(i int) string {
	if i < 0 || i >= len(m.states) {
		return ""
	}
	return m.states[i].Name
}

// Preview pins state i. Legal from idle or an existing preview.
func (m *Machine) Preview(i int) error {
	if m.phase != PhaseIdle && m.phase != PhasePreviewing {
		return fmt.Errorf("timeline: cannot preview while %s", m.phase)
	}
	if i < 0 || i >= len(m.states) {
		return fmt.Errorf("timeline: state %d out of range [0,%d)", i, len(m.states))
	}
	m.phase = PhasePreviewing
	m.from = i
	m.t = 0
	return nil
}

// Play starts real-time playback from the first state. Legal from idle or
// previewing (playback then starts at the previewed state).
func (m *Machine) Play() error {
	return m.start(PhasePlaying)
}

// BeginRender starts playback for offline capture: identical traversal,
// but the caller advances it with fixed capture steps. Legal from idle or
// previewing.
func (m *Machine) BeginRender() error {
	return m.start(PhaseRendering)
}

func (m *Machine) start(target Phase) error {
	if len(m.states) == 0 {
		return fmt.Errorf("timeline: no states authored")
	}
	switch m.phase {
	case PhaseIdle:
		m.from = 0
	case PhasePreviewing:
		// keep m.from: playback continues from the previewed state
	default:
		return fmt.Errorf("timeline: cannot start %s while %s", target, m.phase)
	}
	m.phase = target
	m.t = 0
	return nil
}

// Advance moves playback forward by dt seconds, crossing state boundaries
// as durations elapse. Returns true when the final state has been reached,
// at which point the machine finishes back to idle on its own during
// playing, or waits for Finish during rendering (the recorder owns the end
// of a capture).
func (m *Machine) Advance(dt float64) (done bool) {
	if m.phase != PhasePlaying && m.phase != PhaseRendering {
		return false
	}
	m.t += dt
	for m.from < len(m.states)-1 {
		d := m.states[m.from].Duration
		if d <= 0 {
			m.from++
			continue
		}
		if m.t < d {
			return false
		}
		m.t -= d
		m.from++
	}
	// Final state reached
	m.t = 0
	if m.phase == PhasePlaying {
		m.phase = PhaseIdle
	}
	return true
}

// AtEnd reports whether playback is holding the final state. Once Advance
// has crossed every transition, from can only be the last index, so this
// is the capture loop's stop condition.
func (m *Machine) AtEnd() bool {
	if m.phase != PhasePlaying && m.phase != PhaseRendering {
		return false
	}
	return m.from == len(m.states)-1
}

// Finish ends a render run. Legal only while rendering.
func (m *Machine) Finish() error {
	if m.phase != PhaseRendering {
		return fmt.Errorf("timeline: Finish while %s", m.phase)
	}
	m.phase = PhaseIdle
	m.t = 0
	return nil
}

// Stop aborts any non-idle phase back to idle.
func (m *Machine) Stop() {
	m.phase = PhaseIdle
	m.t = 0
}

// Current returns the preset the machine wants on screen, and whether it
// overrides the scroll sampler. While playing, consecutive states blend
// with a cubic ease over the leaving state's duration.
func (m *Machine) Current() (systems.Preset, bool) {
	switch m.phase {
	case PhasePreviewing:
		return m.states[m.from].Preset, true
	case PhasePlaying, PhaseRendering:
		cur := m.states[m.from]
		if m.from >= len(m.states)-1 || cur.Duration <= 0 {
			return cur.Preset, true
		}
		u := systems.EaseInOutCubic(m.t / cur.Duration)
		return systems.LerpPreset(cur.Preset, m.states[m.from+1].Preset, u), true
	default:
		return systems.Preset{}, false
	}
}
