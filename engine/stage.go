package engine

import "github.com/pthm-cable/murmur/systems"

// Stage is the render coupling: everything the engine needs from the
// external draw side. The engine pushes the full sampled preset through
// ApplyPreset every frame, changed or not, and keeps exactly one entity
// batch attached via SetActive.
type Stage interface {
	ApplyPreset(systems.Preset)
	SetActive(index int)
	Attached() []int
}

// NullStage is the recording stage behind headless runs and tests. It
// keeps the coupling contract observable without any GPU.
type NullStage struct {
	Applied    int // ApplyPreset call count
	LastPreset systems.Preset
	active     int
}

func NewNullStage() *NullStage {
	return &NullStage{active: -1}
}

func (s *NullStage) ApplyPreset(p systems.Preset) {
	s.Applied++
	s.LastPreset = p
}

func (s *NullStage) SetActive(index int) {
	s.active = index
}

func (s *NullStage) Attached() []int {
	if s.active < 0 {
		return nil
	}
	return []int{s.active}
}
