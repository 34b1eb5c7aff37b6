package systems

// TimingRange bounds one channel's frames-to-complete. Frames are authored
// against a 60 Hz reference rate; the integrator rescales to real dt.
type TimingRange struct {
	MinFrames float64
	MaxFrames float64
}

// TimingStore derives and holds the per-particle speed constants for the
// three channels. Speeds are 1/frames: a particle finishes one full 0→1
// sweep in exactly its drawn frame count.
type TimingStore struct {
	count int
	fade  TimingRange
	move  TimingRange
	drag  TimingRange

	FadeSpeed []float32
	MoveSpeed []float32
	DragSpeed []float32
}

func NewTimingStore(count int, fade, move, drag TimingRange) *TimingStore {
	s := &TimingStore{
		count:     count,
		fade:      fade,
		move:      move,
		drag:      drag,
		FadeSpeed: make([]float32, count),
		MoveSpeed: make([]float32, count),
		DragSpeed: make([]float32, count),
	}
	fillSpeeds(s.FadeSpeed, fade, seedFadeStride, seedFadeOffset)
	fillSpeeds(s.MoveSpeed, move, seedMoveStride, seedMoveOffset)
	fillSpeeds(s.DragSpeed, drag, seedDragStride, seedDragOffset)
	return s
}

func (s *TimingStore) Count() int { return s.count }

// FadeFrames re-derives the drawn frame count for particle i. Pure, so it
// always matches what FadeSpeed[i] was computed from.
func (s *TimingStore) FadeFrames(i int) float64 {
	return clampFrames(Lerp(s.fade.MinFrames, s.fade.MaxFrames, HashIndex(i, seedFadeStride, seedFadeOffset)))
}

func (s *TimingStore) MoveFrames(i int) float64 {
	return clampFrames(Lerp(s.move.MinFrames, s.move.MaxFrames, HashIndex(i, seedMoveStride, seedMoveOffset)))
}

func (s *TimingStore) DragFrames(i int) float64 {
	return clampFrames(Lerp(s.drag.MinFrames, s.drag.MaxFrames, HashIndex(i, seedDragStride, seedDragOffset)))
}

// SetFadeRange swaps the fade bounds, recomputing every particle only when
// the bounds actually change.
func (s *TimingStore) SetFadeRange(r TimingRange) {
	if r == s.fade {
		return
	}
	s.fade = r
	fillSpeeds(s.FadeSpeed, r, seedFadeStride, seedFadeOffset)
}

func (s *TimingStore) SetMoveRange(r TimingRange) {
	if r == s.move {
		return
	}
	s.move = r
	fillSpeeds(s.MoveSpeed, r, seedMoveStride, seedMoveOffset)
}

func (s *TimingStore) SetDragRange(r TimingRange) {
	if r == s.drag {
		return
	}
	s.drag = r
	fillSpeeds(s.DragSpeed, r, seedDragStride, seedDragOffset)
}

func fillSpeeds(dst []float32, r TimingRange, stride, offset float64) {
	for i := range dst {
		frames := clampFrames(Lerp(r.MinFrames, r.MaxFrames, HashIndex(i, stride, offset)))
		dst[i] = float32(1 / frames)
	}
}

// clampFrames keeps a derived frame count usable as a divisor.
func clampFrames(frames float64) float64 {
	if frames < 1 {
		return 1
	}
	return frames
}
