package systems

import (
	"fmt"

	"github.com/pthm-cable/murmur/cells"
)

// Sequence is one formed target arrangement, a parallel slot per particle.
// X/Y are formation-plane coordinates precomputed from the source grid
// coordinate; the offset places the formed image in world space next to its
// content section.
type Sequence struct {
	Name  string
	GridW int
	GridH int

	U, V       []float32 // source grid coordinate, v bottom-origin
	X, Y       []float32 // formation plane, centered
	R, G, B, A []uint8

	OffX, OffY float32
}

func (s *Sequence) Count() int { return len(s.X) }

// BuildSequence maps a decoded cell set onto a planeW x planeH formation
// plane with its world offset.
func BuildSequence(name string, set *cells.Set, planeW, planeH, offX, offY float64) *Sequence {
	n := set.Count
	s := &Sequence{
		Name:  name,
		GridW: set.GridW,
		GridH: set.GridH,
		U:     make([]float32, n),
		V:     make([]float32, n),
		X:     make([]float32, n),
		Y:     make([]float32, n),
		R:     make([]uint8, n),
		G:     make([]uint8, n),
		B:     make([]uint8, n),
		A:     make([]uint8, n),
		OffX:  float32(offX),
		OffY:  float32(offY),
	}
	copy(s.U, set.U)
	copy(s.V, set.V)
	copy(s.R, set.R)
	copy(s.G, set.G)
	copy(s.B, set.B)
	copy(s.A, set.A)
	for i := 0; i < n; i++ {
		// v is bottom-origin; world y grows downward
		s.X[i] = float32((float64(set.U[i]) - 0.5) * planeW)
		s.Y[i] = float32((0.5 - float64(set.V[i])) * planeH)
	}
	return s
}

// Equalize pads every sequence to the slot count of the largest by
// resampling its own entries, so a switch never leaves a slot without a
// target. Resample picks are hash-driven and therefore reproducible.
// Returns the common count.
func Equalize(seqs []*Sequence) int {
	maxCount := 0
	for _, s := range seqs {
		if s.Count() > maxCount {
			maxCount = s.Count()
		}
	}
	for _, s := range seqs {
		s.pad(maxCount)
	}
	return maxCount
}

func (s *Sequence) pad(n int) {
	c := s.Count()
	if c == 0 || c >= n {
		return
	}
	for i := c; i < n; i++ {
		j := int(HashIndex(i, seedResampleStride, seedResampleOffset) * float64(c))
		if j >= c {
			j = c - 1
		}
		s.U = append(s.U, s.U[j])
		s.V = append(s.V, s.V[j])
		s.X = append(s.X, s.X[j])
		s.Y = append(s.Y, s.Y[j])
		s.R = append(s.R, s.R[j])
		s.G = append(s.G, s.G[j])
		s.B = append(s.B, s.B[j])
		s.A = append(s.A, s.A[j])
	}
}

// SequenceStore tracks the loaded sequences and which one is the active
// target.
type SequenceStore struct {
	seqs   []*Sequence
	active int
}

func NewSequenceStore(seqs []*Sequence) *SequenceStore {
	return &SequenceStore{seqs: seqs}
}

// SwitchTo makes sequence i the active target. Only the target reference
// changes — channel state, opacity and turbulence phase are untouched — so
// a switch while dispersed stays invisible until move-percentage rises, and
// a switch while formed retargets smoothly instead of replaying.
func (st *SequenceStore) SwitchTo(i int) error {
	if i < 0 || i >= len(st.seqs) {
		return fmt.Errorf("sequence %d out of range [0,%d)", i, len(st.seqs))
	}
	st.active = i
	return nil
}

func (st *SequenceStore) Active() *Sequence { return st.seqs[st.active] }

func (st *SequenceStore) ActiveIndex() int { return st.active }

func (st *SequenceStore) Len() int { return len(st.seqs) }

func (st *SequenceStore) At(i int) *Sequence { return st.seqs[i] }
