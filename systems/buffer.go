package systems

// ParticleBuffer owns every mutable per-particle array. The integrator is
// its only writer; everything else reads. Parallel slices, one slot per
// particle, slot i permanently paired with sequence entry i. There is no
// package-level particle state anywhere.
type ParticleBuffer struct {
	Count int

	// fixed after construction
	HomeU, HomeV           []float32 // source grid coordinate
	SpawnX, SpawnY, SpawnZ []float32 // dispersed anchor
	VisRank, MovRank       []float32

	// channel state
	FadeRaw, FadeCur []float32
	MoveRaw, MoveCur []float32
	Drag             []float32 // last-known camera offset, chases live scroll

	// composed output, rewritten every frame
	OutX, OutY, OutZ []float32
	OutAlpha         []float32
}

// SpawnExtent is the half-size of the box dispersed particles scatter into,
// in world units.
type SpawnExtent struct {
	X, Y, Z float64
}

// NewParticleBuffer scatters count slots across the spawn box and anchors
// each home coordinate to the primary sequence's grid entry. Spawn positions
// are hash-derived, so a rebuild from the same sequence reproduces them.
func NewParticleBuffer(primary *Sequence, extent SpawnExtent) *ParticleBuffer {
	n := primary.Count()
	b := &ParticleBuffer{
		Count:    n,
		HomeU:    make([]float32, n),
		HomeV:    make([]float32, n),
		SpawnX:   make([]float32, n),
		SpawnY:   make([]float32, n),
		SpawnZ:   make([]float32, n),
		VisRank:  make([]float32, n),
		MovRank:  make([]float32, n),
		FadeRaw:  make([]float32, n),
		FadeCur:  make([]float32, n),
		MoveRaw:  make([]float32, n),
		MoveCur:  make([]float32, n),
		Drag:     make([]float32, n),
		OutX:     make([]float32, n),
		OutY:     make([]float32, n),
		OutZ:     make([]float32, n),
		OutAlpha: make([]float32, n),
	}
	copy(b.HomeU, primary.U)
	copy(b.HomeV, primary.V)
	for i := 0; i < n; i++ {
		b.SpawnX[i] = float32((HashIndex(i, seedSpawnXStride, seedSpawnXOffset) - 0.5) * 2 * extent.X)
		b.SpawnY[i] = float32((HashIndex(i, seedSpawnYStride, seedSpawnYOffset) - 0.5) * 2 * extent.Y)
		b.SpawnZ[i] = float32((HashIndex(i, seedSpawnZStride, seedSpawnZOffset) - 0.5) * 2 * extent.Z)
	}
	return b
}

// AssignRanks lays both activation orders over the home grid. Visibility
// and movement use independent seeds, so fade-in order need not match
// convergence order. Ranks stay fixed until the next call, which is what
// keeps a rising percentage strictly growing the active set.
func (b *ParticleBuffer) AssignRanks(p Pattern, scale float64) {
	for i := 0; i < b.Count; i++ {
		u := float64(b.HomeU[i])
		v := float64(b.HomeV[i])
		b.VisRank[i] = rank32(p.Rank(u, v, scale, seedVisibility))
		b.MovRank[i] = rank32(p.Rank(u, v, scale, seedMovement))
	}
}

// maxRank32 is the largest float32 below 1.0. Narrowing a float64 rank can
// round up to exactly 1.0, which would break the half-open contract.
const maxRank32 = float32(0.99999994)

func rank32(r float64) float32 {
	f := float32(r)
	if f >= 1 {
		return maxRank32
	}
	if f < 0 {
		return 0
	}
	return f
}
