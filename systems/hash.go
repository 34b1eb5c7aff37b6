package systems

import "math"

// Hash is the engine's only random source: a stateless scalar hash mapping
// any seed to [0, 1). Re-deriving a constant from the same seed is always
// bit-identical, so nothing derived from it needs caching for correctness.
func Hash(seed float64) float64 {
	return fract(math.Sin(seed) * 43758.5453123)
}

// HashIndex derives one member of a per-particle constant family. Each
// family owns a distinct (stride, offset) pair so families built from the
// same particle index stay uncorrelated.
func HashIndex(i int, stride, offset float64) float64 {
	return Hash(float64(i)*stride + offset)
}

// Seed constants, one set per derived family. Values are arbitrary but
// frozen: changing any of them reshuffles every run of the engine.
const (
	seedVisibility = 43.9598
	seedMovement   = 17.2719

	seedFadeStride, seedFadeOffset = 12.9898, 78.2330
	seedMoveStride, seedMoveOffset = 26.6510, 5.4210
	seedDragStride, seedDragOffset = 9.1331, 2.7177

	seedSpawnXStride, seedSpawnXOffset = 4.7023, 0.1307
	seedSpawnYStride, seedSpawnYOffset = 8.3011, 1.9707
	seedSpawnZStride, seedSpawnZOffset = 2.9017, 6.5113

	seedResampleStride, seedResampleOffset = 5.2351, 9.1121
)
