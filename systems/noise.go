package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseField is the smooth scalar field the turbulence derivatives probe:
// OpenSimplex, normalized to [0, 1]. The same seed always yields the same
// field.
type NoiseField struct {
	src opensimplex.Noise
}

func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{src: opensimplex.NewNormalized(seed)}
}

// Sample evaluates the field at (x, y, z).
func (f *NoiseField) Sample(x, y, z float64) float64 {
	return f.src.Eval3(x, y, z)
}
