package systems

// TurbLayer holds one turbulence octave's sampling constants. Two layers
// with distinct constants run at once: large slow swirls plus small fast
// detail, with no visible repeat between them.
type TurbLayer struct {
	Amount    float64 // displacement gain
	Speed     float64 // sample-position drift rate
	Scale     float64 // spatial frequency
	Evolution float64 // morph rate along the noise z axis
}

// Turbulence derives a swirl displacement from central differences of three
// offset probes into one scalar noise field.
type Turbulence struct {
	noise *NoiseField
}

func NewTurbulence(noise *NoiseField) *Turbulence {
	return &Turbulence{noise: noise}
}

// Probe offsets decorrelating the three scalar reads that stand in for a
// vector-valued field.
const (
	probeYOffX, probeYOffY, probeYOffZ = 31.416, -47.853, 12.793
	probeZOffX, probeZOffY, probeZOffZ = -233.145, 144.126, -129.896
)

// turbEps is the finite-difference step. The structure below keeps exactly
// one directional derivative per output component (x from dZ/dy, y from
// dX/dz, z from dY/dx); the remaining rotor cross terms are intentionally
// absent. The rendered look is calibrated against this approximation, so
// tightening it to a complete curl is a visual change, not a fix.
const turbEps = 1e-4

// Displace returns the summed two-octave swirl displacement for a particle
// anchored at start, at engine time t.
func (f *Turbulence) Displace(start Vec3, t float64, l1, l2 TurbLayer) Vec3 {
	return f.octave(start, t, l1).Add(f.octave(start, t, l2))
}

func (f *Turbulence) octave(start Vec3, t float64, l TurbLayer) Vec3 {
	x := start.X*l.Scale + t*l.Speed
	y := start.Y * l.Scale
	z := start.Z*l.Scale + t*l.Evolution

	const e = turbEps
	dx := (f.probeZ(x, y+e, z) - f.probeZ(x, y-e, z)) / (2 * e)
	dy := (f.probeX(x, y, z+e) - f.probeX(x, y, z-e)) / (2 * e)
	dz := (f.probeY(x+e, y, z) - f.probeY(x-e, y, z)) / (2 * e)
	return Vec3{dx * l.Amount, dy * l.Amount, dz * l.Amount}
}

func (f *Turbulence) probeX(x, y, z float64) float64 {
	return f.noise.Sample(x, y, z)
}

func (f *Turbulence) probeY(x, y, z float64) float64 {
	return f.noise.Sample(x+probeYOffX, y+probeYOffY, z+probeYOffZ)
}

func (f *Turbulence) probeZ(x, y, z float64) float64 {
	return f.noise.Sample(x+probeZOffX, y+probeZOffY, z+probeZOffZ)
}
