package systems

// Preset is one named bundle of every tunable animation parameter. The
// sampler blends whole presets; the render coupling pushes every field to
// the draw stage each frame.
type Preset struct {
	Turb1 TurbLayer
	Turb2 TurbLayer

	PointSize    float64
	EdgeSoftness float64
	EdgeFade     float64

	Influence float64 // turbulence displacement gain
	DragRange float64 // camera-follow contribution gain

	VisiblePct float64
	MovePct    float64
}

// LerpPreset blends every numeric field of two presets. Inherits Lerp's
// endpoint exactness, so blending a preset with itself returns it
// unchanged.
func LerpPreset(a, b Preset, t float64) Preset {
	return Preset{
		Turb1:        lerpLayer(a.Turb1, b.Turb1, t),
		Turb2:        lerpLayer(a.Turb2, b.Turb2, t),
		PointSize:    Lerp(a.PointSize, b.PointSize, t),
		EdgeSoftness: Lerp(a.EdgeSoftness, b.EdgeSoftness, t),
		EdgeFade:     Lerp(a.EdgeFade, b.EdgeFade, t),
		Influence:    Lerp(a.Influence, b.Influence, t),
		DragRange:    Lerp(a.DragRange, b.DragRange, t),
		VisiblePct:   Lerp(a.VisiblePct, b.VisiblePct, t),
		MovePct:      Lerp(a.MovePct, b.MovePct, t),
	}
}

func lerpLayer(a, b TurbLayer, t float64) TurbLayer {
	return TurbLayer{
		Amount:    Lerp(a.Amount, b.Amount, t),
		Speed:     Lerp(a.Speed, b.Speed, t),
		Scale:     Lerp(a.Scale, b.Scale, t),
		Evolution: Lerp(a.Evolution, b.Evolution, t),
	}
}
