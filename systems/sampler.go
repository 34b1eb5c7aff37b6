package systems

import "fmt"

// Easing selects the per-segment blend curve.
type Easing int

const (
	EaseCubic Easing = iota // default
	EaseLinear
	EaseSmooth
	easingCount
)

var easingNames = [easingCount]string{
	EaseCubic:  "cubic",
	EaseLinear: "linear",
	EaseSmooth: "smooth",
}

func (e Easing) String() string {
	if e < 0 || e >= easingCount {
		return fmt.Sprintf("easing(%d)", int(e))
	}
	return easingNames[e]
}

// ParseEasing maps a config string to its Easing.
func ParseEasing(s string) (Easing, error) {
	for i, name := range easingNames {
		if name == s {
			return Easing(i), nil
		}
	}
	return EaseCubic, fmt.Errorf("unknown easing %q", s)
}

func (e Easing) apply(u float64) float64 {
	switch e {
	case EaseLinear:
		return Clamp01(u)
	case EaseSmooth:
		return Smoothstep(u)
	default:
		return EaseInOutCubic(u)
	}
}

// Breakpoints are the ordered scroll thresholds that cut [0, 1] into the
// seven animation segments.
type Breakpoints struct {
	IdleEnd       float64
	AppearingEnd  float64
	FormReach     float64
	FormHoldEnd   float64
	ReverseClose1 float64
	ReverseClose2 float64
}

// Validate enforces
// 0 < idleEnd < appearingEnd < formReach <= formHoldEnd < reverseClose1 < reverseClose2 < 1.
// The form plateau may be zero width; every other segment must have extent.
func (b Breakpoints) Validate() error {
	switch {
	case !(b.IdleEnd > 0):
		return fmt.Errorf("breakpoints: idleEnd %v must be > 0", b.IdleEnd)
	case !(b.AppearingEnd > b.IdleEnd):
		return fmt.Errorf("breakpoints: appearingEnd %v must be > idleEnd %v", b.AppearingEnd, b.IdleEnd)
	case !(b.FormReach > b.AppearingEnd):
		return fmt.Errorf("breakpoints: formReach %v must be > appearingEnd %v", b.FormReach, b.AppearingEnd)
	case !(b.FormHoldEnd >= b.FormReach):
		return fmt.Errorf("breakpoints: formHoldEnd %v must be >= formReach %v", b.FormHoldEnd, b.FormReach)
	case !(b.ReverseClose1 > b.FormHoldEnd):
		return fmt.Errorf("breakpoints: reverseClose1 %v must be > formHoldEnd %v", b.ReverseClose1, b.FormHoldEnd)
	case !(b.ReverseClose2 > b.ReverseClose1):
		return fmt.Errorf("breakpoints: reverseClose2 %v must be > reverseClose1 %v", b.ReverseClose2, b.ReverseClose1)
	case !(b.ReverseClose2 < 1):
		return fmt.Errorf("breakpoints: reverseClose2 %v must be < 1", b.ReverseClose2)
	}
	return nil
}

// PresetSet names the four animation states.
type PresetSet struct {
	Idle      Preset
	Appearing Preset
	Cloud     Preset
	Form      Preset
}

type segment struct {
	lo, hi   float64
	from, to Preset
	ease     Easing
}

// Sampler maps scroll progress to a blended preset through one ordered
// breakpoint table: IDLE→APPEARING→CLOUD→FORM, the form plateau, then the
// same states closing in reverse. Sample is pure — identical t against
// unchanged tables yields a bit-identical preset.
type Sampler struct {
	segs [7]segment
}

// NewSampler builds the seven-segment table from validated breakpoints.
func NewSampler(bp Breakpoints, ps PresetSet, ease Easing) (*Sampler, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{segs: [7]segment{
		{0, bp.IdleEnd, ps.Idle, ps.Appearing, ease},
		{bp.IdleEnd, bp.AppearingEnd, ps.Appearing, ps.Cloud, ease},
		{bp.AppearingEnd, bp.FormReach, ps.Cloud, ps.Form, ease},
		{bp.FormReach, bp.FormHoldEnd, ps.Form, ps.Form, ease},
		{bp.FormHoldEnd, bp.ReverseClose1, ps.Form, ps.Cloud, ease},
		{bp.ReverseClose1, bp.ReverseClose2, ps.Cloud, ps.Appearing, ease},
		{bp.ReverseClose2, 1, ps.Appearing, ps.Idle, ease},
	}}, nil
}

// Sample blends the two presets bracketing scroll progress t. Within
// [formReach, formHoldEnd] both brackets are FORM, so the formed image holds
// exactly stable under scroll jitter.
func (s *Sampler) Sample(t float64) Preset {
	t = Clamp01(t)
	seg := &s.segs[len(s.segs)-1]
	for i := range s.segs {
		if t <= s.segs[i].hi {
			seg = &s.segs[i]
			break
		}
	}
	u := 1.0
	if seg.hi > seg.lo {
		u = Clamp01((t - seg.lo) / (seg.hi - seg.lo))
	}
	return LerpPreset(seg.from, seg.to, seg.ease.apply(u))
}
