package engine

import (
	"log/slog"

	"github.com/pthm-cable/murmur/config"
	"github.com/pthm-cable/murmur/systems"
	"github.com/pthm-cable/murmur/timeline"
)

// The config package stays free of engine types, so the yaml structs are
// mapped onto systems values here.

func presetFromConfig(pc config.PresetConfig) systems.Preset {
	return systems.Preset{
		Turb1:        layerFromConfig(pc.Turb1),
		Turb2:        layerFromConfig(pc.Turb2),
		PointSize:    pc.PointSize,
		EdgeSoftness: pc.EdgeSoftness,
		EdgeFade:     pc.EdgeFade,
		Influence:    pc.Influence,
		DragRange:    pc.DragRange,
		VisiblePct:   pc.VisiblePct,
		MovePct:      pc.MovePct,
	}
}

func layerFromConfig(lc config.TurbLayerConfig) systems.TurbLayer {
	return systems.TurbLayer{
		Amount:    lc.Amount,
		Speed:     lc.Speed,
		Scale:     lc.Scale,
		Evolution: lc.Evolution,
	}
}

func presetSetFromConfig(pc config.PresetsConfig) systems.PresetSet {
	return systems.PresetSet{
		Idle:      presetFromConfig(pc.Idle),
		Appearing: presetFromConfig(pc.Appearing),
		Cloud:     presetFromConfig(pc.Cloud),
		Form:      presetFromConfig(pc.Form),
	}
}

func breakpointsFromConfig(bc config.BreakpointsConfig) systems.Breakpoints {
	return systems.Breakpoints{
		IdleEnd:       bc.IdleEnd,
		AppearingEnd:  bc.AppearingEnd,
		FormReach:     bc.FormReach,
		FormHoldEnd:   bc.FormHoldEnd,
		ReverseClose1: bc.ReverseClose1,
		ReverseClose2: bc.ReverseClose2,
	}
}

func sectionsFromConfig(scs []config.SectionConfig) []systems.Section {
	out := make([]systems.Section, len(scs))
	for i, sc := range scs {
		out[i] = systems.Section{
			Name:     sc.Name,
			Top:      sc.Top,
			Height:   sc.Height,
			Sequence: sc.Sequence,
		}
	}
	return out
}

// timelineStatesFromConfig resolves each authored state's preset name
// against the preset table into a full snapshot. Unknown names fall back
// to idle with a warning rather than failing startup.
func timelineStatesFromConfig(tcs []config.TimelineStateConfig, ps systems.PresetSet) []timeline.State {
	out := make([]timeline.State, 0, len(tcs))
	for _, tc := range tcs {
		var p systems.Preset
		switch tc.Preset {
		case "idle":
			p = ps.Idle
		case "appearing":
			p = ps.Appearing
		case "cloud":
			p = ps.Cloud
		case "form":
			p = ps.Form
		default:
			slog.Warn("timeline state references unknown preset, using idle",
				"state", tc.Name, "preset", tc.Preset)
			p = ps.Idle
		}
		out = append(out, timeline.State{Name: tc.Name, Preset: p, Duration: tc.Duration})
	}
	return out
}
