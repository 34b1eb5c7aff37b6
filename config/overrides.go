package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/quasilyte/gdata/v2"
)

// Overrides is the flat key -> value map of the control-panel surface. Keys
// are "<preset>.<field>" for every numeric preset field (for example
// "form.turb1_amount") plus the render toggles ("render.background",
// "render.blend", "render.outline_frame"). The map is persisted as JSON,
// either in local persistent storage or a plain file.
type Overrides map[string]any

// Storage slots inside the gdata manager.
const (
	overridesObject   = "overrides"
	overridesProperty = "current"
)

// OpenStore opens the local persistent storage backing the override map.
// Returns nil on failure: callers run in degraded mode (file import/export
// only) rather than treating missing storage as fatal.
func OpenStore(appName string) *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		slog.Warn("override storage unavailable, running without persistence", "error", err)
		return nil
	}
	return m
}

// LoadOverrides reads the persisted override map. A missing entry yields an
// empty map; malformed JSON is ignored entirely and the defaults stay in
// effect.
func LoadOverrides(m *gdata.Manager) Overrides {
	if m == nil || !m.ObjectPropExists(overridesObject, overridesProperty) {
		return Overrides{}
	}
	data, err := m.LoadObjectProp(overridesObject, overridesProperty)
	if err != nil {
		slog.Warn("reading stored overrides failed, keeping defaults", "error", err)
		return Overrides{}
	}
	return decodeOverrides(data)
}

// SaveOverrides persists the override map. No-op without storage.
func SaveOverrides(m *gdata.Manager, o Overrides) error {
	if m == nil {
		return nil
	}
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling overrides: %w", err)
	}
	if err := m.SaveObjectProp(overridesObject, overridesProperty, data); err != nil {
		return fmt.Errorf("storing overrides: %w", err)
	}
	return nil
}

// LoadOverridesFile reads an override map from a JSON file. Same tolerance
// as the stored path: any failure logs and yields an empty map.
func LoadOverridesFile(path string) Overrides {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("reading overrides file failed, keeping defaults", "path", path, "error", err)
		return Overrides{}
	}
	return decodeOverrides(data)
}

// ExportFile writes the override map to a JSON file, the download analogue
// of the control panel's export button.
func (o Overrides) ExportFile(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling overrides: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing overrides file: %w", err)
	}
	return nil
}

func decodeOverrides(data []byte) Overrides {
	o := Overrides{}
	if err := json.Unmarshal(data, &o); err != nil {
		slog.Warn("overrides are not valid JSON, keeping defaults", "error", err)
		return Overrides{}
	}
	return o
}

// Apply writes every recognized key onto the config's preset table and
// render toggles. Unknown keys and wrongly-typed values are skipped with a
// warning; they never abort the rest of the map. Returns how many keys
// were applied. Callers rebuild the sampler afterwards so changed presets
// take effect.
func (o Overrides) Apply(c *Config) int {
	applied := 0
	// Deterministic application order keeps repeated logs stable
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := o[key]
		group, field, ok := strings.Cut(key, ".")
		if !ok {
			slog.Warn("ignoring malformed override key", "key", key)
			continue
		}

		if group == "render" {
			if applyRenderOverride(&c.Render, field, val) {
				applied++
			} else {
				slog.Warn("ignoring unknown render override", "key", key)
			}
			continue
		}

		preset := c.Presets.byName(group)
		if preset == nil {
			slog.Warn("ignoring override for unknown preset", "key", key)
			continue
		}
		f, ok := val.(float64)
		if !ok {
			slog.Warn("ignoring non-numeric preset override", "key", key)
			continue
		}
		dst := preset.fieldPtr(field)
		if dst == nil {
			slog.Warn("ignoring unknown preset field override", "key", key)
			continue
		}
		*dst = f
		applied++
	}
	return applied
}

func applyRenderOverride(r *RenderConfig, field string, val any) bool {
	switch field {
	case "background":
		s, ok := val.(string)
		if !ok {
			return false
		}
		r.Background = s
	case "blend":
		s, ok := val.(string)
		if !ok {
			return false
		}
		r.Blend = s
	case "outline_frame":
		b, ok := val.(bool)
		if !ok {
			return false
		}
		r.OutlineFrame = b
	default:
		return false
	}
	return true
}

func (p *PresetsConfig) byName(name string) *PresetConfig {
	switch name {
	case "idle":
		return &p.Idle
	case "appearing":
		return &p.Appearing
	case "cloud":
		return &p.Cloud
	case "form":
		return &p.Form
	}
	return nil
}

// fieldPtr maps an override field name to its slot in the preset. The key
// set is the whole numeric surface of a preset.
func (p *PresetConfig) fieldPtr(field string) *float64 {
	switch field {
	case "turb1_amount":
		return &p.Turb1.Amount
	case "turb1_speed":
		return &p.Turb1.Speed
	case "turb1_scale":
		return &p.Turb1.Scale
	case "turb1_evolution":
		return &p.Turb1.Evolution
	case "turb2_amount":
		return &p.Turb2.Amount
	case "turb2_speed":
		return &p.Turb2.Speed
	case "turb2_scale":
		return &p.Turb2.Scale
	case "turb2_evolution":
		return &p.Turb2.Evolution
	case "point_size":
		return &p.PointSize
	case "edge_softness":
		return &p.EdgeSoftness
	case "edge_fade":
		return &p.EdgeFade
	case "influence":
		return &p.Influence
	case "drag_range":
		return &p.DragRange
	case "visible_pct":
		return &p.VisiblePct
	case "move_pct":
		return &p.MovePct
	}
	return nil
}

// Collect builds the full override map for the current preset table and
// render toggles, the inverse of Apply. Used by the export path so a dump
// always reflects live values.
func Collect(c *Config) Overrides {
	o := Overrides{
		"render.background":    c.Render.Background,
		"render.blend":         c.Render.Blend,
		"render.outline_frame": c.Render.OutlineFrame,
	}
	for _, name := range []string{"idle", "appearing", "cloud", "form"} {
		p := c.Presets.byName(name)
		for _, field := range presetFieldNames {
			o[name+"."+field] = *p.fieldPtr(field)
		}
	}
	return o
}

var presetFieldNames = []string{
	"turb1_amount", "turb1_speed", "turb1_scale", "turb1_evolution",
	"turb2_amount", "turb2_speed", "turb2_scale", "turb2_evolution",
	"point_size", "edge_softness", "edge_fade",
	"influence", "drag_range", "visible_pct", "move_pct",
}
