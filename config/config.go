// Package config provides configuration loading and access for the engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen      ScreenConfig          `yaml:"screen"`
	Page        PageConfig            `yaml:"page"`
	Particles   ParticlesConfig       `yaml:"particles"`
	Timing      TimingConfig          `yaml:"timing"`
	Presets     PresetsConfig         `yaml:"presets"`
	Breakpoints BreakpointsConfig     `yaml:"breakpoints"`
	Sequences   []SequenceConfig      `yaml:"sequences"`
	Sections    []SectionConfig       `yaml:"sections"`
	Render      RenderConfig          `yaml:"render"`
	Engine      EngineConfig          `yaml:"engine"`
	Timeline    []TimelineStateConfig `yaml:"timeline"`
	Telemetry   TelemetryConfig       `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PageConfig describes the simulated scroll container.
type PageConfig struct {
	DesignWidth float64 `yaml:"design_width"` // world units spanning the viewport width
	ScrollStep  float64 `yaml:"scroll_step"`  // page units per wheel notch
}

// ParticlesConfig holds the dispersed-cloud parameters.
type ParticlesConfig struct {
	SpawnExtentX float64 `yaml:"spawn_extent_x"` // half-size of the scatter box, world units
	SpawnExtentY float64 `yaml:"spawn_extent_y"`
	SpawnExtentZ float64 `yaml:"spawn_extent_z"`
	Pattern      string  `yaml:"pattern"`       // ordering pattern name
	PatternScale float64 `yaml:"pattern_scale"` // pattern frequency/tightness
	NoiseSeed    int64   `yaml:"noise_seed"`    // turbulence field seed
}

// TimingConfig bounds the per-particle frames-to-complete ranges.
// Frames are authored against a 60 Hz reference rate.
type TimingConfig struct {
	FadeMinFrames float64 `yaml:"fade_min_frames"`
	FadeMaxFrames float64 `yaml:"fade_max_frames"`
	MoveMinFrames float64 `yaml:"move_min_frames"`
	MoveMaxFrames float64 `yaml:"move_max_frames"`
	DragMinFrames float64 `yaml:"drag_min_frames"`
	DragMaxFrames float64 `yaml:"drag_max_frames"`
}

// TurbLayerConfig holds one turbulence octave's constants.
type TurbLayerConfig struct {
	Amount    float64 `yaml:"amount"`
	Speed     float64 `yaml:"speed"`
	Scale     float64 `yaml:"scale"`
	Evolution float64 `yaml:"evolution"`
}

// PresetConfig is one animation state's full parameter snapshot.
type PresetConfig struct {
	Turb1 TurbLayerConfig `yaml:"turb1"`
	Turb2 TurbLayerConfig `yaml:"turb2"`

	PointSize    float64 `yaml:"point_size"`
	EdgeSoftness float64 `yaml:"edge_softness"`
	EdgeFade     float64 `yaml:"edge_fade"`
	Influence    float64 `yaml:"influence"`  // turbulence displacement gain
	DragRange    float64 `yaml:"drag_range"` // camera-follow contribution gain
	VisiblePct   float64 `yaml:"visible_pct"`
	MovePct      float64 `yaml:"move_pct"`
}

// PresetsConfig names the four animation states.
type PresetsConfig struct {
	Idle      PresetConfig `yaml:"idle"`
	Appearing PresetConfig `yaml:"appearing"`
	Cloud     PresetConfig `yaml:"cloud"`
	Form      PresetConfig `yaml:"form"`
	Easing    string       `yaml:"easing"` // segment blend curve: cubic, linear, smooth
}

// BreakpointsConfig holds the ordered scroll thresholds cutting [0,1] into
// the seven animation segments.
type BreakpointsConfig struct {
	IdleEnd       float64 `yaml:"idle_end"`
	AppearingEnd  float64 `yaml:"appearing_end"`
	FormReach     float64 `yaml:"form_reach"`
	FormHoldEnd   float64 `yaml:"form_hold_end"`
	ReverseClose1 float64 `yaml:"reverse_close1"`
	ReverseClose2 float64 `yaml:"reverse_close2"`
}

// SequenceConfig points at one formed-target asset and places it in the world.
type SequenceConfig struct {
	Name    string  `yaml:"name"`
	Path    string  `yaml:"path"`     // CEL1 file; missing or bad files fall back to synthetic data
	PlaneW  float64 `yaml:"plane_w"`  // formation plane width, world units
	PlaneH  float64 `yaml:"plane_h"`  // formation plane height, world units
	OffsetX float64 `yaml:"offset_x"` // world offset of the formed image
	OffsetY float64 `yaml:"offset_y"`
}

// SectionConfig is one tracked scroll region of the simulated page.
type SectionConfig struct {
	Name     string  `yaml:"name"`
	Top      float64 `yaml:"top"`    // page units
	Height   float64 `yaml:"height"` // page units
	Sequence int     `yaml:"sequence"`
}

// RenderConfig holds the render toggles of the config surface.
type RenderConfig struct {
	Background   string `yaml:"background"` // hex color, e.g. "#0a0a12"
	Blend        string `yaml:"blend"`      // "additive" or "alpha"
	OutlineFrame bool   `yaml:"outline_frame"`
}

// EngineConfig holds lifecycle parameters.
type EngineConfig struct {
	WarmupFrames int `yaml:"warmup_frames"` // rendered-but-discarded frames after load
}

// TimelineStateConfig is one authored playback state: a named preset from
// the preset table plus how long the transition into the next state takes.
type TimelineStateConfig struct {
	Name     string  `yaml:"name"`
	Preset   string  `yaml:"preset"`   // idle, appearing, cloud or form
	Duration float64 `yaml:"duration"` // seconds to the next state
}

// TelemetryConfig holds observability settings.
type TelemetryConfig struct {
	Enabled      bool `yaml:"enabled"`
	WindowFrames int  `yaml:"window_frames"` // frames aggregated per stats window
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	PageHeight float64 // bottom of the lowest section
	ViewportW  float64
	ViewportH  float64
}

var global *Config

// Init loads configuration and stores it globally.
// Call once at startup before any Cfg() access.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ViewportW = float64(c.Screen.Width)
	c.Derived.ViewportH = float64(c.Screen.Height)

	// Synthesize one double-viewport section per sequence if none specified
	if len(c.Sections) == 0 && len(c.Sequences) > 0 {
		h := c.Derived.ViewportH
		for i, seq := range c.Sequences {
			c.Sections = append(c.Sections, SectionConfig{
				Name:     seq.Name,
				Top:      float64(i) * h * 2,
				Height:   h * 2,
				Sequence: i,
			})
		}
	}

	// Page height is the bottom of the lowest section
	c.Derived.PageHeight = 0
	for _, s := range c.Sections {
		if bottom := s.Top + s.Height; bottom > c.Derived.PageHeight {
			c.Derived.PageHeight = bottom
		}
	}

	// Clamp section sequence indexes into range
	for i := range c.Sections {
		if c.Sections[i].Sequence < 0 || c.Sections[i].Sequence >= len(c.Sequences) {
			c.Sections[i].Sequence = 0
		}
	}

	if c.Engine.WarmupFrames < 0 {
		c.Engine.WarmupFrames = 0
	}
	if c.Telemetry.WindowFrames <= 0 {
		c.Telemetry.WindowFrames = 120
	}
	if c.Page.DesignWidth <= 0 {
		c.Page.DesignWidth = c.Derived.ViewportW
	}
	if c.Page.ScrollStep <= 0 {
		c.Page.ScrollStep = 60
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
