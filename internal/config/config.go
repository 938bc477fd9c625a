package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/liquidchain/internal/chain"
	"github.com/san-kum/liquidchain/internal/dynamo"
	"github.com/san-kum/liquidchain/internal/motion"
	"github.com/san-kum/liquidchain/internal/render"
)

const (
	DefaultDt            = 1.0 / 60.0
	DefaultDuration      = 10.0
	DefaultSeed          = 42
	DefaultTouchDistance = 0.03
	DefaultTargetTag     = "LiquidChainTarget"
)

type Config struct {
	Dt       float64        `yaml:"dt"`
	Duration float64        `yaml:"duration"`
	Seed     int64          `yaml:"seed"`
	Chain    ChainConfig    `yaml:"chain"`
	Target   TargetConfig   `yaml:"target"`
	Render   RenderConfig   `yaml:"render"`
	Anchors  []AnchorConfig `yaml:"anchors"`
}

type ChainConfig struct {
	Iterations        int     `yaml:"iterations"`
	FreePoints        int     `yaml:"free_points"`
	BreakThreshold    float64 `yaml:"break_threshold"`
	StraightRange     float64 `yaml:"straight_range"`
	GravityMultiplier float64 `yaml:"gravity_multiplier"`
	LiquidQuantity    float64 `yaml:"liquid_quantity"`
	LifetimeFrames    int     `yaml:"lifetime_frames"`
	FlowRate          float64 `yaml:"flow_rate"`
	PinnedMass        float64 `yaml:"pinned_mass"`
	ClampMass         bool    `yaml:"clamp_mass"`
}

type TargetConfig struct {
	TouchDistance float64 `yaml:"touch_distance"`
	Tag           string  `yaml:"tag"`
}

type RenderConfig struct {
	Width      float64 `yaml:"width"`
	MinWidth   float64 `yaml:"min_width"`
	BaseLength float64 `yaml:"base_length"`
	FadeRate   float64 `yaml:"fade_rate"`
}

// AnchorConfig places one anchor. Exactly one anchor is the source; at most
// one is connected at start, the rest are found by tag once the chain dies.
type AnchorConfig struct {
	Name    string      `yaml:"name"`
	Source  bool        `yaml:"source,omitempty"`
	Connect bool        `yaml:"connect,omitempty"`
	Tags    []string    `yaml:"tags,omitempty"`
	Motion  motion.Spec `yaml:"motion"`
}

func DefaultConfig() *Config {
	p := chain.DefaultParams()
	r := render.DefaultSettings()
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Seed:     DefaultSeed,
		Chain: ChainConfig{
			Iterations:        p.Iterations,
			FreePoints:        p.FreePoints,
			BreakThreshold:    p.BreakThreshold,
			StraightRange:     p.StraightRange,
			GravityMultiplier: p.GravityMultiplier,
			LiquidQuantity:    p.LiquidQuantity,
			LifetimeFrames:    p.Lifetime,
			FlowRate:          p.FlowRate,
			PinnedMass:        p.PinnedMass,
			ClampMass:         p.ClampMass,
		},
		Target: TargetConfig{
			TouchDistance: DefaultTouchDistance,
			Tag:           DefaultTargetTag,
		},
		Render: RenderConfig{
			Width:      r.Width,
			MinWidth:   r.MinWidth,
			BaseLength: r.BaseLength,
			FadeRate:   r.FadeRate,
		},
		Anchors: []AnchorConfig{
			{Name: "source", Source: true, Motion: motion.Spec{Kind: "static", From: [3]float64{0, 0, 0}}},
			{Name: "target", Connect: true, Tags: []string{DefaultTargetTag}, Motion: motion.Spec{Kind: "static", From: [3]float64{0.3, -0.05, 0}}},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Anchors = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Anchors) == 0 {
		cfg.Anchors = DefaultConfig().Anchors
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets are never mutated.
func (c *Config) Clone() *Config {
	out := *c
	out.Anchors = make([]AnchorConfig, len(c.Anchors))
	for i, a := range c.Anchors {
		a.Tags = append([]string(nil), a.Tags...)
		a.Motion.Points = append([][3]float64(nil), a.Motion.Points...)
		a.Motion.Times = append([]float64(nil), a.Motion.Times...)
		out.Anchors[i] = a
	}
	return &out
}

func (c *Config) ChainParams() chain.Params {
	return chain.Params{
		Iterations:        c.Chain.Iterations,
		FreePoints:        c.Chain.FreePoints,
		BreakThreshold:    c.Chain.BreakThreshold,
		StraightRange:     c.Chain.StraightRange,
		GravityMultiplier: c.Chain.GravityMultiplier,
		LiquidQuantity:    c.Chain.LiquidQuantity,
		Lifetime:          c.Chain.LifetimeFrames,
		FlowRate:          c.Chain.FlowRate,
		PinnedMass:        c.Chain.PinnedMass,
		ClampMass:         c.Chain.ClampMass,
	}
}

// SetChainParams writes p back into the chain section.
func (c *Config) SetChainParams(p chain.Params) {
	c.Chain = ChainConfig{
		Iterations:        p.Iterations,
		FreePoints:        p.FreePoints,
		BreakThreshold:    p.BreakThreshold,
		StraightRange:     p.StraightRange,
		GravityMultiplier: p.GravityMultiplier,
		LiquidQuantity:    p.LiquidQuantity,
		LifetimeFrames:    p.Lifetime,
		FlowRate:          p.FlowRate,
		PinnedMass:        p.PinnedMass,
		ClampMass:         p.ClampMass,
	}
}

func (c *Config) RenderSettings() render.Settings {
	return render.Settings{
		Width:      c.Render.Width,
		MinWidth:   c.Render.MinWidth,
		BaseLength: c.Render.BaseLength,
		FadeRate:   c.Render.FadeRate,
	}
}

func (c *Config) SourceAnchor() (AnchorConfig, bool) {
	for _, a := range c.Anchors {
		if a.Source {
			return a, true
		}
	}
	return AnchorConfig{}, false
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", c.Dt, dynamo.ErrInvalidConfig)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", c.Duration, dynamo.ErrInvalidConfig)
	}
	if c.Target.TouchDistance < 0 {
		return fmt.Errorf("touch distance must be >= 0: %w", dynamo.ErrInvalidConfig)
	}
	if err := c.ChainParams().Validate(); err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Anchors))
	sources, connects := 0, 0
	for _, a := range c.Anchors {
		if a.Name == "" {
			return fmt.Errorf("anchor without a name: %w", dynamo.ErrInvalidConfig)
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate anchor %q: %w", a.Name, dynamo.ErrInvalidConfig)
		}
		names[a.Name] = true
		if a.Source {
			sources++
		}
		if a.Connect {
			connects++
			if a.Source {
				return fmt.Errorf("anchor %q cannot connect to itself: %w", a.Name, dynamo.ErrInvalidConfig)
			}
		}
		if _, err := motion.FromSpec(a.Motion); err != nil {
			return fmt.Errorf("anchor %q: %w", a.Name, err)
		}
	}
	if sources != 1 {
		return fmt.Errorf("need exactly one source anchor, got %d: %w", sources, dynamo.ErrInvalidConfig)
	}
	if connects > 1 {
		return fmt.Errorf("at most one anchor may connect at start, got %d: %w", connects, dynamo.ErrInvalidConfig)
	}
	return nil
}
