package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/liquidchain/internal/dynamo"
	"github.com/san-kum/liquidchain/internal/motion"
)

func withAnchors(duration float64, anchors ...AnchorConfig) *Config {
	cfg := DefaultConfig()
	cfg.Duration = duration
	cfg.Anchors = anchors
	return cfg
}

// flowing slows the liquid down. At the default rate a sagging strand
// drains its upper points within a few frames.
func flowing(rate float64, cfg *Config) *Config {
	cfg.Chain.FlowRate = rate
	return cfg
}

func source(from [3]float64) AnchorConfig {
	return AnchorConfig{Name: "source", Source: true, Motion: motion.Spec{Kind: "static", From: from}}
}

var Presets = map[string]*Config{
	// static bridge that sags and settles without breaking
	"bridge": flowing(1, withAnchors(10,
		source([3]float64{0, 0, 0}),
		AnchorConfig{Name: "cup", Connect: true, Tags: []string{DefaultTargetTag},
			Motion: motion.Spec{Kind: "static", From: [3]float64{0.3, -0.05, 0}}},
	)),
	// the target sinks for a few seconds until the strand drains and snaps
	"drip": flowing(2, withAnchors(12,
		source([3]float64{0, 0, 0}),
		AnchorConfig{Name: "drop", Connect: true, Tags: []string{DefaultTargetTag},
			Motion: motion.Spec{Kind: "linear", From: [3]float64{0.01, -0.04, 0}, Velocity: [3]float64{0, -0.08, 0}, Stop: 8}},
	)),
	// pull apart until it breaks, come back and pick the chain up again
	"stretch": flowing(5, withAnchors(14,
		source([3]float64{0, 0, 0}),
		AnchorConfig{Name: "finger", Connect: true, Tags: []string{DefaultTargetTag},
			Motion: motion.Spec{
				Kind:   "path",
				Points: [][3]float64{{0.02, 0, 0}, {0.6, -0.1, 0}, {0.6, -0.1, 0}, {0.02, 0, 0}},
				Times:  []float64{0, 5, 7, 10},
			}},
	)),
	// full flow rate: the strand snaps as the finger leaves and is picked
	// up again each time the finger brushes past the source
	"touch": withAnchors(10,
		source([3]float64{0, 0, 0}),
		AnchorConfig{Name: "finger", Connect: true, Tags: []string{DefaultTargetTag},
			Motion: motion.Spec{Kind: "oscillate", From: [3]float64{0.12, 0, 0}, Amplitude: [3]float64{0.12, 0.02, 0}, Frequency: 0.4}},
	),
	// the source swings above a fixed hook and the strand holds
	"swing": flowing(0.5, withAnchors(10,
		AnchorConfig{Name: "source", Source: true,
			Motion: motion.Spec{Kind: "oscillate", From: [3]float64{0, 0, 0}, Amplitude: [3]float64{0.1, 0, 0.05}, Frequency: 0.5}},
		AnchorConfig{Name: "hook", Connect: true, Tags: []string{DefaultTargetTag},
			Motion: motion.Spec{Kind: "static", From: [3]float64{0, -0.25, 0}}},
	)),
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%q (available: %v): %w", name, ListPresets(), dynamo.ErrUnknownPreset)
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
