package sim

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/chain"
	"github.com/san-kum/liquidchain/internal/config"
	"github.com/san-kum/liquidchain/internal/motion"
	"github.com/san-kum/liquidchain/internal/render"
)

// FromConfig wires a runner for one scenario. Anchors start where their
// motion puts them at t=0 and the chain connects to the anchor flagged
// connect, if any. Without one the chain starts dead and waits for a
// tagged anchor to come within touch distance of the source.
func FromConfig(cfg *config.Config, seed int64) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := anchor.NewRegistry()
	scripts := make([]ScriptedAnchor, 0, len(cfg.Anchors))
	var source, target anchor.ID

	for _, a := range cfg.Anchors {
		m, err := motion.FromSpec(a.Motion)
		if err != nil {
			return nil, fmt.Errorf("anchor %q: %w", a.Name, err)
		}
		id := reg.Add(a.Name, m.At(0), a.Tags...)
		scripts = append(scripts, ScriptedAnchor{ID: id, Motion: m})
		if a.Source {
			source = id
		}
		if a.Connect {
			target = id
		}
	}

	solver, err := chain.New(cfg.ChainParams(), reg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	host := NewHost(solver, render.NewStrip(cfg.RenderSettings()), reg,
		anchor.NewTagFinder(reg, cfg.Target.Tag), source, cfg.Target.TouchDistance)
	if target != anchor.None {
		if err := host.Connect(target); err != nil {
			return nil, err
		}
	}

	return NewRunner(host, reg, scripts), nil
}

// SimConfig returns the stepping settings of a scenario.
func SimConfig(cfg *config.Config, record bool) Config {
	return Config{Dt: cfg.Dt, Duration: cfg.Duration, Record: record}
}

// Builder returns a BuildFunc for ensembles over one scenario.
func Builder(cfg *config.Config) BuildFunc {
	return func(seed int64) (*Runner, error) {
		return FromConfig(cfg, seed)
	}
}
