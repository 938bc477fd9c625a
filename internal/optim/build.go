package optim

import (
	"github.com/san-kum/liquidchain/internal/config"
	"github.com/san-kum/liquidchain/internal/metrics"
	"github.com/san-kum/liquidchain/internal/sim"
)

// ScenarioBuilder returns a BuildFunc that applies the tunable chain
// parameters to a copy of base and attaches the standard metrics.
func ScenarioBuilder(base *config.Config, seed int64) BuildFunc {
	return func(params map[string]float64) (*sim.Runner, error) {
		cfg := base.Clone()
		p := cfg.ChainParams()
		for name, v := range params {
			if err := p.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		cfg.SetChainParams(p)

		r, err := sim.FromConfig(cfg, seed)
		if err != nil {
			return nil, err
		}
		metrics.Attach(r)
		return r, nil
	}
}
