package optim

import (
	"context"
	"math"

	"github.com/san-kum/liquidchain/internal/sim"
)

// BuildFunc creates a runner for one parameter combination.
type BuildFunc func(params map[string]float64) (*sim.Runner, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated combination.
type Trial struct {
	Params map[string]float64
	Value  float64
}

// Search evaluates every combination and returns the best one. Combinations
// whose build or run fails are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	build BuildFunc,
	cfg sim.Config,
	metricName string,
	maximize bool,
) (map[string]float64, float64, []Trial, error) {

	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		r, err := build(params)
		if err != nil {
			return
		}
		result, err := r.Run(ctx, cfg)
		if err != nil {
			return
		}

		val := result.Metrics[metricName]
		trials = append(trials, Trial{Params: params, Value: val})
		if (maximize && val > best) || (!maximize && val < best) {
			best = val
			bestParams = params
		}
	})

	return bestParams, best, trials, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(map[string]float64),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		eval(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval); err != nil {
			return err
		}
	}
	return nil
}
