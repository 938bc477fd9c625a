package sim

import (
	"context"
	"sync"
)

// BuildFunc creates an independent runner for one seed.
type BuildFunc func(seed int64) (*Runner, error)

// Ensemble runs independent chains, one goroutine each. Runners share nothing.
type Ensemble struct {
	build     BuildFunc
	numRuns   int
	seedStart int64
}

func NewEnsemble(build BuildFunc, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			r, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Mean averages a metric across results, skipping nil results.
func Mean(results []*Result, metric string) float64 {
	var sum float64
	n := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		sum += r.Metrics[metric]
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
