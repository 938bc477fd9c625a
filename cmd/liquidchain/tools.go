package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/chain"
	"github.com/san-kum/liquidchain/internal/config"
	"github.com/san-kum/liquidchain/internal/dynamo"
	"github.com/san-kum/liquidchain/internal/metrics"
	"github.com/san-kum/liquidchain/internal/optim"
	"github.com/san-kum/liquidchain/internal/sim"
)

var (
	sweepParams   []string
	sweepMetric   string
	sweepMaximize bool
	ensembleRuns  int
)

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDURATION\tANCHORS")
	for _, name := range config.ListPresets() {
		cfg, _ := config.GetPreset(name)
		parts := make([]string, 0, len(cfg.Anchors))
		for _, a := range cfg.Anchors {
			kind := a.Motion.Kind
			if kind == "" {
				kind = "static"
			}
			parts = append(parts, fmt.Sprintf("%s(%s)", a.Name, kind))
		}
		fmt.Fprintf(w, "%s\t%.0fs\t%s\n", name, cfg.Duration, strings.Join(parts, " "))
	}
	return w.Flush()
}

// bench times the bare solver pipeline over chain sizes and iteration counts.
func bench(cmd *cobra.Command, args []string) error {
	fmt.Println("benchmarking chain solver")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tITER\tSTEPS\tTIME\tSTEPS/SEC")

	const steps = 6000
	for _, n := range []int{7, 15, 31, 63} {
		for _, it := range []int{1, 3, 8} {
			reg := anchor.NewRegistry()
			a := reg.Add("a", dynamo.V(0, 0, 0))
			b := reg.Add("b", dynamo.V(0.3, -0.05, 0))

			p := chain.DefaultParams()
			p.FreePoints = n
			p.Iterations = it
			p.BreakThreshold = 0
			s, err := chain.New(p, reg, rand.New(rand.NewSource(1)))
			if err != nil {
				return err
			}
			if err := s.Connect(a, b); err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < steps; i++ {
				if pa, pb, ok := s.Ends(); ok {
					s.CalcRestDistance(pa, pb)
				}
				s.Step(config.DefaultDt, 1)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", n+2, it, steps, elapsed, steps/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func parseParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2: %w", s, dynamo.ErrInvalidParams)
	}
	var vals []float64
	for _, v := range strings.Split(list, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value %q for %s: %w", v, name, dynamo.ErrInvalidParams)
		}
		vals = append(vals, f)
	}
	return name, vals, nil
}

func sweep(cmd *cobra.Command, args []string) error {
	name, cfg, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required (tunable: %s)", strings.Join(chain.ParamNames(), ", "))
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, s := range sweepParams {
		n, vals, err := parseParam(s)
		if err != nil {
			return err
		}
		names = append(names, n)
		ranges = append(ranges, vals)
	}

	g := optim.NewGridSearch(names, ranges)
	best, val, trials, err := g.Search(cmd.Context(), optim.ScenarioBuilder(cfg, cfg.Seed),
		sim.SimConfig(cfg, false), sweepMetric, sweepMaximize)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no valid combination for %s", name)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for _, t := range trials {
		cells := make([]string, len(names))
		for i, n := range names {
			cells[i] = strconv.FormatFloat(t.Params[n], 'g', -1, 64)
		}
		fmt.Fprintf(w, "%s\t%.6f\n", strings.Join(cells, "\t"), t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6f at %v\n", sweepMetric, val, best)
	return nil
}

func ensemble(cmd *cobra.Command, args []string) error {
	name, cfg, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	build := func(s int64) (*sim.Runner, error) {
		r, err := sim.FromConfig(cfg, s)
		if err != nil {
			return nil, err
		}
		metrics.Attach(r)
		return r, nil
	}

	fmt.Printf("running %d seeds of %s\n\n", ensembleRuns, name)
	start := time.Now()
	results, err := sim.NewEnsemble(build, ensembleRuns, cfg.Seed).Run(cmd.Context(), sim.SimConfig(cfg, false))
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	means := make(map[string]float64)
	for _, m := range metrics.Names() {
		means[m] = sim.Mean(results, m)
	}
	return printMetrics(means)
}
