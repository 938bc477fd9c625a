package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/liquidchain/internal/metrics"
	"github.com/san-kum/liquidchain/internal/sim"
	"github.com/san-kum/liquidchain/internal/storage"
	"github.com/san-kum/liquidchain/internal/stream"
	"github.com/san-kum/liquidchain/internal/viz"
)

var addr string

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runScenario(cmd *cobra.Command, args []string) error {
	name, cfg, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	r, err := sim.FromConfig(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	metrics.Attach(r)

	fmt.Println(titleStyle.Render(fmt.Sprintf("running %s", name)))
	start := time.Now()

	result, err := r.Run(cmd.Context(), sim.SimConfig(cfg, true))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println(mutedStyle.Render("\nmetrics:"))
	return printMetrics(result.Metrics)
}

func printMetrics(m map[string]float64) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, m[name])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	name, cfg, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(name, cfg, cfg.Seed)
}

func serve(cmd *cobra.Command, args []string) error {
	name, cfg, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := stream.NewHub()
	driver, err := stream.NewDriver(hub, func() (*sim.Runner, error) {
		return sim.FromConfig(cfg, cfg.Seed)
	}, cfg.Dt)
	if err != nil {
		return err
	}

	fmt.Printf("streaming %s on ws://%s/api/v1/stream\n", name, addr)
	return stream.Serve(ctx, addr, hub, driver, storage.New(dataDir))
}
