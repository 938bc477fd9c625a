package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/liquidchain/internal/config"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	iterations int
	freePoints int
	configFile string
)

// main wires the liquidchain commands. .env files and LIQUIDCHAIN_* variables
// are read before flags are parsed so flags always win.
func main() {
	config.LoadDotEnv()
	env := config.ReadEnv()

	rootCmd := &cobra.Command{
		Use:           "liquidchain",
		Short:         "liquid strand simulation lab",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", env.DataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	scenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "stream a scenario over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serve,
	}
	scenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", env.Addr, "listen address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mass and rest distance of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw one frame of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIndex, "frame", 0, "frame number (1-based, 0 for the last visible frame)")
	exportSVGCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 480, "image size in pixels")
	exportSVGCmd.Flags().BoolVar(&svgTrail, "trail", false, "draw the path of the middle point instead")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the solver",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bench,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "grid search chain parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "breaks", "metric to optimize")
	sweepCmd.Flags().BoolVar(&sweepMaximize, "maximize", false, "maximize instead of minimize")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run independent seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  ensemble,
	}
	scenarioFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "number of runs")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, presetsCmd, benchCmd, sweepCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&iterations, "iterations", 3, "constraint iterations")
	cmd.Flags().IntVar(&freePoints, "points", 15, "free points")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
}
