package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/liquidchain/internal/dynamo"
	"github.com/san-kum/liquidchain/internal/export"
	"github.com/san-kum/liquidchain/internal/sim"
	"github.com/san-kum/liquidchain/internal/storage"
)

var (
	frameIndex int
	outPath    string
	svgSize    int
	svgTrail   bool
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tPOINTS\tSTEPS\tBREAKS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%.0f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Points,
			run.Steps,
			run.Metrics["breaks"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		caption string
		value   func(f *sim.Frame) float64
	}{
		{"total mass", func(f *sim.Frame) float64 { return f.TotalMass }},
		{"min mass", func(f *sim.Frame) float64 { return f.MinMass }},
		{"rest distance", func(f *sim.Frame) float64 { return f.RestDistance }},
		{"connect counter", func(f *sim.Frame) float64 { return float64(f.Counter) }},
	}

	for _, s := range series {
		data := make([]float64, len(frames))
		for i := range frames {
			data[i] = s.value(&frames[i])
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).CopyFrames(args[0], os.Stdout)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to draw")
	}

	var svg string
	if svgTrail {
		var pts []dynamo.Vec3
		for _, f := range frames {
			if f.Render.Enabled {
				pts = append(pts, f.Render.Points[len(f.Render.Points)/2])
			}
		}
		svg = export.TrailToSVG(pts, svgSize, svgSize, "#00a8cc")
	} else {
		f, err := pickFrame(frames, frameIndex)
		if err != nil {
			return err
		}
		svg = export.FrameToSVG(f.Render, svgSize, svgSize, "#00a8cc", 10)
	}

	if outPath == "" {
		_, err = fmt.Fprintln(os.Stdout, svg)
		return err
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

// pickFrame returns frame n (1-based), or the last visible one for n == 0.
func pickFrame(frames []sim.Frame, n int) (sim.Frame, error) {
	if n > 0 {
		if n > len(frames) {
			return sim.Frame{}, fmt.Errorf("frame %d out of range (1..%d)", n, len(frames))
		}
		return frames[n-1], nil
	}
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Render.Enabled {
			return frames[i], nil
		}
	}
	return frames[len(frames)-1], nil
}
