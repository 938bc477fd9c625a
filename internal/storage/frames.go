package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/liquidchain/internal/dynamo"
	"github.com/san-kum/liquidchain/internal/render"
	"github.com/san-kum/liquidchain/internal/sim"
)

// scalar columns, followed by x,y,z,m,w for every point
var frameColumns = []string{
	"time", "step", "counter", "connected", "dead", "event",
	"rest_distance", "length_scale", "fade", "total_mass", "min_mass",
	"constraint_error", "visible", "width_multiplier",
}

const perPoint = 5

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteFramesCSV writes one row per frame. Hidden frames leave the position
// and width cells empty.
func WriteFramesCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)

	n := 0
	if len(frames) > 0 {
		n = len(frames[0].Masses)
	}

	header := append([]string(nil), frameColumns...)
	for i := 0; i < n; i++ {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i),
			fmt.Sprintf("m%d", i), fmt.Sprintf("w%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			formatFloat(f.Time),
			strconv.Itoa(f.Step),
			strconv.Itoa(f.Counter),
			strconv.FormatBool(f.Connected),
			strconv.FormatBool(f.Dead),
			f.Event.String(),
			formatFloat(f.RestDistance),
			formatFloat(f.LengthScale),
			formatFloat(f.Fade),
			formatFloat(f.TotalMass),
			formatFloat(f.MinMass),
			formatFloat(f.ConstraintError),
			strconv.FormatBool(f.Render.Enabled),
			formatFloat(f.Render.WidthMultiplier),
		}
		for i := 0; i < n; i++ {
			var m float64
			if i < len(f.Masses) {
				m = f.Masses[i]
			}
			if f.Render.Enabled && i < len(f.Render.Points) {
				p := f.Render.Points[i]
				row = append(row, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z),
					formatFloat(m), formatFloat(f.Render.Samples[i].Width))
			} else {
				row = append(row, "", "", "", formatFloat(m), "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadFramesCSV parses a table written by WriteFramesCSV.
func ReadFramesCSV(r io.Reader) ([]sim.Frame, error) {
	records, err := newCSVReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	n := (len(records[0]) - len(frameColumns)) / perPoint
	frames := make([]sim.Frame, 0, len(records)-1)

	for line, rec := range records[1:] {
		if len(rec) < len(frameColumns)+n*perPoint {
			return nil, fmt.Errorf("frames line %d: short record", line+2)
		}
		p := parser{rec: rec}

		f := sim.Frame{
			Time:            p.float(0),
			Step:            p.int(1),
			Counter:         p.int(2),
			Connected:       p.bool(3),
			Dead:            p.bool(4),
			Event:           sim.ParseEvent(rec[5]),
			RestDistance:    p.float(6),
			LengthScale:     p.float(7),
			Fade:            p.float(8),
			TotalMass:       p.float(9),
			MinMass:         p.float(10),
			ConstraintError: p.float(11),
			Masses:          make([]float64, n),
		}
		f.Render.Enabled = p.bool(12)
		f.Render.WidthMultiplier = p.float(13)
		if f.Render.Enabled {
			f.Render.Points = make([]dynamo.Vec3, n)
			f.Render.Samples = make([]render.Sample, n)
		}

		span := float64(n - 1)
		for i := 0; i < n; i++ {
			base := len(frameColumns) + i*perPoint
			f.Masses[i] = p.float(base + 3)
			if !f.Render.Enabled {
				continue
			}
			f.Render.Points[i] = dynamo.V(p.float(base), p.float(base+1), p.float(base+2))
			t := 0.0
			if span > 0 {
				t = float64(i) / span
			}
			f.Render.Samples[i] = render.Sample{T: t, Width: p.float(base + 4)}
		}

		if p.err != nil {
			return nil, fmt.Errorf("frames line %d: %w", line+2, p.err)
		}
		frames = append(frames, f)
	}

	return frames, nil
}

// parser keeps the first conversion error so a record is checked once.
type parser struct {
	rec []string
	err error
}

func (p *parser) float(i int) float64 {
	v, err := strconv.ParseFloat(p.rec[i], 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) int(i int) int {
	v, err := strconv.Atoi(p.rec[i])
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) bool(i int) bool {
	v, err := strconv.ParseBool(p.rec[i])
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}
