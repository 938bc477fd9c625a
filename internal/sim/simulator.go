package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/dynamo"
	"github.com/san-kum/liquidchain/internal/motion"
)

// ScriptedAnchor moves a registered anchor along a motion each step.
type ScriptedAnchor struct {
	ID     anchor.ID
	Motion motion.Motion
}

// Runner plays a host against scripted anchors for a fixed duration.
type Runner struct {
	host      *Host
	registry  *anchor.Registry
	scripts   []ScriptedAnchor
	metrics   []Metric
	observers []Observer
}

func NewRunner(h *Host, reg *anchor.Registry, scripts []ScriptedAnchor) *Runner {
	return &Runner{
		host:      h,
		registry:  reg,
		scripts:   scripts,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Host() *Host                { return r.host }
func (r *Runner) Registry() *anchor.Registry { return r.registry }

// Release stops scripting id so the caller can move it by hand.
func (r *Runner) Release(id anchor.ID) {
	kept := r.scripts[:0]
	for _, s := range r.scripts {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	r.scripts = kept
}

// Place moves every scripted anchor to its position at time t.
func (r *Runner) Place(t float64) {
	for _, s := range r.scripts {
		// a removed anchor is skipped; the chain treats it as gone
		_ = r.registry.Move(s.ID, s.Motion.At(t))
	}
}

// Advance places the anchors for the end of the next step and runs it.
func (r *Runner) Advance(dt float64) Frame {
	r.Place(r.host.Time() + dt)
	f := r.host.Step(dt)
	for _, m := range r.metrics {
		m.Observe(&f)
	}
	for _, obs := range r.observers {
		obs.OnStep(&f)
	}
	return f
}

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.Record {
		result.Frames = make([]Frame, 0, steps)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f := r.Advance(cfg.Dt)
		if !f.IsValid() {
			err := dynamo.SimError{Time: f.Time, Step: f.Step, Message: dynamo.ErrInvalidState.Error()}
			result.Errors = append(result.Errors, err)
			break
		}

		result.StepsTaken++
		result.Final = f
		if cfg.Record {
			result.Frames = append(result.Frames, f)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps until the duration elapses, the context ends or fn returns false.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, fn func(*Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := int(cfg.Duration / cfg.Dt)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f := r.Advance(cfg.Dt)
		if !f.IsValid() {
			return dynamo.SimError{Time: f.Time, Step: f.Step, Message: dynamo.ErrInvalidState.Error()}
		}
		if !fn(&f) {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrInvalidConfig)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrInvalidConfig)
	}
	return nil
}
