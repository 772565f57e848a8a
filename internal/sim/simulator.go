package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/spawn"
)

// Simulator drives a solver frame by frame: spawn, update, observe.
type Simulator struct {
	solver    *physics.Solver
	spawner   *spawn.Spawner
	metrics   []Metric
	observers []Observer
}

// New wraps solver and an optional spawner. A spawner running on a
// FrameClock has its clock advanced by the frame step after each frame.
func New(solver *physics.Solver, spawner *spawn.Spawner) *Simulator {
	return &Simulator{
		solver:    solver,
		spawner:   spawner,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Solver() *physics.Solver { return s.solver }

// Step runs a single frame and reports whether an object was spawned.
func (s *Simulator) Step() bool {
	spawned := false
	if s.spawner != nil {
		_, spawned = s.spawner.Step(s.solver)
	}
	s.solver.Update()
	if s.spawner != nil {
		if fc, ok := s.spawner.Clock().(*spawn.FrameClock); ok {
			fc.Advance(s.solver.GetFrameDt())
		}
	}
	return spawned
}

func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Series:  make([]Sample, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for frame := 0; frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			s.collectMetrics(result)
			return result, ctx.Err()
		default:
		}

		s.Step()

		objs := s.solver.GetObjects()
		t := s.solver.GetTime()
		dt := s.solver.GetStepDt()

		if cfg.ValidateState && !valid(objs) {
			s.collectMetrics(result)
			return result, &SimError{Frame: frame, Time: t, Wrapped: ErrInvalidState}
		}

		for _, m := range s.metrics {
			m.Observe(objs, t, dt)
		}
		for _, o := range s.observers {
			o.OnFrame(frame, s.solver)
		}

		result.Series = append(result.Series, Sample{
			Time:    t,
			Count:   len(objs),
			Kinetic: metrics.Kinetic(objs, dt),
		})
		if cfg.SampleEvery > 0 && ((frame+1)%cfg.SampleEvery == 0 || frame == cfg.Frames-1) {
			result.Frames = append(result.Frames, Snapshot(frame, s.solver))
		}
		result.FramesRun++
	}

	s.collectMetrics(result)
	return result, nil
}

func (s *Simulator) collectMetrics(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg RunConfig) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, cfg.Frames)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	if err := s.solver.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func valid(objs []physics.Object) bool {
	for i := range objs {
		p := objs[i].Position
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}
