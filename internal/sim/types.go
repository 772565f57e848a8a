package sim

import (
	"image/color"

	"github.com/san-kum/verletsim/internal/physics"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(objects []physics.Object, t, dt float64)
	Value() float64
	Reset()
}

// Observer is notified after every frame. It must not keep the solver.
type Observer interface {
	OnFrame(frame int, s *physics.Solver)
}

type ObserverFunc func(frame int, s *physics.Solver)

func (f ObserverFunc) OnFrame(frame int, s *physics.Solver) { f(frame, s) }

type RunConfig struct {
	Frames        int
	SampleEvery   int
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Frames:        600,
		SampleEvery:   10,
		ValidateState: true,
	}
}

type ObjectSnapshot struct {
	X, Y   float64
	Radius float64
	Color  color.RGBA
}

// Frame is a copy of every object at the end of one frame.
type Frame struct {
	Index   int
	Time    float64
	Objects []ObjectSnapshot
}

// Sample is the per-frame scalar series.
type Sample struct {
	Time    float64
	Count   int
	Kinetic float64
}

type Result struct {
	Series    []Sample
	Frames    []Frame
	Metrics   map[string]float64
	FramesRun int
}

// Snapshot copies the solver's objects so the frame outlives later updates.
func Snapshot(index int, s *physics.Solver) Frame {
	objs := s.GetObjects()
	f := Frame{
		Index:   index,
		Time:    s.GetTime(),
		Objects: make([]ObjectSnapshot, len(objs)),
	}
	for i := range objs {
		f.Objects[i] = ObjectSnapshot{
			X:      objs[i].Position.X,
			Y:      objs[i].Position.Y,
			Radius: objs[i].Radius,
			Color:  objs[i].Color,
		}
	}
	return f
}
