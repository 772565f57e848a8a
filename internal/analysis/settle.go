package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/spawn"
)

// SettlingTime returns the first time after the kinetic peak at which the
// energy stays below fraction*peak for the rest of the series, or -1 if it
// never does.
func SettlingTime(series []sim.Sample, fraction float64) float64 {
	if len(series) == 0 {
		return -1
	}

	peak, peakIdx := series[0].Kinetic, 0
	for i, s := range series {
		if s.Kinetic > peak {
			peak, peakIdx = s.Kinetic, i
		}
	}
	if peak == 0 {
		return series[0].Time
	}

	threshold := fraction * peak
	settled := -1
	for i := len(series) - 1; i > peakIdx; i-- {
		if series[i].Kinetic >= threshold {
			break
		}
		settled = i
	}
	if settled < 0 {
		return -1
	}
	return series[settled].Time
}

// SweepPoint summarizes one run of a sub-step sweep.
type SweepPoint struct {
	SubSteps    int
	Penetration float64
	Containment float64
	Kinetic     float64
}

// SubStepSweep runs cfg once per sub-step count for the given number of
// frames. Every run uses the same seed, so only the sub-step count differs.
func SubStepSweep(ctx context.Context, cfg *config.Config, subSteps []int, frames int) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(subSteps))
	for _, n := range subSteps {
		c := *cfg
		c.SubSteps = n
		if err := c.Validate(); err != nil {
			return points, err
		}

		solver := c.NewSolver()
		s := sim.New(solver, c.NewSpawner(spawn.NewFrameClock()))
		pen := metrics.NewPenetration()
		ke := metrics.NewKineticEnergy()
		contained := metrics.NewContainment(solver.GetConstraint())
		s.AddMetric(pen)
		s.AddMetric(ke)
		s.AddMetric(contained)

		if _, err := s.Run(ctx, sim.RunConfig{Frames: frames}); err != nil {
			return points, fmt.Errorf("sub-steps %d: %w", n, err)
		}
		points = append(points, SweepPoint{
			SubSteps:    n,
			Penetration: pen.Value(),
			Containment: contained.Value(),
			Kinetic:     ke.Last(),
		})
	}
	return points, nil
}
