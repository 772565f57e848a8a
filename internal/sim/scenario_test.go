package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/physics"
)

var _ = Describe("Fountain run", func() {
	Context("with a 25ms spawn delay at 60 FPS", func() {
		It("spawns every second frame until the cap", func() {
			s := New(newSolver(), newSpawner(5, 7))
			result, err := s.Run(context.Background(), RunConfig{Frames: 60})
			Expect(err).NotTo(HaveOccurred())

			var spawnFrames []int
			prev := 0
			for i, sample := range result.Series {
				if sample.Count > prev {
					Expect(sample.Count - prev).To(Equal(1))
					spawnFrames = append(spawnFrames, i)
				}
				prev = sample.Count
			}

			Expect(spawnFrames).To(HaveLen(5))
			for i := 1; i < len(spawnFrames); i++ {
				Expect(spawnFrames[i] - spawnFrames[i-1]).To(BeNumerically("<=", 2))
			}
			Expect(result.Series[len(result.Series)-1].Count).To(Equal(5))
		})
	})

	Context("with identical seeds", func() {
		It("produces bit-identical positions", func() {
			run := func() []Frame {
				s := New(newSolver(), newSpawner(80, 42))
				result, err := s.Run(context.Background(), RunConfig{Frames: 300, SampleEvery: 50})
				Expect(err).NotTo(HaveOccurred())
				return result.Frames
			}
			Expect(run()).To(Equal(run()))
		})

		It("differs for another seed", func() {
			a := New(newSolver(), newSpawner(30, 1))
			b := New(newSolver(), newSpawner(30, 2))
			ra, err := a.Run(context.Background(), RunConfig{Frames: 120, SampleEvery: 120})
			Expect(err).NotTo(HaveOccurred())
			rb, err := b.Run(context.Background(), RunConfig{Frames: 120, SampleEvery: 120})
			Expect(err).NotTo(HaveOccurred())
			Expect(ra.Frames).NotTo(Equal(rb.Frames))
		})
	})

	Context("once the fountain settles", func() {
		It("keeps every object inside the boundary", func() {
			solver := newSolver()
			s := New(solver, newSpawner(150, 3))
			containment := metrics.NewContainment(solver.GetConstraint())
			s.AddMetric(containment)

			_, err := s.Run(context.Background(), RunConfig{Frames: 600, ValidateState: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(containment.Value()).To(BeNumerically(">", 0.99))

			center, radius := solver.GetConstraint()
			for _, o := range solver.GetObjects() {
				d := r2.Norm(r2.Sub(o.Position, center))
				Expect(d).To(BeNumerically("<=", radius-o.Radius+1.0))
				Expect(math.IsNaN(o.Position.X)).To(BeFalse())
			}
		})

		It("loses energy to the inelastic boundary", func() {
			solver := newSolver()
			s := New(solver, newSpawner(40, 5))
			result, err := s.Run(context.Background(), RunConfig{Frames: 900})
			Expect(err).NotTo(HaveOccurred())

			peak := 0.0
			for _, sample := range result.Series {
				peak = math.Max(peak, sample.Kinetic)
			}
			final := result.Series[len(result.Series)-1].Kinetic
			Expect(final).To(BeNumerically("<", peak))
		})
	})

	Context("without a spawner", func() {
		It("leaves a resting object alone under zero gravity", func() {
			solver := newSolver()
			solver.SetGravity(physics.Vec2{})
			h := solver.AddObject(physics.Vec2{X: 480, Y: 510}, 6)

			_, err := New(solver, nil).Run(context.Background(), RunConfig{Frames: 240})
			Expect(err).NotTo(HaveOccurred())
			Expect(solver.GetObjects()[h].Position).To(Equal(physics.Vec2{X: 480, Y: 510}))
		})
	})
})
