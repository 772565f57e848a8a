// Package physics implements the Verlet particle solver.
//
// A [Solver] owns a growing set of circular [Object] values confined to a
// circular boundary. Each call to [Solver.Update] advances one frame made of
// several sub-steps:
//
//  1. apply gravity to every object
//  2. push overlapping pairs apart, weighted by radius
//  3. clamp centers back inside the boundary
//  4. integrate positions with position Verlet
//
// Collision checks are brute force O(n²) and run in insertion order, so
// runs with the same inputs are reproducible.
//
// # Example
//
//	s := physics.NewSolver()
//	s.SetConstraint(physics.Vec2{X: 500, Y: 500}, 450)
//	s.SetSubStepsCount(8)
//	s.SetSimulationUpdateRule(60)
//	h := s.AddObject(physics.Vec2{X: 500, Y: 200}, 10)
//	s.SetObjectVelocity(h, physics.Vec2{X: 0, Y: 1200})
//	s.Update()
package physics
