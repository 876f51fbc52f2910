// Package dynamo provides the mass-spring network engine.
//
// A [Graph] owns an ordered collection of [Vertex] point masses and an
// ordered collection of [Edge] damped springs that reference vertices by
// [VertexID]. Each tick the graph:
//
//   - accumulates spring impulses from the current geometry
//   - integrates velocities and positions (damping, gravity)
//   - clamps unpinned vertices to the world bounds
//
// and records the elastic potential and kinetic energy of the step.
//
// # Example
//
//	g := dynamo.New()
//	g.AddVertex(100, 100)
//	g.AddVertex(150, 100)
//	for i := 0; i < 60; i++ {
//	    g.RunSubsteps()
//	}
//	fmt.Println(g.PotentialEnergy(), g.KineticEnergy())
//
// # Time step
//
// All terms are scaled by dt = elapsed_ms / 1000 * 60, so a 16 ms tick
// advances the system by 0.96 units. [Graph.RunSubsteps] runs a fixed batch
// of such ticks per frame; [Graph.StepElapsed] derives dt from a measured
// frame time instead.
//
// # Thread Safety
//
// Graph instances are NOT thread-safe. Mutation and stepping must be
// interleaved by a single caller.
package dynamo
