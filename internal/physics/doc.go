// Package physics builds standard mass-spring topologies.
//
// Every builder resets the target graph before populating it, so a graph can
// be rebuilt in place:
//
//   - [BuildWheel]: hub, rim and spokes
//   - [BuildComplete]: every pair of vertices on a circle
//   - [BuildCloth]: a pinned rectangular grid mesh
//   - [BuildPyramid]: a fully triangulated equilateral lattice
//
// The New* variants return a fresh [dynamo.Graph] configured with the given
// options. Builders do not jitter unless the graph carries a jitter source
// (see [dynamo.WithJitter]).
package physics
