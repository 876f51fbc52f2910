package dynamo

import "math"

const (
	// MinRestLength is the floor applied to every rest length.
	MinRestLength = 15.0

	// MaxStretch saturates the restoring force of long transient stretches.
	MaxStretch = 10.0

	// TensionRange is the stretch at which Tension reports 1.
	TensionRange = 10.0

	distanceEpsilon = 1e-9
)

// Edge is a massless damped spring between two vertices of the same graph.
type Edge struct {
	Start, End VertexID
	RestLength float64
}

// NewEdge returns an edge with the rest length floored at MinRestLength.
func NewEdge(start, end VertexID, restLength float64) Edge {
	return Edge{Start: start, End: end, RestLength: floorRest(restLength)}
}

func floorRest(l float64) float64 {
	if !(l > MinRestLength) {
		return MinRestLength
	}
	return l
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id VertexID) bool {
	return e.Start == id || e.End == id
}

// SpringForce is the impulse a spring produces during one tick.
type SpringForce struct {
	FX, FY    float64
	Potential float64
}

// Force evaluates the spring law for the given endpoint positions. The
// returned vector points from end to start and is already scaled by dt;
// the start endpoint is pulled against it, the end endpoint along it.
// Potential uses the unsaturated stretch.
func (e Edge) Force(start, end *Vertex, k, dt float64) SpringForce {
	dx := start.X - end.X
	dy := start.Y - end.Y
	dist := math.Max(math.Hypot(dx, dy), distanceEpsilon)

	stretch := dist - e.RestLength
	pe := k * stretch * stretch
	stretch = math.Max(math.Min(stretch, MaxStretch), -MaxStretch)

	f := k * stretch * dt
	return SpringForce{
		FX:        f * dx / dist,
		FY:        f * dy / dist,
		Potential: pe,
	}
}

// Apply transfers the impulse to the endpoint velocities. When both ends
// are free each receives half; when one end is pinned the other receives
// all of it; when both are pinned nothing moves.
func (f SpringForce) Apply(start, end *Vertex) {
	switch {
	case start.Pinned && end.Pinned:
		return
	case start.Pinned:
		end.VX += f.FX / end.Mass
		end.VY += f.FY / end.Mass
	case end.Pinned:
		start.VX -= f.FX / start.Mass
		start.VY -= f.FY / start.Mass
	default:
		start.VX -= 0.5 * f.FX / start.Mass
		start.VY -= 0.5 * f.FY / start.Mass
		end.VX += 0.5 * f.FX / end.Mass
		end.VY += 0.5 * f.FY / end.Mass
	}
}

// Tension maps |distance - rest| onto [0, 1] for display.
func (e Edge) Tension(start, end *Vertex) float64 {
	d := math.Hypot(start.X-end.X, start.Y-end.Y)
	return math.Min(math.Abs(d-e.RestLength), TensionRange) / TensionRange
}
