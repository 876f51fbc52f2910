package dynamo

import "math"

const (
	DefaultMass = 5.0
	MinMass     = 1e-3
)

// VertexID is the insertion index of a vertex in its graph.
type VertexID int

// Vertex is a point mass.
type Vertex struct {
	Mass   float64
	X, Y   float64
	VX, VY float64
	Pinned bool
}

// NewVertex returns an unpinned vertex at rest. A non-positive mass is
// clamped to MinMass.
func NewVertex(x, y, mass float64) Vertex {
	if !(mass > MinMass) {
		mass = MinMass
	}
	return Vertex{Mass: mass, X: x, Y: y}
}

// Integrate applies damping and gravity to the velocity and, unless the
// vertex is pinned, advances the position. It returns the speed that
// contributes to kinetic energy, which is zero for pinned vertices.
func (v *Vertex) Integrate(friction, gravity, dt float64) float64 {
	damp := 1 - friction*dt
	v.VX *= damp
	v.VY *= damp
	v.VY += gravity * dt
	if v.Pinned {
		return 0
	}
	v.X += v.VX * dt
	v.Y += v.VY * dt
	return math.Hypot(v.VX, v.VY)
}

// Clamp keeps an unpinned vertex inside 0 <= x <= width and y <= height.
// Velocity is left untouched.
func (v *Vertex) Clamp(height, width float64) {
	if v.Pinned {
		return
	}
	v.Y = math.Min(v.Y, height)
	v.X = math.Max(math.Min(v.X, width), 0)
}

// KineticEnergy is 0.5*m*|v|^2, or zero for a pinned vertex.
func (v *Vertex) KineticEnergy() float64 {
	if v.Pinned {
		return 0
	}
	return 0.5 * v.Mass * (v.VX*v.VX + v.VY*v.VY)
}

func (v *Vertex) distSq(o *Vertex) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return dx*dx + dy*dy
}
