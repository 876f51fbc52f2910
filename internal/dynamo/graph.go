package dynamo

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultSpringConstant = 0.02
	DefaultFriction       = 0.02
	DefaultGravity        = 0.02

	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// DefaultSubsteps is the number of fixed ticks per rendered frame.
	DefaultSubsteps = 10
	// TickMillis is the fixed length of one sub-step.
	TickMillis = 16

	EdgeCreationRadius = 100.0
	DragRadius         = 10.0
)

// Params are the runtime-tunable physical constants.
type Params struct {
	SpringConstant float64 `yaml:"spring_constant" json:"spring_constant"`
	Friction       float64 `yaml:"friction" json:"friction"`
	Gravity        float64 `yaml:"gravity" json:"gravity"`
}

func DefaultParams() Params {
	return Params{
		SpringConstant: DefaultSpringConstant,
		Friction:       DefaultFriction,
		Gravity:        DefaultGravity,
	}
}

// ParamNames lists the names accepted by Params.Set and Params.Get.
var ParamNames = []string{"spring_constant", "friction", "gravity"}

func (p *Params) field(name string) (*float64, error) {
	switch name {
	case "spring_constant", "k":
		return &p.SpringConstant, nil
	case "friction":
		return &p.Friction, nil
	case "gravity":
		return &p.Gravity, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

func (p *Params) Set(name string, v float64) error {
	f, err := p.field(name)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (p Params) Get(name string) (float64, error) {
	f, err := p.field(name)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

// Graph owns the vertices and edges of one simulation.
type Graph struct {
	Params
	Width, Height float64
	Substeps      int
	EdgeRadius    float64

	vertices []Vertex
	edges    []Edge

	jitter     Jitter
	restJitter Jitter

	potential float64
	kinetic   float64
	steps     int
}

type Option func(*Graph)

func WithParams(p Params) Option {
	return func(g *Graph) { g.Params = p }
}

func WithBounds(width, height float64) Option {
	return func(g *Graph) { g.Width, g.Height = width, height }
}

func WithSubsteps(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.Substeps = n
		}
	}
}

func WithEdgeRadius(r float64) Option {
	return func(g *Graph) { g.EdgeRadius = r }
}

// WithJitter sets the source used to offset vertices created by AddVertex
// and by topology builders.
func WithJitter(j Jitter) Option {
	return func(g *Graph) {
		if j != nil {
			g.jitter = j
		}
	}
}

// WithRestLengthJitter perturbs rest lengths computed by Connect.
func WithRestLengthJitter(j Jitter) Option {
	return func(g *Graph) {
		if j != nil {
			g.restJitter = j
		}
	}
}

func New(opts ...Option) *Graph {
	g := &Graph{
		Params:     DefaultParams(),
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Substeps:   DefaultSubsteps,
		EdgeRadius: EdgeCreationRadius,
		vertices:   make([]Vertex, 0),
		edges:      make([]Edge, 0),
		jitter:     NoJitter{},
		restJitter: NoJitter{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Vertices returns the live vertex slice. Callers may write positions and
// pin flags between steps; the slice is invalidated by additions.
func (g *Graph) Vertices() []Vertex { return g.vertices }
func (g *Graph) Edges() []Edge      { return g.edges }
func (g *Graph) NumVertices() int   { return len(g.vertices) }
func (g *Graph) NumEdges() int      { return len(g.edges) }

func (g *Graph) PotentialEnergy() float64 { return g.potential }
func (g *Graph) KineticEnergy() float64   { return g.kinetic }

// Steps is the number of ticks executed since the last Reset.
func (g *Graph) Steps() int { return g.steps }

func (g *Graph) Vertex(id VertexID) (*Vertex, error) {
	if id < 0 || int(id) >= len(g.vertices) {
		return nil, ErrVertexNotFound
	}
	return &g.vertices[id], nil
}

// Place appends a vertex at (x, y) offset by the graph's jitter source,
// without creating edges.
func (g *Graph) Place(x, y float64) VertexID {
	dx, dy := g.jitter.Offset()
	return g.Append(NewVertex(x+dx, y+dy, DefaultMass))
}

// Append adds v verbatim and returns its handle.
func (g *Graph) Append(v Vertex) VertexID {
	if !(v.Mass > MinMass) {
		v.Mass = MinMass
	}
	g.vertices = append(g.vertices, v)
	return VertexID(len(g.vertices) - 1)
}

// AddVertex places a jittered vertex and connects it to every existing
// vertex within the edge creation radius, in insertion order.
func (g *Graph) AddVertex(x, y float64) VertexID {
	dx, dy := g.jitter.Offset()
	nv := NewVertex(x+dx, y+dy, DefaultMass)
	r2 := g.EdgeRadius * g.EdgeRadius

	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, nv)
	for i := VertexID(0); i < id; i++ {
		if g.vertices[i].distSq(&g.vertices[id]) < r2 {
			g.edges = append(g.edges, g.newEdge(i, id))
		}
	}
	return id
}

// Connect adds an edge whose rest length is the current distance between
// the endpoints.
func (g *Graph) Connect(a, b VertexID) error {
	if err := g.checkPair(a, b); err != nil {
		return err
	}
	g.edges = append(g.edges, g.newEdge(a, b))
	return nil
}

// ConnectRest adds an edge with an explicit rest length.
func (g *Graph) ConnectRest(a, b VertexID, rest float64) error {
	if err := g.checkPair(a, b); err != nil {
		return err
	}
	g.edges = append(g.edges, NewEdge(a, b, rest))
	return nil
}

func (g *Graph) checkPair(a, b VertexID) error {
	if a == b {
		return ErrSelfLoop
	}
	if _, err := g.Vertex(a); err != nil {
		return err
	}
	if _, err := g.Vertex(b); err != nil {
		return err
	}
	return nil
}

func (g *Graph) newEdge(a, b VertexID) Edge {
	d2 := g.restJitter.RestLength(g.vertices[a].distSq(&g.vertices[b]))
	return NewEdge(a, b, math.Sqrt(math.Max(d2, 0)))
}

// RemoveVertex deletes a vertex and every incident edge. Handles above id
// shift down by one.
func (g *Graph) RemoveVertex(id VertexID) error {
	if _, err := g.Vertex(id); err != nil {
		return err
	}
	g.vertices = append(g.vertices[:id], g.vertices[id+1:]...)

	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Touches(id) {
			continue
		}
		if e.Start > id {
			e.Start--
		}
		if e.End > id {
			e.End--
		}
		kept = append(kept, e)
	}
	g.edges = kept
	return nil
}

// RemoveLastVertex undoes the most recent addition. No-op when empty.
func (g *Graph) RemoveLastVertex() {
	if len(g.vertices) == 0 {
		return
	}
	_ = g.RemoveVertex(VertexID(len(g.vertices) - 1))
}

// Reset clears vertices, edges and energies. Parameters are kept.
func (g *Graph) Reset() {
	g.vertices = g.vertices[:0]
	g.edges = g.edges[:0]
	g.potential = 0
	g.kinetic = 0
	g.steps = 0
}

// Nearest returns the first vertex strictly within radius of (x, y).
func (g *Graph) Nearest(x, y, radius float64) (VertexID, bool) {
	probe := Vertex{X: x, Y: y}
	r2 := radius * radius
	for i := range g.vertices {
		if g.vertices[i].distSq(&probe) < r2 {
			return VertexID(i), true
		}
	}
	return -1, false
}

// Tension of edge e in the current geometry, in [0, 1].
func (g *Graph) Tension(e Edge) float64 {
	return e.Tension(&g.vertices[e.Start], &g.vertices[e.End])
}

// DtFor converts an elapsed frame time to the simulation time step.
func DtFor(elapsed time.Duration) float64 {
	return float64(elapsed) / float64(time.Millisecond) / 1000 * 60
}

// Step runs one fixed tick of TickMillis.
func (g *Graph) Step() {
	g.StepDt(float64(TickMillis) / 1000 * 60)
}

// StepElapsed runs one tick sized by the measured frame time.
func (g *Graph) StepElapsed(elapsed time.Duration) {
	g.StepDt(DtFor(elapsed))
}

// RunSubsteps runs Substeps fixed ticks, as a host loop does once per frame.
func (g *Graph) RunSubsteps() {
	for i := 0; i < g.Substeps; i++ {
		g.Step()
	}
}

// StepDt advances the network by dt: spring impulses, integration, clamping.
func (g *Graph) StepDt(dt float64) {
	g.potential = 0
	for _, e := range g.edges {
		start, end := &g.vertices[e.Start], &g.vertices[e.End]
		f := e.Force(start, end, g.SpringConstant, dt)
		g.potential += f.Potential
		f.Apply(start, end)
	}

	g.kinetic = 0
	for i := range g.vertices {
		v := &g.vertices[i]
		speed := v.Integrate(g.Friction, g.Gravity, dt)
		g.kinetic += 0.5 * v.Mass * speed * speed
	}

	for i := range g.vertices {
		g.vertices[i].Clamp(g.Height, g.Width)
	}
	g.steps++
}

// IsValid reports whether every position and velocity is finite.
func (g *Graph) IsValid() bool {
	for _, v := range g.vertices {
		for _, f := range [...]float64{v.X, v.Y, v.VX, v.VY} {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false
			}
		}
	}
	return true
}

// Clone returns an independent deep copy sharing the jitter sources.
func (g *Graph) Clone() *Graph {
	c := *g
	c.vertices = append([]Vertex(nil), g.vertices...)
	c.edges = append([]Edge(nil), g.edges...)
	return &c
}
