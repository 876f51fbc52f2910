package dynamo

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestAddVertex_ConnectsWithinRadius(t *testing.T) {
	g := New()
	g.AddVertex(100, 100)
	g.AddVertex(150, 100) // 50 away: connected
	g.AddVertex(400, 100) // far from both
	g.AddVertex(190, 100) // 90 from #0, 40 from #1

	if g.NumVertices() != 4 {
		t.Fatalf("vertices = %d, want 4", g.NumVertices())
	}

	want := []Edge{
		{Start: 0, End: 1, RestLength: 50},
		{Start: 0, End: 3, RestLength: 90},
		{Start: 1, End: 3, RestLength: 40},
	}
	if g.NumEdges() != len(want) {
		t.Fatalf("edges = %d, want %d: %+v", g.NumEdges(), len(want), g.Edges())
	}
	for i, e := range g.Edges() {
		if e.Start != want[i].Start || e.End != want[i].End {
			t.Errorf("edge %d = %d-%d, want %d-%d", i, e.Start, e.End, want[i].Start, want[i].End)
		}
		if math.Abs(e.RestLength-want[i].RestLength) > 1e-9 {
			t.Errorf("edge %d rest = %v, want %v", i, e.RestLength, want[i].RestLength)
		}
	}
}

func TestAddVertex_RadiusIsStrict(t *testing.T) {
	g := New()
	g.AddVertex(0, 0)
	g.AddVertex(EdgeCreationRadius, 0)
	if g.NumEdges() != 0 {
		t.Errorf("vertex exactly at the radius was connected")
	}
}

func TestRemoveLastVertex(t *testing.T) {
	g := New()
	g.RemoveLastVertex()
	if g.NumVertices() != 0 {
		t.Fatal("RemoveLastVertex on empty graph changed state")
	}

	g.AddVertex(100, 100)
	g.AddVertex(150, 100)
	g.AddVertex(125, 140)
	if g.NumEdges() != 3 {
		t.Fatalf("edges = %d, want 3", g.NumEdges())
	}

	g.RemoveLastVertex()

	if g.NumVertices() != 2 {
		t.Errorf("vertices = %d, want 2", g.NumVertices())
	}
	if g.NumEdges() != 1 {
		t.Errorf("edges = %d, want 1", g.NumEdges())
	}
	for _, e := range g.Edges() {
		if e.Touches(2) {
			t.Errorf("edge %+v still references the removed vertex", e)
		}
	}
}

func TestRemoveVertex_Renumbers(t *testing.T) {
	g := New()
	for i := 0; i < 4; i++ {
		g.Append(NewVertex(float64(i)*40, 0, DefaultMass))
	}
	for _, p := range [][2]VertexID{{0, 1}, {1, 2}, {2, 3}, {0, 3}} {
		if err := g.Connect(p[0], p[1]); err != nil {
			t.Fatal(err)
		}
	}

	if err := g.RemoveVertex(1); err != nil {
		t.Fatal(err)
	}

	want := [][2]VertexID{{1, 2}, {0, 2}}
	if g.NumEdges() != len(want) {
		t.Fatalf("edges = %+v, want %v", g.Edges(), want)
	}
	for i, e := range g.Edges() {
		if e.Start != want[i][0] || e.End != want[i][1] {
			t.Errorf("edge %d = %d-%d, want %d-%d", i, e.Start, e.End, want[i][0], want[i][1])
		}
	}
	if v, _ := g.Vertex(1); v.X != 80 {
		t.Errorf("vertex 1 X = %v, want 80", v.X)
	}

	if err := g.RemoveVertex(9); !errors.Is(err, ErrVertexNotFound) {
		t.Errorf("RemoveVertex(9) = %v, want ErrVertexNotFound", err)
	}
}

func TestConnect_Errors(t *testing.T) {
	g := New()
	g.Append(NewVertex(0, 0, 1))
	g.Append(NewVertex(50, 0, 1))

	tests := []struct {
		name string
		a, b VertexID
		want error
	}{
		{"self loop", 1, 1, ErrSelfLoop},
		{"missing end", 0, 7, ErrVertexNotFound},
		{"negative", -1, 0, ErrVertexNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.Connect(tt.a, tt.b); !errors.Is(err, tt.want) {
				t.Errorf("Connect = %v, want %v", err, tt.want)
			}
		})
	}
	if g.NumEdges() != 0 {
		t.Errorf("failed connects added %d edges", g.NumEdges())
	}
}

func TestReset_KeepsParams(t *testing.T) {
	p := Params{SpringConstant: 0.3, Friction: 0.1, Gravity: 0.05}
	g := New(WithParams(p))
	g.AddVertex(100, 100)
	g.AddVertex(120, 100)
	g.Step()

	g.Reset()

	if g.NumVertices() != 0 || g.NumEdges() != 0 {
		t.Errorf("Reset left %d vertices, %d edges", g.NumVertices(), g.NumEdges())
	}
	if g.Params != p {
		t.Errorf("Reset changed params to %+v", g.Params)
	}
	if g.Steps() != 0 || g.KineticEnergy() != 0 || g.PotentialEnergy() != 0 {
		t.Errorf("Reset left diagnostics: steps=%d ke=%v pe=%v", g.Steps(), g.KineticEnergy(), g.PotentialEnergy())
	}
}

func TestStep_FreeFallClampsAtFloor(t *testing.T) {
	g := New(WithParams(Params{Gravity: 0.5}))
	id := g.Append(NewVertex(400, 500, DefaultMass))

	prevVY := 0.0
	landed := false
	for i := 0; i < 200; i++ {
		g.Step()
		v, _ := g.Vertex(id)
		if v.VY <= prevVY {
			t.Fatalf("step %d: VY %v did not increase from %v", i, v.VY, prevVY)
		}
		prevVY = v.VY
		if v.Y == g.Height {
			landed = true
		} else if landed {
			t.Fatalf("step %d: Y = %v left the floor", i, v.Y)
		}
	}
	if !landed {
		t.Fatal("vertex never reached the floor")
	}
}

func TestStepElapsed_MatchesFixedTick(t *testing.T) {
	a := New()
	b := New()
	for _, g := range []*Graph{a, b} {
		g.AddVertex(100, 100)
		g.AddVertex(170, 100)
		v, _ := g.Vertex(1)
		v.X = 190
	}

	a.Step()
	b.StepElapsed(TickMillis * time.Millisecond)

	va, _ := a.Vertex(1)
	vb, _ := b.Vertex(1)
	if va.X != vb.X || va.VX != vb.VX {
		t.Errorf("Step and StepElapsed(16ms) diverged: %+v vs %+v", va, vb)
	}
	if got := DtFor(16 * time.Millisecond); math.Abs(got-0.96) > 1e-12 {
		t.Errorf("DtFor(16ms) = %v, want 0.96", got)
	}
}

func TestRunSubsteps(t *testing.T) {
	g := New(WithSubsteps(16))
	g.AddVertex(100, 100)
	g.RunSubsteps()
	if g.Steps() != 16 {
		t.Errorf("Steps = %d, want 16", g.Steps())
	}
}

func TestNearest(t *testing.T) {
	g := New()
	g.Append(NewVertex(10, 10, 1))
	g.Append(NewVertex(100, 100, 1))

	if id, ok := g.Nearest(103, 98, DragRadius); !ok || id != 1 {
		t.Errorf("Nearest = %d, %v; want 1, true", id, ok)
	}
	if _, ok := g.Nearest(50, 50, DragRadius); ok {
		t.Error("Nearest found a vertex in empty space")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	g := New()
	g.AddVertex(100, 100)
	g.AddVertex(150, 100)

	c := g.Clone()
	c.AddVertex(120, 130)
	v, _ := c.Vertex(0)
	v.X = 0

	if g.NumVertices() != 2 || g.NumEdges() != 1 {
		t.Errorf("clone mutation leaked: %d vertices, %d edges", g.NumVertices(), g.NumEdges())
	}
	if orig, _ := g.Vertex(0); orig.X != 100 {
		t.Errorf("clone position write leaked: X = %v", orig.X)
	}
}

func TestIsValid(t *testing.T) {
	g := New()
	g.AddVertex(1, 1)
	if !g.IsValid() {
		t.Fatal("fresh graph reported invalid")
	}
	v, _ := g.Vertex(0)
	v.VX = math.Inf(1)
	if g.IsValid() {
		t.Error("graph with Inf velocity reported valid")
	}
}

func TestJitterSources(t *testing.T) {
	sources := map[string]Jitter{
		"rand":  NewRandJitter(7),
		"noise": NewNoiseJitter(7),
	}
	for name, j := range sources {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				dx, dy := j.Offset()
				if math.Abs(dx) > MaxPositionJitter || math.Abs(dy) > MaxPositionJitter {
					t.Fatalf("offset (%v, %v) exceeds %v", dx, dy, MaxPositionJitter)
				}
				r := j.RestLength(400)
				if r < 400-RestJitterSpread || r > 400+RestJitterSpread {
					t.Fatalf("rest jitter %v outside ±%v", r, RestJitterSpread)
				}
			}
		})
	}
}

func TestRandJitter_Deterministic(t *testing.T) {
	a, b := New(WithJitter(NewRandJitter(42))), New(WithJitter(NewRandJitter(42)))
	for i := 0; i < 5; i++ {
		a.AddVertex(float64(i)*30, 50)
		b.AddVertex(float64(i)*30, 50)
	}
	for i := range a.Vertices() {
		if a.Vertices()[i] != b.Vertices()[i] {
			t.Fatalf("vertex %d differs with equal seeds", i)
		}
	}
	if a.Vertices()[0].X == 0 && a.Vertices()[0].Y == 50 {
		t.Error("seeded jitter produced no offset")
	}
}

func TestRestLengthJitter(t *testing.T) {
	g := New(WithRestLengthJitter(NewRandJitter(3)))
	g.Append(NewVertex(0, 0, 1))
	g.Append(NewVertex(60, 0, 1))
	if err := g.Connect(0, 1); err != nil {
		t.Fatal(err)
	}
	rest := g.Edges()[0].RestLength
	lo, hi := math.Sqrt(3600-RestJitterSpread), math.Sqrt(3600+RestJitterSpread)
	if rest < lo || rest > hi {
		t.Errorf("rest = %v, want within [%v, %v]", rest, lo, hi)
	}
}

func gridGraph(cols, rows int, spacing float64) *Graph {
	g := New()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := g.Append(NewVertex(100+float64(c)*spacing, 50+float64(r)*spacing, DefaultMass))
			if r > 0 {
				_ = g.Connect(id, id-VertexID(cols))
			}
			if c > 0 {
				_ = g.Connect(id, id-1)
			}
		}
	}
	return g
}

func BenchmarkRunSubsteps_Grid20(b *testing.B) {
	g := gridGraph(20, 20, 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.RunSubsteps()
	}
}

func TestParamsSetGet(t *testing.T) {
	p := DefaultParams()

	for i, name := range ParamNames {
		want := float64(i + 1)
		if err := p.Set(name, want); err != nil {
			t.Fatalf("Set(%s) failed: %v", name, err)
		}
		got, err := p.Get(name)
		if err != nil || got != want {
			t.Errorf("Get(%s) = %v, %v; want %v", name, got, err, want)
		}
	}
	if p != (Params{SpringConstant: 1, Friction: 2, Gravity: 3}) {
		t.Errorf("params = %+v", p)
	}

	if err := p.Set("mass", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("Set(mass) = %v, want ErrUnknownParam", err)
	}
}
