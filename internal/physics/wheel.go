package physics

import (
	"math"

	"github.com/san-kum/springnet/internal/dynamo"
)

// BuildWheel places a hub at the centre of the bounds and n rim vertices at
// equal angles around it, joined by spokes and a closed ring.
func BuildWheel(g *dynamo.Graph, n int, radius float64) {
	g.Reset()
	cx, cy := g.Width/2, g.Height/2
	hub := g.Place(cx, cy)

	var first, prev dynamo.VertexID
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		rim := g.Place(cx+radius*math.Cos(theta), cy+radius*math.Sin(theta))
		_ = g.Connect(hub, rim)
		if i == 0 {
			first = rim
		} else {
			_ = g.Connect(prev, rim)
		}
		prev = rim
	}
	if n > 2 {
		_ = g.Connect(prev, first)
	}
}

func NewWheel(n int, radius float64, opts ...dynamo.Option) *dynamo.Graph {
	g := dynamo.New(opts...)
	BuildWheel(g, n, radius)
	return g
}
