package physics

import (
	"math"

	"github.com/san-kum/springnet/internal/dynamo"
)

// BuildComplete places n vertices on a circle and connects every unordered
// pair (i, j), i < j.
func BuildComplete(g *dynamo.Graph, n int, radius float64) {
	g.Reset()
	cx, cy := g.Width/2, g.Height/2
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		g.Place(cx+radius*math.Cos(theta), cy+radius*math.Sin(theta))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			_ = g.Connect(dynamo.VertexID(i), dynamo.VertexID(j))
		}
	}
}

func NewComplete(n int, radius float64, opts ...dynamo.Option) *dynamo.Graph {
	g := dynamo.New(opts...)
	BuildComplete(g, n, radius)
	return g
}
