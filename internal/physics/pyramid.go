package physics

import (
	"math"

	"github.com/san-kum/springnet/internal/dynamo"
)

// BuildPyramid lays out an equilateral triangular lattice with the apex at
// the top: row i holds i+1 vertices spaced by spacing, each row shifted left
// by half a spacing. Every vertex connects to its left neighbour and to the
// vertices above and above-left of it, triangulating every cell. A
// non-positive level count leaves the graph empty.
func BuildPyramid(g *dynamo.Graph, levels int, spacing float64) {
	g.Reset()
	if levels <= 0 {
		return
	}
	rowHeight := spacing * math.Sqrt(3) / 2
	cx := g.Width / 2

	rowStart := make([]dynamo.VertexID, levels)
	for i := 0; i < levels; i++ {
		for j := 0; j <= i; j++ {
			id := g.Place(cx-float64(i)*spacing/2+float64(j)*spacing, float64(i)*rowHeight)
			if j == 0 {
				rowStart[i] = id
			}
		}
	}

	for i := 0; i < levels; i++ {
		for j := 0; j <= i; j++ {
			id := rowStart[i] + dynamo.VertexID(j)
			if j > 0 {
				_ = g.Connect(id, id-1)
			}
			if i == 0 {
				continue
			}
			above := rowStart[i-1] + dynamo.VertexID(j)
			if j < i {
				_ = g.Connect(id, above)
			}
			if j > 0 {
				_ = g.Connect(id, above-1)
			}
		}
	}
}

func NewPyramid(levels int, spacing float64, opts ...dynamo.Option) *dynamo.Graph {
	g := dynamo.New(opts...)
	BuildPyramid(g, levels, spacing)
	return g
}
