package physics

import "github.com/san-kum/springnet/internal/dynamo"

// ClothParams keep a hanging cloth taut instead of sagging.
var ClothParams = dynamo.Params{
	SpringConstant: 0.5,
	Friction:       0.99,
	Gravity:        0.01,
}

// BuildCloth lays out a rows x cols grid hanging from the top edge. Each
// vertex is joined to the one above and the one to its left. The two top
// corners and the top-row vertices at cols/3 and 2*cols/3 are pinned.
// The graph's parameters are replaced by ClothParams.
func BuildCloth(g *dynamo.Graph, cols, rows int, spacing float64) {
	g.Reset()
	g.Params = ClothParams
	if cols <= 0 || rows <= 0 {
		return
	}

	startX := g.Width/2 - float64(cols)*spacing/2
	at := func(r, c int) dynamo.VertexID { return dynamo.VertexID(r*cols + c) }

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Place(startX+float64(c)*spacing, float64(r)*spacing)
		}
	}

	for _, c := range []int{0, cols - 1, cols / 3, 2 * cols / 3} {
		v, _ := g.Vertex(at(0, c))
		v.Pinned = true
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r > 0 {
				_ = g.Connect(at(r, c), at(r-1, c))
			}
			if c > 0 {
				_ = g.Connect(at(r, c), at(r, c-1))
			}
		}
	}
}

// NewCloth builds with ClothParams; opts are applied again afterwards so a
// WithParams option still wins.
func NewCloth(cols, rows int, spacing float64, opts ...dynamo.Option) *dynamo.Graph {
	g := dynamo.New(opts...)
	BuildCloth(g, cols, rows, spacing)
	for _, opt := range opts {
		opt(g)
	}
	return g
}
