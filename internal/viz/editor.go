package viz

import "github.com/san-kum/springnet/internal/dynamo"

// Editor applies pointer gestures to a graph. Press grabs every vertex within
// DragRadius of the pointer and pins it; Move shifts grabbed vertices by the
// pointer delta; Release lets them go, or adds a vertex at the pointer when
// nothing was grabbed.
type Editor struct {
	graph   *dynamo.Graph
	radius  float64
	grabbed []grab
	pressed bool
	lastX   float64
	lastY   float64
}

type grab struct {
	id        dynamo.VertexID
	wasPinned bool
}

func NewEditor(g *dynamo.Graph) *Editor {
	return &Editor{graph: g, radius: dynamo.DragRadius}
}

// SetGraph points the editor at a different graph and drops any grab.
func (e *Editor) SetGraph(g *dynamo.Graph) {
	e.graph = g
	e.grabbed = nil
	e.pressed = false
}

func (e *Editor) Graph() *dynamo.Graph { return e.graph }
func (e *Editor) Dragging() bool       { return len(e.grabbed) > 0 }
func (e *Editor) Pressed() bool        { return e.pressed }

// NearVertex reports whether a press at (x, y) would grab something.
func (e *Editor) NearVertex(x, y float64) bool {
	_, ok := e.graph.Nearest(x, y, e.radius)
	return ok
}

// Press starts a gesture. A press while one is already open is ignored.
func (e *Editor) Press(x, y float64) {
	if e.pressed {
		return
	}
	e.pressed = true
	e.lastX, e.lastY = x, y
	r2 := e.radius * e.radius
	for i, v := range e.graph.Vertices() {
		dx, dy := v.X-x, v.Y-y
		if dx*dx+dy*dy < r2 {
			id := dynamo.VertexID(i)
			e.grabbed = append(e.grabbed, grab{id: id, wasPinned: v.Pinned})
			if p, err := e.graph.Vertex(id); err == nil {
				p.Pinned = true
			}
		}
	}
}

func (e *Editor) Move(x, y float64) {
	if !e.pressed {
		return
	}
	dx, dy := x-e.lastX, y-e.lastY
	for _, gr := range e.grabbed {
		if v, err := e.graph.Vertex(gr.id); err == nil {
			v.X += dx
			v.Y += dy
		}
	}
	e.lastX, e.lastY = x, y
}

// Release ends a gesture. It returns the new vertex and true when the gesture
// grabbed nothing and a vertex was added.
func (e *Editor) Release(x, y float64) (dynamo.VertexID, bool) {
	if !e.pressed {
		return 0, false
	}
	e.pressed = false
	if len(e.grabbed) == 0 {
		return e.graph.AddVertex(x, y), true
	}
	for _, gr := range e.grabbed {
		if v, err := e.graph.Vertex(gr.id); err == nil {
			v.Pinned = gr.wasPinned
		}
	}
	e.grabbed = nil
	return 0, false
}

// TogglePin flips the pin of the vertex nearest (x, y).
func (e *Editor) TogglePin(x, y float64) bool {
	id, ok := e.graph.Nearest(x, y, e.radius)
	if !ok {
		return false
	}
	v, err := e.graph.Vertex(id)
	if err != nil {
		return false
	}
	v.Pinned = !v.Pinned
	return true
}

// Undo removes the most recently added vertex, ending any drag first.
func (e *Editor) Undo() {
	if e.Dragging() {
		e.Release(e.lastX, e.lastY)
	}
	e.pressed = false
	e.graph.RemoveLastVertex()
}
