package experiment

import (
	"fmt"

	"github.com/san-kum/springnet/internal/config"
)

// Entry is one named graph of the standard dataset.
type Entry struct {
	Name     string
	Topology string
	Shape    config.Shape
}

// Dataset lists the standard graphs written by the generate command: wheels,
// complete graphs, pyramids and two cloths.
func Dataset() []Entry {
	var out []Entry
	for _, n := range []int{3, 4, 5, 6, 8, 10, 20} {
		out = append(out, Entry{
			Name:     fmt.Sprintf("w%d", n),
			Topology: "wheel",
			Shape:    config.Shape{N: n, Radius: 100},
		})
	}
	for _, n := range []int{3, 4, 7, 10} {
		out = append(out, Entry{
			Name:     fmt.Sprintf("k%d", n),
			Topology: "complete",
			Shape:    config.Shape{N: n, Radius: 100},
		})
	}
	out = append(out,
		Entry{Name: "tri2", Topology: "pyramid", Shape: config.Shape{Levels: 2, Spacing: 50}},
		Entry{Name: "tri4", Topology: "pyramid", Shape: config.Shape{Levels: 4, Spacing: 50}},
		Entry{Name: "tri6", Topology: "pyramid", Shape: config.Shape{Levels: 6, Spacing: 99}},
		Entry{Name: "cloth1", Topology: "cloth", Shape: config.Shape{Cols: 50, Rows: 50, Spacing: 10}},
		Entry{Name: "cloth2", Topology: "cloth", Shape: config.Shape{Cols: 50, Rows: 25, Spacing: 10}},
	)
	return out
}
