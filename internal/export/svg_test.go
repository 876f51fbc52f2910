package export

import (
	"strings"
	"testing"

	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/viz"
)

func TestTensionRGB(t *testing.T) {
	tests := []struct {
		t    float64
		want string
	}{
		{0, "rgb(0,255,0)"},
		{1, "rgb(255,0,0)"},
		{0.5, "rgb(127,128,0)"},
		{4, "rgb(255,0,0)"},
		{-1, "rgb(0,255,0)"},
	}
	for _, tt := range tests {
		if got := TensionRGB(tt.t); got != tt.want {
			t.Errorf("TensionRGB(%v) = %s, want %s", tt.t, got, tt.want)
		}
	}
}

func TestGraphToSVG(t *testing.T) {
	g := dynamo.New()
	a := g.Place(100, 100)
	b := g.Place(200, 100)
	_ = g.ConnectRest(a, b, 50)
	v, _ := g.Vertex(a)
	v.Pinned = true

	svg := GraphToSVG(g)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete SVG document")
	}
	if n := strings.Count(svg, "<line"); n != 1 {
		t.Errorf("lines = %d, want 1", n)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	// stretched by 50, beyond the saturation stretch
	if !strings.Contains(svg, `stroke="rgb(255,0,0)"`) {
		t.Error("stretched spring not drawn red")
	}
	if !strings.Contains(svg, `r="5.0" fill="#ff8800"`) {
		t.Error("pinned vertex not highlighted")
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
	c := viz.NewCanvas(2, 1)
	c.SetTension(0, 0, 1)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 2)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Error("wrong document size")
	}
	if !strings.Contains(svg, "rgb(255,0,0)") || !strings.Contains(svg, "rgb(0,255,0)") {
		t.Error("dots not coloured by tension")
	}
}

func TestEnergyToSVG(t *testing.T) {
	if EnergyToSVG([]float64{1}, nil, 100, 50) != "" {
		t.Error("single sample should give empty output")
	}
	svg := EnergyToSVG([]float64{4, 2, 1}, []float64{0, 1, 0}, 100, 50)
	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("paths = %d, want 2", n)
	}
	if !strings.Contains(svg, "M0.0,") {
		t.Error("path does not start at the left edge")
	}
}
