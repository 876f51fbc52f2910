package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.SubWidth() != 8 || c.SubHeight() != 8 {
		t.Fatalf("sub size = %dx%d, want 8x8", c.SubWidth(), c.SubHeight())
	}

	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Fatal("dot (3,5) not set")
	}
	if c.IsSet(2, 5) {
		t.Error("neighbouring dot set")
	}
	c.Unset(3, 5)
	if c.IsSet(3, 5) {
		t.Error("dot still set after Unset")
	}
	if c.Grid[1][1] != 0x2800 {
		t.Errorf("cell = %U, want blank braille", c.Grid[1][1])
	}

	// out of range writes are ignored
	c.Set(-1, 0)
	c.Set(100, 100)
	if c.IsSet(100, 100) {
		t.Error("out of range dot reported set")
	}
}

func TestCanvasTensionLine(t *testing.T) {
	c := NewCanvas(10, 2)
	c.DrawTensionLine(0, 0, 19, 0, 0.3)
	c.DrawTensionLine(0, 0, 3, 0, 0.8)
	c.DrawTensionLine(0, 0, 3, 0, 0.1)

	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 0) {
			t.Fatalf("dot (%d,0) not set", x)
		}
	}
	if got := c.Tension[0][0]; got != 0.8 {
		t.Errorf("tension[0][0] = %v, want the maximum 0.8", got)
	}
	if got := c.Tension[0][9]; got != 0.3 {
		t.Errorf("tension[0][9] = %v, want 0.3", got)
	}

	c.Clear()
	if c.IsSet(0, 0) || c.Tension[0][0] != 0 {
		t.Error("Clear left state behind")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	c.FillCircle(2, 2, 1)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !c.IsSet(2, 1) || !c.IsSet(1, 2) || !c.IsSet(3, 2) || !c.IsSet(2, 3) {
		t.Error("circle missing cardinal dots")
	}
	if styled := c.Styled(ThemeClassic); strings.Count(styled, "\n") != 2 {
		t.Errorf("styled output has %d lines, want 2", strings.Count(styled, "\n"))
	}
}

func TestTensionBucket(t *testing.T) {
	tests := []struct {
		t    float64
		want int
	}{
		{-1, 0},
		{0, 0},
		{0.55, 5},
		{1, tensionLevels - 1},
		{3, tensionLevels - 1},
	}
	for _, tt := range tests {
		if got := tensionBucket(tt.t); got != tt.want {
			t.Errorf("tensionBucket(%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestTensionColor(t *testing.T) {
	tests := []struct {
		t    float64
		want string
	}{
		{0, "#00ff00"},
		{1, "#ff0000"},
		{0.5, "#7f8000"},
		{2, "#ff0000"},
	}
	for _, tt := range tests {
		if got := string(ThemeClassic.TensionColor(tt.t)); got != tt.want {
			t.Errorf("TensionColor(%v) = %s, want %s", tt.t, got, tt.want)
		}
	}
}

func TestThemes(t *testing.T) {
	saved := CurrentTheme
	defer func() { CurrentTheme = saved }()

	SetTheme("ocean")
	if CurrentTheme.Name != "ocean" {
		t.Fatalf("current = %s, want ocean", CurrentTheme.Name)
	}
	NextTheme()
	if CurrentTheme.Name != "mono" {
		t.Errorf("after ocean = %s, want mono", CurrentTheme.Name)
	}
	NextTheme()
	if CurrentTheme.Name != "classic" {
		t.Errorf("themes do not wrap, got %s", CurrentTheme.Name)
	}
	if GetTheme("missing").Name != "classic" {
		t.Error("unknown theme should fall back to classic")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}
