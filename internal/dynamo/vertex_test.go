package dynamo

import (
	"math"
	"testing"
)

func TestNewVertex_ClampsMass(t *testing.T) {
	tests := []struct {
		name string
		mass float64
		want float64
	}{
		{"default", DefaultMass, DefaultMass},
		{"zero", 0, MinMass},
		{"negative", -3, MinMass},
		{"NaN", math.NaN(), MinMass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVertex(1, 2, tt.mass)
			if v.Mass != tt.want {
				t.Errorf("Mass = %v, want %v", v.Mass, tt.want)
			}
		})
	}
}

func TestVertexIntegrate(t *testing.T) {
	v := NewVertex(10, 10, 1)
	v.VX = 2

	speed := v.Integrate(0.5, 1, 1)

	if v.VX != 1 {
		t.Errorf("VX = %v, want 1 after damping", v.VX)
	}
	if v.VY != 1 {
		t.Errorf("VY = %v, want 1 after gravity", v.VY)
	}
	if v.X != 11 || v.Y != 11 {
		t.Errorf("position = (%v, %v), want (11, 11)", v.X, v.Y)
	}
	if math.Abs(speed-math.Sqrt2) > 1e-12 {
		t.Errorf("speed = %v, want sqrt(2)", speed)
	}
}

func TestVertexIntegrate_Pinned(t *testing.T) {
	v := NewVertex(10, 10, 1)
	v.Pinned = true
	v.VX = 3

	speed := v.Integrate(0, 1, 1)

	if speed != 0 {
		t.Errorf("pinned speed = %v, want 0", speed)
	}
	if v.X != 10 || v.Y != 10 {
		t.Errorf("pinned vertex moved to (%v, %v)", v.X, v.Y)
	}
	if v.KineticEnergy() != 0 {
		t.Errorf("pinned kinetic energy = %v, want 0", v.KineticEnergy())
	}
}

func TestVertexClamp(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		pinned       bool
		wantX, wantY float64
	}{
		{"inside", 50, 50, false, 50, 50},
		{"below floor", 50, 700, false, 50, 600},
		{"left of wall", -5, 50, false, 0, 50},
		{"right of wall", 900, 50, false, 800, 50},
		{"above is free", 50, -100, false, 50, -100},
		{"pinned outside", 900, 700, true, 900, 700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVertex(tt.x, tt.y, 1)
			v.Pinned = tt.pinned
			v.VY = 4
			v.Clamp(600, 800)
			if v.X != tt.wantX || v.Y != tt.wantY {
				t.Errorf("Clamp = (%v, %v), want (%v, %v)", v.X, v.Y, tt.wantX, tt.wantY)
			}
			if v.VY != 4 {
				t.Errorf("Clamp changed velocity to %v", v.VY)
			}
		})
	}
}
