package world

import (
	"math"
	"testing"
)

func TestPenetration(t *testing.T) {
	wall := Body{X: 10, Y: 10, Size: 10}

	tests := []struct {
		name   string
		x, y   float64
		xo, yo float64
	}{
		{"disjoint", 30, 30, 0, 0},
		{"edge contact", 0, 10, 0, 10},
		{"corner", 15, 15, 5, 5},
		{"left side", 2, 10, 2, 10},
		{"coincident", 10, 10, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xo, yo := Penetration(tt.x, tt.y, 10, wall)
			if xo != tt.xo || yo != tt.yo {
				t.Errorf("Penetration() = (%v, %v), want (%v, %v)", xo, yo, tt.xo, tt.yo)
			}
		})
	}
}

func TestMinAxis(t *testing.T) {
	tests := []struct {
		xo, yo float64
		want   Axis
	}{
		{1, 2, AxisX},
		{2, 1, AxisY},
		{3, 3, AxisY},
	}

	for _, tt := range tests {
		if got := MinAxis(tt.xo, tt.yo); got != tt.want {
			t.Errorf("MinAxis(%v, %v) = %v, want %v", tt.xo, tt.yo, got, tt.want)
		}
	}
}

func TestResolve_Directions(t *testing.T) {
	block := Body{ID: 1, Fixed: true, X: 50, Y: 50, Size: 20}

	tests := []struct {
		name         string
		fx, fy       float64
		wantX, wantY float64
		hitX, hitY   bool
	}{
		{"from the left", 42, 55, 40, 55, true, false},
		{"from the right", 68, 55, 70, 55, true, false},
		{"from above", 55, 43, 55, 40, false, true},
		{"from below", 55, 67, 55, 70, false, true},
		{"exact tie resolves on y", 45, 45, 45, 40, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodies := []Body{block, {ID: 2, X: tt.fx, Y: tt.fy, Size: 10, Mass: 1}}
			x, y, r := resolve(bodies, 1, tt.fx, tt.fy)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("resolved to (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
			if r.hitX != tt.hitX || r.hitY != tt.hitY {
				t.Errorf("hit = (%v, %v), want (%v, %v)", r.hitX, r.hitY, tt.hitX, tt.hitY)
			}
			if r.corrections != 1 || r.passes != 2 {
				t.Errorf("corrections=%d passes=%d, want 1 and 2", r.corrections, r.passes)
			}
		})
	}
}

func TestResolve_NoCollisionSinglePass(t *testing.T) {
	bodies := []Body{{ID: 1, X: 0, Y: 0, Size: 10}, {ID: 2, X: 50, Y: 50, Size: 10}}
	_, _, r := resolve(bodies, 1, 50, 50)
	if r.passes != 1 || r.corrections != 0 {
		t.Errorf("passes=%d corrections=%d, want 1 and 0", r.passes, r.corrections)
	}
}

func TestResolve_PassCap(t *testing.T) {
	// a slot narrower than the body: every pass pushes it into the other wall
	bodies := []Body{
		{ID: 1, Fixed: true, X: 0, Y: 0, Size: 10},
		{ID: 2, Fixed: true, X: 18, Y: 0, Size: 10},
		{ID: 3, X: 9, Y: 0, Size: 10, Mass: 1},
	}
	_, _, r := resolve(bodies, 2, 9, 0)
	if r.passes != MaxResolvePasses {
		t.Errorf("passes = %d, want the cap %d", r.passes, MaxResolvePasses)
	}
}

func TestCommit(t *testing.T) {
	b := Body{X: 1, Y: 1, VX: 2, VY: 3, AX: 1, AY: 1}
	commit(&b, 5, 6, 0.5, resolution{hitY: true})
	if b.X != 5 || b.Y != 6 {
		t.Errorf("position = (%v, %v)", b.X, b.Y)
	}
	if b.VX != 2.5 || b.VY != 0 {
		t.Errorf("velocity = (%v, %v), want (2.5, 0)", b.VX, b.VY)
	}

	still := Body{X: 1, Y: 1, VX: 2, AX: math.Inf(1)}
	commit(&still, 1, 1, 0, resolution{})
	if still.VX != 2 || still.VY != 0 {
		t.Errorf("zero step changed velocity to (%v, %v)", still.VX, still.VY)
	}
}

func TestPredict(t *testing.T) {
	b := Body{X: 1, Y: 2, VX: 2, VY: -1, AX: 4, AY: 2}
	x, y := predict(b, 0.5)
	// 1 + 1 + 0.5, 2 - 0.5 + 0.25
	if x != 2.5 || y != 1.75 {
		t.Errorf("predict() = (%v, %v), want (2.5, 1.75)", x, y)
	}
	if x, y := predict(b, 0); x != 1 || y != 2 {
		t.Errorf("predict(dt=0) = (%v, %v)", x, y)
	}
	b.AX = math.Inf(1)
	if x, _ := predict(b, 0); x != 1 {
		t.Errorf("predict(dt=0) under infinite acceleration = %v, want 1", x)
	}
}
