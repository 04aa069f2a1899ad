package world

import "math"

// BodyID is a stable handle for a body. IDs are never reused within a World.
type BodyID uint64

// Body is an axis-aligned square occupying [X, X+Size] × [Y, Y+Size].
type Body struct {
	ID    BodyID
	Name  string
	Fixed bool
	X, Y  float64
	Size  float64
	Mass  float64
	VX    float64
	VY    float64
	AX    float64
	AY    float64
}

func (b Body) Right() float64  { return b.X + b.Size }
func (b Body) Bottom() float64 { return b.Y + b.Size }

// Overlaps reports whether the open interiors of the two squares intersect.
// Squares that only share an edge do not overlap.
func (b Body) Overlaps(o Body) bool {
	return overlaps(b.X, b.Y, b.Size, o)
}

// Visible reports whether the square still touches [0, xMax] × [0, yMax].
// The max edges are inclusive. Non-finite coordinates are never visible.
func (b Body) Visible(xMax, yMax float64) bool {
	return b.X+b.Size >= 0 &&
		b.Y+b.Size >= 0 &&
		b.X <= xMax &&
		b.Y <= yMax
}

// Speed returns the magnitude of the velocity.
func (b Body) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

func overlaps(x, y, size float64, o Body) bool {
	overlapX := x < o.X+o.Size && x+size > o.X
	overlapY := y < o.Y+o.Size && y+size > o.Y
	return overlapX && overlapY
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
