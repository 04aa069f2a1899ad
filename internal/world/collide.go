package world

import "math"

// MaxResolvePasses caps how many times a body re-scans its neighbours in one
// step. Dense clusters may keep a small residual overlap once it is reached.
const MaxResolvePasses = 5

// Axis names the axis a collision was resolved on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

type resolution struct {
	hitX        bool
	hitY        bool
	corrections int
	passes      int
}

// Penetration returns the overlap of the box (x, y, size) with b on each
// axis, clamped at zero.
func Penetration(x, y, size float64, b Body) (xo, yo float64) {
	xo = math.Max(0, math.Min(x+size, b.Right())-math.Max(x, b.X))
	yo = math.Max(0, math.Min(y+size, b.Bottom())-math.Max(y, b.Y))
	return xo, yo
}

// MinAxis picks the axis of least penetration. Exact ties go to y.
func MinAxis(xo, yo float64) Axis {
	if xo < yo {
		return AxisX
	}
	return AxisY
}

// resolve pushes the predicted box of bodies[i] out of every other body.
// Other bodies are read at their current positions, which for earlier
// movable bodies are already this step's committed positions.
func resolve(bodies []Body, i int, fx, fy float64) (float64, float64, resolution) {
	a := bodies[i]
	var r resolution

	for r.passes < MaxResolvePasses {
		r.passes++
		found := false

		for j := range bodies {
			if j == i {
				continue
			}
			b := bodies[j]

			xo, yo := Penetration(fx, fy, a.Size, b)
			if !(xo > 0 && yo > 0) {
				continue
			}
			found = true
			r.corrections++

			switch MinAxis(xo, yo) {
			case AxisX:
				if fx < b.X {
					fx = b.X - a.Size
				} else {
					fx = b.Right()
				}
				r.hitX = true
			case AxisY:
				if fy < b.Y {
					fy = b.Y - a.Size
				} else {
					fy = b.Bottom()
				}
				r.hitY = true
			}
		}

		if !found {
			break
		}
	}

	return fx, fy, r
}
