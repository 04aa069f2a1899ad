package world

// Force is a named global vector. It has no position and no falloff: every
// movable body receives the same force each step.
type Force struct {
	Name string
	X, Y float64
}

// Sum adds up every force component. The slice is only read.
func Sum(forces []Force) (x, y float64) {
	for _, f := range forces {
		x += f.X
		y += f.Y
	}
	return x, y
}

// accumulate sets the acceleration of every movable body from the net force.
// Fixed bodies are skipped and keep their zero acceleration.
func accumulate(bodies []Body, forces []Force) {
	fx, fy := Sum(forces)
	for i := range bodies {
		b := &bodies[i]
		if b.Fixed {
			continue
		}
		b.AX = fx / b.Mass
		b.AY = fy / b.Mass
	}
}
