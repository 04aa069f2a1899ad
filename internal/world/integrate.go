package world

// predict returns the constant-acceleration position of b after dt. A zero
// step leaves b where it is, even under an infinite acceleration.
func predict(b Body, dt float64) (x, y float64) {
	if dt == 0 {
		return b.X, b.Y
	}
	dt2 := dt * dt
	x = b.X + b.VX*dt + 0.5*b.AX*dt2
	y = b.Y + b.VY*dt + 0.5*b.AY*dt2
	return x, y
}

// commit stores the corrected position and advances the velocity with the
// acceleration computed at the start of the step. An axis that was corrected
// by a collision has its velocity zeroed instead.
func commit(b *Body, x, y, dt float64, r resolution) {
	b.X = x
	b.Y = y

	if r.hitX {
		b.VX = 0
	} else if dt > 0 {
		b.VX += b.AX * dt
	}

	if r.hitY {
		b.VY = 0
	} else if dt > 0 {
		b.VY += b.AY * dt
	}
}
