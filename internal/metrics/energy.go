package metrics

import "github.com/san-kum/boxsim/internal/world"

// KineticEnergy is the mean, over samples, of the total kinetic energy of
// the movable bodies.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(bodies []world.Body, stats world.StepStats, t float64) {
	k.total += Kinetic(bodies)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// Kinetic sums ½mv² over movable bodies. Fixed bodies carry arbitrary mass
// and never move, so they are skipped.
func Kinetic(bodies []world.Body) float64 {
	var e float64
	for _, b := range bodies {
		if b.Fixed {
			continue
		}
		e += 0.5 * b.Mass * (b.VX*b.VX + b.VY*b.VY)
	}
	return e
}
