package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/world"
)

// Population tracks the smallest number of live bodies seen.
type Population struct {
	name string
	min  int
	seen bool
}

func NewPopulation() *Population {
	return &Population{name: "population_min"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(bodies []world.Body, stats world.StepStats, t float64) {
	if !p.seen || len(bodies) < p.min {
		p.min = len(bodies)
	}
	p.seen = true
}

func (p *Population) Value() float64 {
	if !p.seen {
		return 0
	}
	return float64(p.min)
}

func (p *Population) Reset() {
	p.min = 0
	p.seen = false
}

// RestSpeed is the speed under which a body counts as settled.
const RestSpeed = 1e-6

// Settled reports the fraction of movable bodies at rest on the latest
// sample. A scene with no movable bodies is fully settled.
type Settled struct {
	name  string
	value float64
}

func NewSettled() *Settled {
	return &Settled{name: "settled"}
}

func (s *Settled) Name() string { return s.name }

func (s *Settled) Observe(bodies []world.Body, stats world.StepStats, t float64) {
	movable, resting := 0, 0
	for _, b := range bodies {
		if b.Fixed {
			continue
		}
		movable++
		if math.Abs(b.VX) < RestSpeed && math.Abs(b.VY) < RestSpeed {
			resting++
		}
	}
	if movable == 0 {
		s.value = 1
		return
	}
	s.value = float64(resting) / float64(movable)
}

func (s *Settled) Value() float64 { return s.value }

func (s *Settled) Reset() { s.value = 0 }
