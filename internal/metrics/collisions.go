package metrics

import (
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/world"
)

// Collisions counts collision corrections across all steps.
type Collisions struct {
	name  string
	total int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(bodies []world.Body, stats world.StepStats, t float64) {
	c.total += stats.Collisions
}

func (c *Collisions) Value() float64 { return float64(c.total) }

func (c *Collisions) Reset() { c.total = 0 }

// Defaults returns a fresh set of every metric, suitable for one run.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewPopulation(),
		NewSettled(),
		NewCollisions(),
	}
}
