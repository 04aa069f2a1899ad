package sim

import (
	"fmt"

	"github.com/san-kum/boxsim/internal/world"
)

// Frame is a snapshot of every live body at a host time.
type Frame struct {
	Time   float64
	Bodies []world.Body
}

type Metric interface {
	Name() string
	Observe(bodies []world.Body, stats world.StepStats, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame, stats world.StepStats)
}

type Config struct {
	Dt            float64
	Duration      float64
	StartTime     float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10,
		ValidateState: true,
	}
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	Removed    []world.Body
	Collisions int
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
