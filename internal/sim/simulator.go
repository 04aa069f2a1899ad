package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/boxsim/internal/world"
)

// Simulator drives a World on a fixed clock and records what happens.
type Simulator struct {
	world     *world.World
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(w *world.World) *Simulator {
	return &Simulator{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
}

func (s *Simulator) AddMetric(m Metric)      { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)  { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *log.Logger) { s.logger = l }
func (s *Simulator) World() *world.World     { return s.world }

// Run steps the world Duration/Dt times. Step k is driven with the host time
// StartTime + k*Dt so the clock does not accumulate rounding error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	result := &Result{
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Debug("run start", "bodies", s.world.Len(), "steps", steps, "dt", cfg.Dt)

	// Sync the clock to StartTime. Bodies placed outside the bounds go here.
	initial := s.world.Update(cfg.StartTime)
	result.Removed = append(result.Removed, initial.Removed...)
	result.Frames = append(result.Frames, Frame{Time: cfg.StartTime, Bodies: s.world.Bodies()})

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := cfg.StartTime + float64(i+1)*cfg.Dt
		stats := s.world.Update(t)
		frame := Frame{Time: t, Bodies: s.world.Bodies()}

		for _, m := range s.metrics {
			m.Observe(frame.Bodies, stats, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(frame, stats)
		}

		for _, b := range stats.Removed {
			s.logger.Debug("body culled", "id", b.ID, "name", b.Name, "t", t)
		}
		result.Removed = append(result.Removed, stats.Removed...)
		result.Collisions += stats.Collisions

		if cfg.ValidateState && !validStep(frame.Bodies, stats) {
			err := SimError{Time: t, Step: i, Message: "invalid body state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			s.logger.Warn("stopping run", "err", err)
			break
		}

		result.StepsTaken++
		result.Frames = append(result.Frames, frame)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run complete",
		"steps", result.StepsTaken,
		"bodies", s.world.Len(),
		"removed", len(result.Removed),
		"collisions", result.Collisions)

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if math.IsNaN(cfg.StartTime) || math.IsInf(cfg.StartTime, 0) {
		return fmt.Errorf("start time must be finite, got %f", cfg.StartTime)
	}
	return nil
}

// RunWithCallback streams frames to callback until the duration elapses, the
// context is cancelled or callback returns false. Frames are not retained.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame, world.StepStats) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	steps := stepCount(cfg)
	s.world.Update(cfg.StartTime)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := cfg.StartTime + float64(i+1)*cfg.Dt
		stats := s.world.Update(t)
		frame := Frame{Time: t, Bodies: s.world.Bodies()}

		if cfg.ValidateState && !validStep(frame.Bodies, stats) {
			return SimError{Time: t, Step: i, Message: "invalid body state (NaN/Inf)"}
		}
		if !callback(frame, stats) {
			return nil
		}
	}

	return nil
}

// stepCount tolerates Duration/Dt landing just below an integer.
func stepCount(cfg Config) int {
	return int(cfg.Duration/cfg.Dt + 1e-9)
}

// validStep checks the survivors and the bodies culled during the step. A
// body whose state overflows fails the bounds test and is culled in the same
// Update, so it only ever shows up in stats.Removed.
func validStep(bodies []world.Body, stats world.StepStats) bool {
	return validBodies(bodies) && validBodies(stats.Removed)
}

func validBodies(bodies []world.Body) bool {
	for _, b := range bodies {
		for _, v := range [...]float64{b.X, b.Y, b.VX, b.VY, b.AX, b.AY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
