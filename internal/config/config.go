package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/san-kum/boxsim/internal/world"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 100.0
	DefaultHeight   = 100.0
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultGravity  = 98.0
	DefaultMass     = 1.0

	// scatterAttempts bounds how many random spots are tried per requested square.
	scatterAttempts = 20
)

var ErrInvalidConfig = errors.New("config: invalid scene")

type Config struct {
	Name     string         `yaml:"name"`
	Width    float64        `yaml:"width"`
	Height   float64        `yaml:"height"`
	Dt       float64        `yaml:"dt"`
	Duration float64        `yaml:"duration"`
	Seed     int64          `yaml:"seed"`
	Bodies   []BodyConfig   `yaml:"bodies"`
	Forces   []ForceConfig  `yaml:"forces"`
	Scatter  *ScatterConfig `yaml:"scatter,omitempty"`
}

type BodyConfig struct {
	Name  string  `yaml:"name"`
	Fixed bool    `yaml:"fixed"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Size  float64 `yaml:"size"`
	Mass  float64 `yaml:"mass"`
}

type ForceConfig struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// ScatterConfig drops Count movable squares at random free spots inside the
// horizontal band [Top, Bottom). Placement is driven by the scene seed.
type ScatterConfig struct {
	Count  int     `yaml:"count"`
	Size   float64 `yaml:"size"`
	Mass   float64 `yaml:"mass"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// BuildReport lists what Build could not place.
type BuildReport struct {
	Placed   int
	Rejected []string
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "drop",
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Bodies: []BodyConfig{
			{Name: "floor", Fixed: true, X: 0, Y: 90, Size: 100, Mass: DefaultMass},
			{Name: "ball", X: 40, Y: 0, Size: 10, Mass: DefaultMass},
		},
		Forces: []ForceConfig{
			{Name: "gravity", Y: DefaultGravity},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	cfg.Forces = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Width > 0) || !(c.Height > 0) {
		return fmt.Errorf("%w: bounds must be positive, got %vx%v", ErrInvalidConfig, c.Width, c.Height)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}
	if s := c.Scatter; s != nil {
		if s.Count < 0 || s.Size <= 0 || s.Bottom-s.Top < s.Size {
			return fmt.Errorf("%w: scatter band too small for size %v", ErrInvalidConfig, s.Size)
		}
	}
	return nil
}

// Clone returns a deep copy so presets can be tweaked by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	out.Forces = append([]ForceConfig(nil), c.Forces...)
	if c.Scatter != nil {
		s := *c.Scatter
		out.Scatter = &s
	}
	return &out
}

// Build creates a world at time zero from the scene. Forces are added first,
// then bodies in file order, then scattered squares. Squares that overlap an
// earlier one are skipped and reported; invalid squares are an error.
func Build(cfg *Config) (*world.World, BuildReport, error) {
	var report BuildReport
	if err := cfg.Validate(); err != nil {
		return nil, report, err
	}

	w := world.New(0, cfg.Width, cfg.Height)
	for _, f := range cfg.Forces {
		w.AddForce(world.Force{Name: f.Name, X: f.X, Y: f.Y})
	}

	for i, b := range cfg.Bodies {
		ok, err := w.AddSquare(b.Name, b.Fixed, b.X, b.Y, b.Size, b.Mass)
		if err != nil {
			return nil, report, fmt.Errorf("body %d: %w", i, err)
		}
		if !ok {
			report.Rejected = append(report.Rejected, b.Name)
			continue
		}
		report.Placed++
	}

	if s := cfg.Scatter; s != nil && s.Count > 0 {
		placed, err := scatter(w, s, cfg.Seed, cfg.Width)
		if err != nil {
			return nil, report, err
		}
		report.Placed += placed
		for i := placed; i < s.Count; i++ {
			report.Rejected = append(report.Rejected, fmt.Sprintf("scatter-%d", i))
		}
	}

	return w, report, nil
}

func scatter(w *world.World, s *ScatterConfig, seed int64, width float64) (int, error) {
	rng := rand.New(rand.NewSource(seed))
	mass := s.Mass
	if mass == 0 {
		mass = DefaultMass
	}

	placed := 0
	for attempt := 0; attempt < s.Count*scatterAttempts && placed < s.Count; attempt++ {
		x := rng.Float64() * (width - s.Size)
		y := s.Top + rng.Float64()*(s.Bottom-s.Top-s.Size)
		ok, err := w.AddSquare(fmt.Sprintf("scatter-%d", placed), false, x, y, s.Size, mass)
		if err != nil {
			return placed, err
		}
		if ok {
			placed++
		}
	}
	return placed, nil
}
