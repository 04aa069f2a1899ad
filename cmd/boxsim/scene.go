package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/sim"
)

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for scattered squares")
	cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "visible width")
	cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "visible height")
}

// loadScene resolves the scene from --config or a preset name, then applies
// only the flags the user actually set.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config

	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown scene: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logReport(cfg *config.Config, report config.BuildReport) {
	if logger == nil {
		return
	}
	for _, name := range report.Rejected {
		logger.Warn("body overlaps, skipped", "scene", cfg.Name, "body", name)
	}
	logger.Debug("scene built", "scene", cfg.Name, "placed", report.Placed, "rejected", len(report.Rejected))
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "boxsim",
	})
	l.SetLevel(lvl)
	return l, nil
}

// output returns stdout or the --out file.
func output() (io.Writer, func(), error) {
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

type series struct {
	caption string
	values  []float64
}

// frameSeries derives the plotted curves from stored frames.
func frameSeries(frames []sim.Frame) []series {
	population := make([]float64, len(frames))
	meanY := make([]float64, len(frames))
	maxSpeed := make([]float64, len(frames))

	for i, f := range frames {
		population[i] = float64(len(f.Bodies))
		var sumY float64
		movable := 0
		for _, b := range f.Bodies {
			if b.Fixed {
				continue
			}
			movable++
			sumY += b.Y
			maxSpeed[i] = max(maxSpeed[i], b.Speed())
		}
		if movable > 0 {
			meanY[i] = sumY / float64(movable)
		}
	}

	return []series{
		{"live bodies", population},
		{"mean y of movable bodies", meanY},
		{"max speed", maxSpeed},
	}
}

// normalize rescales values to [0, 1]. A flat series maps to zeros.
func normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
