package config

import "sort"

var Presets = map[string]*Config{
	"drop": DefaultConfig(),
	"stack": {
		Name: "stack", Width: 100, Height: 100, Dt: 0.01, Duration: 10,
		Bodies: []BodyConfig{
			{Name: "floor", Fixed: true, X: 0, Y: 90, Size: 100, Mass: 1},
			{Name: "box-1", X: 45, Y: 70, Size: 10, Mass: 1},
			{Name: "box-2", X: 45, Y: 50, Size: 10, Mass: 1},
			{Name: "box-3", X: 45, Y: 30, Size: 10, Mass: 1},
			{Name: "box-4", X: 45, Y: 10, Size: 10, Mass: 1},
		},
		Forces: []ForceConfig{{Name: "gravity", Y: 98}},
	},
	"slide": {
		Name: "slide", Width: 120, Height: 60, Dt: 0.01, Duration: 8,
		Bodies: []BodyConfig{
			{Name: "floor", Fixed: true, X: 0, Y: 50, Size: 120, Mass: 1},
			{Name: "wall", Fixed: true, X: 100, Y: 30, Size: 20, Mass: 1},
			{Name: "crate", X: 5, Y: 40, Size: 10, Mass: 2},
			{Name: "light", X: 5, Y: 20, Size: 6, Mass: 0.5},
		},
		Forces: []ForceConfig{
			{Name: "gravity", Y: 98},
			{Name: "wind", X: 20},
		},
	},
	"pile": {
		Name: "pile", Width: 100, Height: 100, Dt: 0.01, Duration: 15, Seed: 7,
		Bodies: []BodyConfig{
			{Name: "floor", Fixed: true, X: 0, Y: 95, Size: 100, Mass: 1},
			{Name: "left", Fixed: true, X: 0, Y: 45, Size: 5, Mass: 1},
			{Name: "right", Fixed: true, X: 95, Y: 45, Size: 5, Mass: 1},
		},
		Forces:  []ForceConfig{{Name: "gravity", Y: 98}},
		Scatter: &ScatterConfig{Count: 30, Size: 6, Mass: 1, Top: 0, Bottom: 60},
	},
	"rain": {
		Name: "rain", Width: 100, Height: 100, Dt: 0.02, Duration: 5, Seed: 42,
		Forces:  []ForceConfig{{Name: "gravity", Y: 60}, {Name: "wind", X: -5}},
		Scatter: &ScatterConfig{Count: 40, Size: 3, Mass: 1, Top: 0, Bottom: 50},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
