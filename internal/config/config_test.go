package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/boxsim/internal/world"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "drop" {
		t.Errorf("expected scene drop, got %s", cfg.Name)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"narrow scatter band", func(c *Config) {
			c.Scatter = &ScatterConfig{Count: 3, Size: 10, Top: 0, Bottom: 5}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	cfg := GetPreset("slide")
	cfg.Seed = 99
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "slide" || loaded.Seed != 99 {
		t.Errorf("loaded %s seed %d", loaded.Name, loaded.Seed)
	}
	if len(loaded.Bodies) != len(cfg.Bodies) || len(loaded.Forces) != len(cfg.Forces) {
		t.Errorf("loaded %d bodies %d forces", len(loaded.Bodies), len(loaded.Forces))
	}
	if loaded.Bodies[1] != cfg.Bodies[1] {
		t.Errorf("body 1 = %+v, want %+v", loaded.Bodies[1], cfg.Bodies[1])
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte("name: tiny\nbodies:\n  - name: box\n    x: 1\n    y: 2\n    size: 3\n    mass: 4\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Dt != DefaultDt {
		t.Errorf("defaults lost: width %v dt %v", cfg.Width, cfg.Dt)
	}
	if len(cfg.Forces) != 0 {
		t.Errorf("expected no forces, got %v", cfg.Forces)
	}
	want := BodyConfig{Name: "box", X: 1, Y: 2, Size: 3, Mass: 4}
	if len(cfg.Bodies) != 1 || cfg.Bodies[0] != want {
		t.Errorf("bodies = %+v", cfg.Bodies)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("stack")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 5 {
		t.Errorf("expected 5 bodies, got %d", len(cfg.Bodies))
	}

	cfg.Bodies[0].Y = -100
	if Presets["stack"].Bodies[0].Y != 90 {
		t.Error("GetPreset returned a shared config")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestBuild_AllPresets(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			w, report, err := Build(GetPreset(name))
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			if w.Len() != report.Placed {
				t.Errorf("world has %d bodies, report says %d", w.Len(), report.Placed)
			}
			if w.LastUpdate() != 0 {
				t.Errorf("clock starts at %v", w.LastUpdate())
			}
		})
	}
}

func TestBuild_RejectsOverlap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = append(cfg.Bodies, BodyConfig{Name: "buried", X: 10, Y: 95, Size: 2, Mass: 1})

	w, report, err := Build(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if w.Len() != 2 || len(report.Rejected) != 1 || report.Rejected[0] != "buried" {
		t.Errorf("len=%d report=%+v", w.Len(), report)
	}
}

func TestBuild_InvalidBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies[1].Mass = 0

	if _, _, err := Build(cfg); !errors.Is(err, world.ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
}

func TestBuild_ScatterIsSeeded(t *testing.T) {
	a, _, err := Build(GetPreset("rain"))
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Build(GetPreset("rain"))
	if err != nil {
		t.Fatal(err)
	}

	pa, pb := a.SquareProps(), b.SquareProps()
	if len(pa) == 0 || len(pa) != len(pb) {
		t.Fatalf("scatter placed %d and %d props", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("same seed produced different scenes at %d", i)
		}
	}

	for _, body := range a.Bodies() {
		if body.Y < 0 || body.Bottom() > 50 {
			t.Errorf("%s outside scatter band: y=%v", body.Name, body.Y)
		}
	}
}
