package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.CV.OuterFolds != 5 || cfg.CV.InnerFolds != 5 {
		t.Errorf("folds = %d/%d, want 5/5", cfg.CV.OuterFolds, cfg.CV.InnerFolds)
	}
	if len(cfg.CV.MTryGrid) != 4 || cfg.CV.MTryGrid[0] != 2 {
		t.Errorf("MTryGrid = %v, want [2 3 4 5]", cfg.CV.MTryGrid)
	}
	if cfg.Input.Genres[0] != "Rock" || cfg.Input.Genres[1] != "Country" {
		t.Errorf("Genres = %v", cfg.Input.Genres)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
input:
  path: data.csv
  genres: [Rock, Country]
cv:
  outer_folds: 3
  inner_folds: 4
  mtry_grid: [2, 3]
  trees: 50
seed: 99
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Input.Path != "data.csv" {
		t.Errorf("Input.Path = %q", cfg.Input.Path)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	if cfg.CV.OuterFolds != 3 || cfg.CV.Trees != 50 {
		t.Errorf("CV = %+v", cfg.CV)
	}
	// Unset fields keep defaults
	if cfg.Impute.Neighbors != 5 {
		t.Errorf("Impute.Neighbors = %d, want default 5", cfg.Impute.Neighbors)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig() with missing file should fail")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Input.Path = "data.csv"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing path", func(c *Config) { c.Input.Path = "" }},
		{"one genre", func(c *Config) { c.Input.Genres = []string{"Rock"} }},
		{"same genre twice", func(c *Config) { c.Input.Genres = []string{"Rock", "Rock"} }},
		{"zero neighbors", func(c *Config) { c.Impute.Neighbors = 0 }},
		{"zero imputations", func(c *Config) { c.Impute.Imputations = 0 }},
		{"one outer fold", func(c *Config) { c.CV.OuterFolds = 1 }},
		{"one inner fold", func(c *Config) { c.CV.InnerFolds = 1 }},
		{"empty grid", func(c *Config) { c.CV.MTryGrid = nil }},
		{"zero trees", func(c *Config) { c.CV.Trees = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}
