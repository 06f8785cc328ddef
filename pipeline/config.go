// Package pipeline orchestrates the full genre-classification run: load,
// clean, impute, transform, nested cross-validation, report.
package pipeline

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/tunelab/genreclf/pkg/errors"
)

// Config drives one pipeline run.
type Config struct {
	Input struct {
		Path   string   `yaml:"path"`
		Genres []string `yaml:"genres"`
	} `yaml:"input"`

	Impute struct {
		Neighbors   int `yaml:"neighbors"`
		Imputations int `yaml:"imputations"`
	} `yaml:"impute"`

	CV struct {
		OuterFolds int   `yaml:"outer_folds"`
		InnerFolds int   `yaml:"inner_folds"`
		MTryGrid   []int `yaml:"mtry_grid"`
		Trees      int   `yaml:"trees"`
	} `yaml:"cv"`

	Seed int64 `yaml:"seed"`

	Output struct {
		Dir   string `yaml:"dir"`
		Plots bool   `yaml:"plots"`
	} `yaml:"output"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns the configuration the run uses when a field is left
// unset.
func DefaultConfig() *Config {
	cfg := &Config{Seed: 42}
	cfg.Input.Genres = []string{"Rock", "Country"}
	cfg.Impute.Neighbors = 5
	cfg.Impute.Imputations = 5
	cfg.CV.OuterFolds = 5
	cfg.CV.InnerFolds = 5
	cfg.CV.MTryGrid = []int{2, 3, 4, 5}
	cfg.CV.Trees = 100
	cfg.Output.Dir = "out"
	cfg.Log.Level = "info"
	return cfg
}

// LoadConfig reads a yaml config file, filling unset fields with defaults.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "genreclf: open config")
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "genreclf: parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the run cannot honor.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.NewValidationError("input.path", "must be set", c.Input.Path)
	}
	if len(c.Input.Genres) != 2 {
		return errors.NewValidationError("input.genres", "exactly two genres required", c.Input.Genres)
	}
	if c.Input.Genres[0] == c.Input.Genres[1] {
		return errors.NewValidationError("input.genres", "genres must differ", c.Input.Genres)
	}
	if c.Impute.Neighbors < 1 {
		return errors.NewValidationError("impute.neighbors", "must be positive", c.Impute.Neighbors)
	}
	if c.Impute.Imputations < 1 {
		return errors.NewValidationError("impute.imputations", "must be positive", c.Impute.Imputations)
	}
	if c.CV.OuterFolds < 2 || c.CV.InnerFolds < 2 {
		return errors.NewValidationError("cv", "fold counts must be at least 2", c.CV)
	}
	if len(c.CV.MTryGrid) == 0 {
		return errors.NewValidationError("cv.mtry_grid", "must not be empty", c.CV.MTryGrid)
	}
	if c.CV.Trees < 1 {
		return errors.NewValidationError("cv.trees", "must be positive", c.CV.Trees)
	}
	return nil
}
