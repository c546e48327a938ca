// Package config holds the harness run configuration.
//
// Configuration is an optional YAML file; every field has a default matching
// the conventional suite layout, so the binary runs with no config at all.
// Decoding is strict: unknown keys are rejected rather than silently ignored.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = "fhirbench.yaml"

// Config is the harness run configuration.
type Config struct {
	// SuitesDir holds the JSON suite definitions.
	SuitesDir string `yaml:"suites_dir"`
	// InputDir holds fixture documents; defaults to <SuitesDir>/input.
	InputDir string `yaml:"input_dir"`
	// ResultsDir receives the report files.
	ResultsDir string `yaml:"results_dir"`
	// Language labels this implementation in reports and report filenames.
	Language string `yaml:"language"`

	// RunInvalid includes invalid-marked cases in the scored run.
	RunInvalid bool `yaml:"run_invalid"`

	// Iterations, Warmup and BenchCases shape the benchmark pass.
	Iterations int `yaml:"iterations"`
	Warmup     int `yaml:"warmup"`
	BenchCases int `yaml:"bench_cases"`

	// HistoryDB is the run-history SQLite database path. Empty disables
	// history recording.
	HistoryDB string `yaml:"history_db"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		SuitesDir:  filepath.Join("specs", "fhirpath", "tests"),
		ResultsDir: "results",
		Language:   "go",
		Iterations: 100,
		Warmup:     10,
		BenchCases: 10,
		HistoryDB:  filepath.Join("results", "fhirbench.db"),
	}
}

// Load reads the configuration at path, layered over the defaults.
//
// A missing file at the default path is not an error; a missing file at an
// explicitly requested path is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.normalize()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	// Strict decoding catches typos like "iteration:" vs "iterations:".
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	if c.InputDir == "" {
		c.InputDir = filepath.Join(c.SuitesDir, "input")
	}
}

func (c *Config) validate() error {
	if c.SuitesDir == "" {
		return fmt.Errorf("suites_dir is required")
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("results_dir is required")
	}
	if c.Language == "" {
		return fmt.Errorf("language is required")
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must be non-negative, got %d", c.Warmup)
	}
	if c.BenchCases <= 0 {
		return fmt.Errorf("bench_cases must be positive, got %d", c.BenchCases)
	}
	return nil
}
