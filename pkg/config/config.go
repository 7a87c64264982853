// Package config loads the YAML configuration shared by the CLIs. Flags
// override anything set here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/validation"
)

// Config is the full CLI configuration.
type Config struct {
	Inputs InputsConfig `yaml:"inputs"`
	Output OutputConfig `yaml:"output"`
	Layout LayoutConfig `yaml:"layout"`
	Server ServerConfig `yaml:"server"`
	Query  QueryConfig  `yaml:"query"`

	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// InputsConfig names the input files.
type InputsConfig struct {
	Graph       string `yaml:"graph" validate:"required"`
	Orthogroups string `yaml:"orthogroups"`
	Metadata    string `yaml:"metadata"`
	Enrichment  string `yaml:"enrichment"`
}

// OutputConfig controls export targets.
type OutputConfig struct {
	HTML  string `yaml:"html"`
	JSON  string `yaml:"json"`
	Title string `yaml:"title"`
}

// LayoutConfig controls the initial layout.
type LayoutConfig struct {
	Algorithm  string  `yaml:"algorithm" validate:"omitempty,oneof=force circular"`
	Width      float64 `yaml:"width" validate:"omitempty,min=100"`
	Height     float64 `yaml:"height" validate:"omitempty,min=100"`
	Iterations int     `yaml:"iterations" validate:"omitempty,min=1"`
	Seed       int64   `yaml:"seed"`
}

// ServerConfig controls the interactive server.
type ServerConfig struct {
	Port int `yaml:"port" validate:"omitempty,min=1,max=65535"`
}

// QueryConfig is the initial coloring query.
type QueryConfig struct {
	Term       string `yaml:"term"`
	Gene       string `yaml:"gene"`
	Orthogroup string `yaml:"orthogroup"`
	Default    string `yaml:"default" validate:"omitempty,hexcolor"`
}

// Default returns a config with usable defaults and no inputs.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Title: "Mapper enrichment"},
		Layout: LayoutConfig{
			Algorithm:  "force",
			Width:      1200,
			Height:     800,
			Iterations: 50,
			Seed:       1,
		},
		Server:   ServerConfig{Port: 8080},
		LogLevel: "info",
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks constraint tags across the whole config.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c)
}
