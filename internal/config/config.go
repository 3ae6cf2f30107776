// SPDX-License-Identifier: EPL-2.0

// Package config loads the optional YAML configuration file of the audspec
// command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audspec/script"
	"github.com/ik5/audspec/spectrum"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog maps l to a slog level; unknown or empty levels mean info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Config is the root of the configuration file.
type Config struct {
	LogLevel LogLevel `yaml:"log_level"`

	// Output is the default script path when none is given on the command line.
	Output string `yaml:"output"`

	Analysis Analysis      `yaml:"analysis"`
	Script   script.Params `yaml:"script"`
}

// Analysis holds the spectrum settings that do not depend on the range.
type Analysis struct {
	Bands     int `yaml:"bands"`
	FrameSize int `yaml:"frame_size"`
	Workers   int `yaml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: LogInfo,
		Output:   script.DefaultOutput,
		Analysis: Analysis{
			Bands:     spectrum.DefaultBands,
			FrameSize: spectrum.DefaultFrameSize,
		},
		Script: script.DefaultParams(),
	}
}

// Spectrum builds the analysis config for [startMS, endMS).
func (c *Config) Spectrum(startMS, endMS int) spectrum.Config {
	return spectrum.Config{
		StartMS:   startMS,
		EndMS:     endMS,
		Bands:     c.Analysis.Bands,
		FrameSize: c.Analysis.FrameSize,
		Workers:   c.Analysis.Workers,
	}
}

// Load reads the YAML configuration file at path and returns a validated [Config].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over [Default] and validates the
// result. Unknown keys are rejected; an empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if cfg.Output == "" {
		errs = append(errs, errors.New("output must not be empty"))
	}

	// The range is only known at run time, so validate with a placeholder.
	if err := cfg.Spectrum(0, 1).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("analysis: %w", err))
	}

	if err := cfg.Script.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("script: %w", err))
	}

	return errors.Join(errs...)
}
