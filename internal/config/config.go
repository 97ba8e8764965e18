// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the optional .ciotest.yaml file from the project root.
// Every field has a default; a missing file just means the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// FileName is the name of the configuration file in the project root.
const FileName = ".ciotest.yaml"

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// ErrUnmarshalConfig is returned when the configuration file cannot be parsed.
var ErrUnmarshalConfig = errors.New("failed to parse configuration file")

const (
	defaultInterpreter         = "python"
	defaultFormatterEntrypoint = "setup_yapf_task.py"
	defaultStyleTool           = "flake8"
	defaultDocstyleTool        = "pydocstyle"
	defaultBatchSize           = 3
)

// Config holds the tool names and tuning knobs for one run.
type Config struct {
	// Interpreter is the Python executable used for the formatter workers
	// and the test runner.
	Interpreter string `yaml:"interpreter"`
	// FormatterEntrypoint is the script each formatter worker executes,
	// relative to the project root.
	FormatterEntrypoint string `yaml:"formatterEntrypoint"`
	// StyleTool is the style checker executable.
	StyleTool string `yaml:"styleTool"`
	// DocstyleTool is the docstring checker executable.
	DocstyleTool string `yaml:"docstyleTool"`
	// BatchSize is the number of files handed to one formatter worker.
	BatchSize int `yaml:"batchSize"`
	// MaxConcurrency bounds the formatter worker pool. Zero means the
	// host's CPU count.
	MaxConcurrency int `yaml:"maxConcurrency"`
	// ExcludeDirs are directory names excluded from discovery in addition
	// to hidden directories, "build" and "__pycache__".
	ExcludeDirs []string `yaml:"excludeDirs"`
	// CopyrightHeader is the header block inserted into files that are
	// missing one. Empty disables insertion (the check still records the
	// failure).
	CopyrightHeader string `yaml:"copyrightHeader"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Interpreter:         defaultInterpreter,
		FormatterEntrypoint: defaultFormatterEntrypoint,
		StyleTool:           defaultStyleTool,
		DocstyleTool:        defaultDocstyleTool,
		BatchSize:           defaultBatchSize,
		MaxConcurrency:      runtime.NumCPU(),
	}
}

// Load reads .ciotest.yaml from root, if present, on top of the defaults.
func Load(root string) (*Config, error) {
	return LoadFile(filepath.Join(root, FileName))
}

// LoadFile reads the configuration from an explicit path, on top of the
// defaults. A missing file is not an error: it means the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	fs := FsFactory()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Join(ErrUnmarshalConfig, err)
	}

	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the tuning knobs. All violations are reported together.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.BatchSize < 1 {
		result = multierror.Append(result, fmt.Errorf("batchSize must be at least 1, got %d", c.BatchSize))
	}

	if c.MaxConcurrency < 1 {
		result = multierror.Append(result, fmt.Errorf("maxConcurrency must be at least 1, got %d", c.MaxConcurrency))
	}

	if c.Interpreter == "" {
		result = multierror.Append(result, errors.New("interpreter must not be empty"))
	}

	if c.FormatterEntrypoint == "" {
		result = multierror.Append(result, errors.New("formatterEntrypoint must not be empty"))
	}

	return result.ErrorOrNil()
}
