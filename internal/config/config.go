// Package config loads the ipynb2 settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/ipynb2/internal/domain"
)

// Config holds every setting the engine and the commands read.
type Config struct {
	Marker          string   `yaml:"marker"`
	RuntimeNames    []string `yaml:"runtime_names"`
	MagicModules    []string `yaml:"magic_modules"`
	Extensions      []string `yaml:"extensions"`
	Exclude         []string `yaml:"exclude"`
	Workers         int      `yaml:"workers"`
	TestPrefix      string   `yaml:"test_prefix"`
	TestClassPrefix string   `yaml:"test_class_prefix"`
	Runner          []string `yaml:"runner"`
	ExportDir       string   `yaml:"export_dir"`
}

// DefaultConfig returns a configuration with all defaults set.
func DefaultConfig() *Config {
	return &Config{
		Marker:          domain.DefaultTestMarker,
		RuntimeNames:    slices.Clone(domain.DefaultRuntimeNames),
		MagicModules:    slices.Clone(domain.DefaultMagicModules),
		Extensions:      slices.Clone(domain.DefaultExtensions),
		Workers:         DefaultWorkers,
		TestPrefix:      domain.DefaultTestPrefix,
		TestClassPrefix: domain.DefaultTestClassPrefix,
		Runner:          slices.Clone(domain.DefaultRunner),
		ExportDir:       DefaultExportDir,
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// means DefaultConfigFile, which may be absent; an explicitly named file must
// exist. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.applyEnvOverrides()
			return cfg, nil
		}

		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if runner := strings.Fields(os.Getenv(RunnerEnv)); len(runner) > 0 {
		c.Runner = runner
	}
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Marker, "%%") || len(c.Marker) == 2 {
		return fmt.Errorf("marker %q must be a cell magic such as %%%%ipytest", c.Marker)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	if len(c.Runner) == 0 || c.Runner[0] == "" {
		return errors.New("runner command must not be empty")
	}

	if len(c.Extensions) == 0 {
		return errors.New("at least one notebook extension is required")
	}

	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}

		c.Extensions[i] = strings.ToLower(ext)
	}

	return nil
}
