// Package config loads hashwrap settings from YAML and the environment.
package config

import (
	"encoding/hex"
	"os"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"hashwrap/algo"
	"hashwrap/textwrap"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "hashwrap.yaml"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Config holds defaults for every command. Flags override it.
type Config struct {
	Algorithm  string `yaml:"algorithm"`
	Encoding   string `yaml:"encoding"`
	Workers    int    `yaml:"workers"`
	Width      int    `yaml:"width"`
	Metric     string `yaml:"metric"`
	HighwayKey string `yaml:"highway_key"` // hex, 32 bytes
	Group      int    `yaml:"group"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Algorithm: "sha1",
		Encoding:  string(algo.Hex),
		Workers:   runtime.NumCPU(),
		Width:     80,
		Metric:    "runes",
	}
}

// Load reads path over the defaults and applies HASHWRAP_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(err, "failed to read config")
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config")
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("HASHWRAP_ALGORITHM"); v != "" {
		c.Algorithm = v
	}
	if v := os.Getenv("HASHWRAP_ENCODING"); v != "" {
		c.Encoding = v
	}
	if v := os.Getenv("HASHWRAP_METRIC"); v != "" {
		c.Metric = v
	}
	if v := os.Getenv("HASHWRAP_HIGHWAY_KEY"); v != "" {
		c.HighwayKey = v
	}
	for name, dst := range map[string]*int{
		"HASHWRAP_WORKERS": &c.Workers,
		"HASHWRAP_WIDTH":   &c.Width,
		"HASHWRAP_GROUP":   &c.Group,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "%s=%q", name, v)
		}
		*dst = n
	}
	return nil
}

// Registry builds the algorithm registry, applying the HighwayHash key.
func (c *Config) Registry() (*algo.Registry, error) {
	if c.HighwayKey == "" {
		return algo.Default, nil
	}
	key, err := hex.DecodeString(c.HighwayKey)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "highway_key: %v", err)
	}
	if len(key) != 32 {
		return nil, errors.Wrapf(ErrInvalidConfig, "highway_key: want 32 bytes, got %d", len(key))
	}
	return algo.NewRegistry(algo.WithHighwayKey(key)), nil
}

// Validate checks that every setting names something hashwrap knows.
func (c *Config) Validate() error {
	reg, err := c.Registry()
	if err != nil {
		return err
	}
	if _, err := reg.Lookup(c.Algorithm); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "algorithm: %v", err)
	}
	if _, err := algo.ParseEncoding(c.Encoding); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "encoding: %v", err)
	}
	if _, err := textwrap.MetricByName(c.Metric); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "metric: %v", err)
	}
	if c.Workers <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "workers must be positive, got %d", c.Workers)
	}
	if c.Width <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "width must be positive, got %d", c.Width)
	}
	if c.Group < 0 {
		return errors.Wrapf(ErrInvalidConfig, "group must not be negative, got %d", c.Group)
	}
	return nil
}
