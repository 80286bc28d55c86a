// Package config defines the run configuration for a network simulation.
//
// Config holds the three construction parameters (N, K, Bias), the
// activation probability used to randomize the initial state, and run
// controls for the shell and the realtime runtime. It can be loaded from
// YAML or JSON; Validate applies the same parameter rules as rbn.New.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/rbn"
)

// Config describes one simulation run.
type Config struct {
	N          int           `json:"n" yaml:"n"`
	K          int           `json:"k" yaml:"k"`
	Bias       float64       `json:"bias" yaml:"bias"`
	Activation float64       `json:"activation" yaml:"activation"`
	Seed       uint64        `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 = entropy
	Steps      int           `json:"steps" yaml:"steps"`
	Workers    int           `json:"workers,omitempty" yaml:"workers,omitempty"`
	TickRate   time.Duration `json:"tick_rate,omitempty" yaml:"tick_rate,omitempty"`
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{
		N:          20,
		K:          2,
		Bias:       0.5,
		Activation: 0.5,
		Steps:      40,
		Workers:    1,
		TickRate:   100 * time.Millisecond,
	}
}

// Validate checks the configuration:
// - N >= 1 and 0 <= K <= min(N, rbn.MaxK)
// - Bias and Activation within [0, 1]
// - Steps and Workers non-negative
// Errors wrap rbn.ErrInvalidParameters.
func (c *Config) Validate() error {
	if c.N < 1 {
		return fmt.Errorf("%w: n=%d: at least one node is required", rbn.ErrInvalidParameters, c.N)
	}
	if c.K < 0 || c.K > c.N {
		return fmt.Errorf("%w: k=%d: must be within [0, n=%d]", rbn.ErrInvalidParameters, c.K, c.N)
	}
	if c.K > rbn.MaxK {
		return fmt.Errorf("%w: k=%d: exceeds maximum in-degree %d", rbn.ErrInvalidParameters, c.K, rbn.MaxK)
	}
	if err := probability("bias", c.Bias); err != nil {
		return err
	}
	if err := probability("activation", c.Activation); err != nil {
		return err
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps=%d: must be non-negative", rbn.ErrInvalidParameters, c.Steps)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers=%d: must be non-negative", rbn.ErrInvalidParameters, c.Workers)
	}
	if c.TickRate < 0 {
		return fmt.Errorf("%w: tick_rate=%s: must be non-negative", rbn.ErrInvalidParameters, c.TickRate)
	}
	return nil
}

func probability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %s=%v: must be within [0, 1]", rbn.ErrInvalidParameters, name, p)
	}
	return nil
}

// Options translates the configuration into rbn.New options.
func (c *Config) Options() []rbn.Option {
	var opts []rbn.Option
	if c.Seed != 0 {
		opts = append(opts, rbn.WithSeed(c.Seed))
	}
	if c.Workers > 1 {
		opts = append(opts, rbn.WithParallelism(c.Workers))
	}
	return opts
}

// Build validates the configuration, constructs the network and randomizes
// its initial state with Activation.
func (c *Config) Build() (*rbn.Network, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	net, err := rbn.New(c.N, c.K, c.Bias, c.Options()...)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	if err := net.RandomizeState(c.Activation); err != nil {
		return nil, fmt.Errorf("randomize state: %w", err)
	}
	return net, nil
}

// ErrUnknownFormat is returned by Load for files that are neither YAML nor JSON.
var ErrUnknownFormat = errors.New("unknown config format")

// Load reads a configuration file, starting from Default so omitted fields
// keep their defaults. The format follows the extension: .yaml/.yml or .json.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("json unmarshal: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%s: %w %q", path, ErrUnknownFormat, ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation after load: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML or JSON according to the extension.
func Save(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
	default:
		return fmt.Errorf("%s: %w %q", path, ErrUnknownFormat, ext)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
