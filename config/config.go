// Package config loads the settings of an aggregation run from YAML.
//
// # Configuration File
//
//	curve: "secp256k1"        # see curves.Supported()
//	participants: 10          # used with secret when secrets is empty
//	secret: 99
//	secrets: []               # explicit per-participant secrets
//	sensitivity: 1.0
//	epsilon: 0.1
//	aggregate_workers: 1
//	dlog:
//	  strategy: "linear"      # linear, parallel or bsgs
//	  max_iterations: 1048576 # 0 searches the whole subgroup
//	  workers: 1
//	seed: ""                  # hex key for a reproducible run, empty uses crypto/rand
//	metrics_file: ""          # write Prometheus text exposition here
//	log:
//	  level: "info"           # debug, info, warn, error
//	  format: "text"          # text or json
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/f3rmion/secagg/curves"
	"github.com/f3rmion/secagg/dlog"
	"github.com/f3rmion/secagg/rng"
)

// Config holds all run settings.
type Config struct {
	Curve            string      `yaml:"curve"`
	Participants     int         `yaml:"participants"`
	Secret           int64       `yaml:"secret"`
	Secrets          []int64     `yaml:"secrets"`
	Sensitivity      float64     `yaml:"sensitivity"`
	Epsilon          float64     `yaml:"epsilon"`
	AggregateWorkers int         `yaml:"aggregate_workers"`
	DLog             dlog.Config `yaml:"dlog"`
	Seed             string      `yaml:"seed"`
	MetricsFile      string      `yaml:"metrics_file"`
	Log              LogConfig   `yaml:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings of the reference demo: ten participants each
// holding 99 on secp256k1, released with sensitivity 1 and epsilon 0.1.
func Default() *Config {
	return &Config{
		Curve:            "secp256k1",
		Participants:     10,
		Secret:           99,
		Sensitivity:      1.0,
		Epsilon:          0.1,
		AggregateWorkers: 1,
		DLog: dlog.Config{
			Strategy:      dlog.Linear,
			MaxIterations: 1 << 20,
			Workers:       1,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings without touching any randomness.
func (c *Config) Validate() error {
	if _, err := curves.FromName(c.Curve); err != nil {
		return err
	}
	if len(c.Secrets) == 0 {
		if c.Participants < 0 {
			return fmt.Errorf("participants must be non-negative, got %d", c.Participants)
		}
		if c.Secret < 0 {
			return fmt.Errorf("secret must be non-negative, got %d", c.Secret)
		}
	}
	for i, s := range c.Secrets {
		if s < 0 {
			return fmt.Errorf("secrets[%d] must be non-negative, got %d", i, s)
		}
	}
	if c.Sensitivity <= 0 {
		return fmt.Errorf("sensitivity must be positive, got %v", c.Sensitivity)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %v", c.Epsilon)
	}
	switch c.DLog.Strategy {
	case "", dlog.Linear, dlog.Parallel, dlog.BabyStepGiantStep:
	default:
		return fmt.Errorf("unknown dlog strategy %q", c.DLog.Strategy)
	}
	if c.Seed != "" {
		key, err := hex.DecodeString(c.Seed)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if len(key) > rng.MaxKeySize {
			return fmt.Errorf("seed is %d bytes, at most %d allowed", len(key), rng.MaxKeySize)
		}
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// SecretValues returns the per-participant secrets: Secrets when set,
// otherwise Participants copies of Secret.
func (c *Config) SecretValues() []*big.Int {
	if len(c.Secrets) > 0 {
		out := make([]*big.Int, len(c.Secrets))
		for i, s := range c.Secrets {
			out[i] = big.NewInt(s)
		}
		return out
	}
	out := make([]*big.Int, c.Participants)
	for i := range out {
		out[i] = big.NewInt(c.Secret)
	}
	return out
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
