// Package config loads the smartop runtime configuration.
//
// Sources, lowest priority first: built-in defaults, a YAML file, SMARTOP_*
// environment variables, and finally command-line flags (applied by the CLI
// through the exported fields after Load returns).
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/policy"
)

// Engine and adapter names.
const (
	EngineSerial      = "serial"
	EngineLocal       = "local"
	EngineDistributed = "distributed"

	AdapterLocal = "local"
	AdapterHTTP  = "http"
	AdapterMPI   = "mpi"
)

// Config is the complete runtime configuration.
type Config struct {
	ThreadMultiplier  int           `yaml:"thread_multiplier"`
	Cores             int           `yaml:"cores"`
	Granularity       int           `yaml:"granularity"`
	MaxNodes          int           `yaml:"max_nodes"`
	SparsityThreshold float64       `yaml:"sparsity_threshold"`
	Tolerance         float64       `yaml:"tolerance"`
	Policy            string        `yaml:"policy"`
	Factory           string        `yaml:"factory"`
	Engine            string        `yaml:"engine"`
	Adapter           string        `yaml:"adapter"`
	DynamicSplit      bool          `yaml:"dynamic_split"`
	Workers           []string      `yaml:"workers,omitempty"`
	LogLevel          string        `yaml:"log_level"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ThreadMultiplier:  1,
		Cores:             5,
		Granularity:       1,
		MaxNodes:          5,
		SparsityThreshold: matrix.DefaultSwitchThreshold,
		Tolerance:         matrix.DefaultEpsilon,
		Policy:            policy.NameRowSparseness,
		Factory:           matrix.FactoryRowMap,
		Engine:            EngineLocal,
		Adapter:           AdapterLocal,
		LogLevel:          "info",
		RequestTimeout:    30 * time.Second,
	}
}

// Load returns defaults overlaid with the YAML file at path (skipped when
// path is empty) and then with SMARTOP_* environment variables.
// The result is not validated; call Validate after applying flags.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)

	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks the configuration for consistency.
// Every problem is reported; the result unwraps to one ConfigError per issue.
func (c Config) Validate() error {
	var errs []error
	if c.ThreadMultiplier < 1 {
		errs = append(errs, NewConfigError("thread_multiplier must be >= 1, got %d", c.ThreadMultiplier))
	}
	if c.Cores < 1 {
		errs = append(errs, NewConfigError("cores must be >= 1, got %d", c.Cores))
	}
	if c.Granularity < 1 {
		errs = append(errs, NewConfigError("granularity must be >= 1, got %d", c.Granularity))
	}
	if c.MaxNodes < 1 {
		errs = append(errs, NewConfigError("max_nodes must be >= 1, got %d", c.MaxNodes))
	}
	if c.SparsityThreshold < 0 || c.SparsityThreshold > 1 {
		errs = append(errs, NewConfigError("sparsity_threshold must be in [0,1], got %g", c.SparsityThreshold))
	}
	if c.Tolerance < 0 {
		errs = append(errs, NewConfigError("tolerance cannot be negative: %g", c.Tolerance))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, NewConfigError("request_timeout must be strictly positive"))
	}
	if !slices.Contains(policy.Names(), strings.ToLower(c.Policy)) {
		errs = append(errs, NewConfigError("unrecognized policy %q. Valid policies are: [%s]", c.Policy, strings.Join(policy.Names(), ", ")))
	}
	if !slices.Contains(matrix.FactoryNames(), strings.ToLower(c.Factory)) {
		errs = append(errs, NewConfigError("unrecognized factory %q. Valid factories are: [%s]", c.Factory, strings.Join(matrix.FactoryNames(), ", ")))
	}
	switch c.Engine {
	case EngineSerial, EngineLocal, EngineDistributed:
	default:
		errs = append(errs, NewConfigError("unrecognized engine %q", c.Engine))
	}
	switch c.Adapter {
	case AdapterLocal, AdapterMPI:
	case AdapterHTTP:
		if len(c.Workers) == 0 {
			errs = append(errs, NewConfigError("adapter %q needs at least one worker URL", AdapterHTTP))
		}
	default:
		errs = append(errs, NewConfigError("unrecognized adapter %q", c.Adapter))
	}

	return errors.Join(errs...)
}

// MatrixOptions returns the matrix options implied by the configuration.
func (c Config) MatrixOptions() []matrix.Option {
	return []matrix.Option{
		matrix.WithEpsilon(max(c.Tolerance, 0)),
		matrix.WithSwitchThreshold(min(max(c.SparsityThreshold, 0), 1)),
	}
}
