package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amp-labs/flatsort/datasets"
	"github.com/amp-labs/flatsort/envutil"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid stress config")

const (
	EnvTrials  = "SORTCHECK_TRIALS"
	EnvWorkers = "SORTCHECK_WORKERS"
	EnvSeed    = "SORTCHECK_SEED"
)

// Config controls a Stress run.
type Config struct {
	Trials     int      `json:"trials"     yaml:"trials"`
	Workers    int      `json:"workers"    yaml:"workers"`
	Seed       uint64   `json:"seed"       yaml:"seed"`
	MaxRecords int      `json:"maxRecords" yaml:"maxRecords"`
	MaxEleSize int      `json:"maxEleSize" yaml:"maxEleSize"`
	Kinds      []string `json:"kinds"      yaml:"kinds"`

	// Quiet mutes per-trial logging. Failures still reach the Summary.
	Quiet bool `json:"quiet" yaml:"quiet"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	kinds := make([]string, 0, len(datasets.Kinds()))
	for _, k := range datasets.Kinds() {
		kinds = append(kinds, string(k))
	}

	return Config{
		Trials:     200,
		Workers:    4,
		Seed:       1,
		MaxRecords: 2000,
		MaxEleSize: 4,
		Kinds:      kinds,
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if c.Trials <= 0 {
		errs = append(errs, fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidConfig, c.Trials))
	}

	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers))
	}

	if c.MaxRecords < 0 {
		errs = append(errs, fmt.Errorf("%w: maxRecords must not be negative, got %d", ErrInvalidConfig, c.MaxRecords))
	}

	if c.MaxEleSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: maxEleSize must be positive, got %d", ErrInvalidConfig, c.MaxEleSize))
	}

	if len(c.Kinds) == 0 {
		errs = append(errs, fmt.Errorf("%w: no dataset kinds", ErrInvalidConfig))
	}

	for _, name := range c.Kinds {
		if _, err := datasets.ParseKind(name); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
		}
	}

	return errors.Join(errs...)
}

func (c Config) kinds() []datasets.Kind {
	out := make([]datasets.Kind, 0, len(c.Kinds))

	for _, name := range c.Kinds {
		k, err := datasets.ParseKind(name)
		if err == nil {
			out = append(out, k)
		}
	}

	return out
}

// LoadConfig reads a YAML config from path on top of DefaultConfig, then
// applies the SORTCHECK_* environment overrides. An empty path skips the file.
func LoadConfig(ctx context.Context, path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %q: %w", path, err)
		}

		cfg, err = ParseConfig(data)
		if err != nil {
			return Config{}, err
		}
	}

	return applyEnv(ctx, cfg)
}

// ParseConfig decodes YAML over DefaultConfig. Unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(ctx context.Context, cfg Config) (Config, error) {
	trials := envutil.Int[int](ctx, EnvTrials, envutil.Validate(envutil.Positive[int]))
	workers := envutil.Int[int](ctx, EnvWorkers, envutil.Validate(envutil.Positive[int]))
	seed := envutil.Uint64(ctx, EnvSeed)

	if err := errors.Join(envError(trials), envError(workers), envError(seed)); err != nil {
		return Config{}, err
	}

	trials.DoWithValue(func(n int) { cfg.Trials = n })
	workers.DoWithValue(func(n int) { cfg.Workers = n })
	seed.DoWithValue(func(n uint64) { cfg.Seed = n })

	return cfg, cfg.Validate()
}

func envError[T any](rdr envutil.Reader[T]) error {
	if !rdr.HasError() {
		return nil
	}

	_, err := rdr.Value()

	return err
}
