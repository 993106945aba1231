// Package runtimeconfig loads the YAML-configurable knobs this
// implementation exposes for the Open Questions SPEC_FULL.md leaves to an
// implementation to decide (§9): whether a signal write is suppressed when
// the new value compares equal to the old one, whether a build panic is
// recovered per-component, and the diagnostic rate limit applied to
// pkg/errors's LogHandler. Only the rate limit is consumed (through
// RateLimiter); no package reads the Signals or Build fields, so loading
// them changes no runtime behavior.
package runtimeconfig

import (
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// SupportedSchemaVersion is the newest config schema this build understands.
// Load rejects a file declaring a newer one rather than silently ignoring
// fields it doesn't recognize.
const SupportedSchemaVersion = "v1"

// Config is the resolved set of runtime knobs, loaded from an optional YAML
// file or falling back to Default.
type Config struct {
	SchemaVersion string `yaml:"schemaVersion"`

	Signals struct {
		// SkipWriteOnEqualValue records whether a Signal.Set with an equal
		// value is suppressed. pkg/reactive does not read it: Signal.Set
		// always compares with the signal's equality function and skips
		// notification on equal values, whatever this field holds.
		SkipWriteOnEqualValue bool `yaml:"skipWriteOnEqualValue"`
	} `yaml:"signals"`

	Build struct {
		// RecoverPanics records the per-component recovery policy (§4.5
		// "Cancellation / timeouts"). pkg/core does not read it: build
		// panics are always recovered per component, whatever this field
		// holds.
		RecoverPanics bool `yaml:"recoverPanics"`
	} `yaml:"build"`

	Diagnostics struct {
		RateLimitPerSecond float64 `yaml:"rateLimitPerSecond"`
		Burst              int     `yaml:"burst"`
	} `yaml:"diagnostics"`
}

// Default is the configuration this implementation falls back to when no
// file is present: signal writes are value-compared, build panics are
// recovered per-component, and diagnostics are rate-limited to 1/s with a
// burst of 5 — the decisions SPEC_FULL.md §9 asks an implementation to make.
func Default() Config {
	var cfg Config
	cfg.SchemaVersion = SupportedSchemaVersion
	cfg.Signals.SkipWriteOnEqualValue = true
	cfg.Build.RecoverPanics = true
	cfg.Diagnostics.RateLimitPerSecond = 1
	cfg.Diagnostics.Burst = 5
	return cfg
}

// Load reads a YAML config file at path, falling back to Default if no file
// exists there so an embedder can ship this runtime without also shipping a
// config file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("runtimeconfig: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("runtimeconfig: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether SchemaVersion is well-formed and no newer than
// SupportedSchemaVersion.
func (c Config) Validate() error {
	if !semver.IsValid(c.SchemaVersion) {
		return fmt.Errorf("runtimeconfig: invalid schemaVersion %q", c.SchemaVersion)
	}
	if semver.Compare(c.SchemaVersion, SupportedSchemaVersion) > 0 {
		return fmt.Errorf("runtimeconfig: schemaVersion %q is newer than this build supports (%q)",
			c.SchemaVersion, SupportedSchemaVersion)
	}
	return nil
}

// RateLimiter builds the token-bucket limiter pkg/errors's LogHandler uses,
// from this config's diagnostics knobs.
func (c Config) RateLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(c.Diagnostics.RateLimitPerSecond), c.Diagnostics.Burst)
}
