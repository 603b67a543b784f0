// Package config loads the engine-wide knobs referenced by name
// (may_peel_loop_headers, optimize-for-size, the debug-counter bisection
// range) from a YAML file using gopkg.in/yaml.v3.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvFileVar names the environment variable (optionally supplied via a
// .env file loaded with joho/godotenv) consulted when the --config flag is
// empty; an explicit --config value wins.
const EnvFileVar = "JUMPTHREAD_CONFIG"

// EngineOptions is the process-wide configuration for one
// ThreadThroughAllBlocks run.
type EngineOptions struct {
	// MayPeelLoopHeaders gates the loop-header threader's entries case:
	// when false, a header that is not a pure redirection block is never
	// threaded.
	MayPeelLoopHeaders bool `yaml:"may_peel_loop_headers"`

	// OptimizeForSize makes the path pre-validator cancel every path into
	// a multi-predecessor, non-trivial block instead of paying the
	// duplication cost.
	OptimizeForSize bool `yaml:"optimize_for_size"`

	// BisectionLow/BisectionHigh bound the debug counter upstream may
	// consult to suppress registrations.
	BisectionLow  int `yaml:"bisection_low"`
	BisectionHigh int `yaml:"bisection_high"`
}

// Default returns the options a run uses when no config file is given:
// peeling allowed, not optimizing for size, bisection counter wide open.
func Default() EngineOptions {
	return EngineOptions{
		MayPeelLoopHeaders: true,
		OptimizeForSize:    false,
		BisectionLow:       0,
		BisectionHigh:      int(^uint(0) >> 1),
	}
}

// Load reads path as YAML into a fresh EngineOptions seeded with Default
// values, so a file that sets only one field leaves the rest at their
// defaults.
func Load(path string) (EngineOptions, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// ResolvePath returns the config file path to use: explicit takes
// precedence, then the JUMPTHREAD_CONFIG env var (loading envFile via
// godotenv first, if one was given), then "" meaning no file (use
// Default()).
func ResolvePath(explicit, envFile string) string {
	if explicit != "" {
		return explicit
	}
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	return os.Getenv(EnvFileVar)
}
