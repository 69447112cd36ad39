// Package config loads the optional user config file that supplies defaults
// for prompts, timeouts and the registry.
package config

import (
	"time"

	"github.com/conn-castle/expofast/internal/registry"
	"github.com/conn-castle/expofast/internal/runner"
	"github.com/conn-castle/expofast/internal/warnings"
)

// Config is the decoded config.toml.
type Config struct {
	// PackageManager pre-selects a manager when the user agent gives no hint.
	PackageManager string   `toml:"package_manager"`
	Language       string   `toml:"language"`
	RegistryURL    string   `toml:"registry_url"`
	StepTimeout    Duration `toml:"step_timeout"`
	LookupTimeout  Duration `toml:"lookup_timeout"`
	// KeepFailed leaves a partially created project on disk after a fatal failure.
	KeepFailed bool   `toml:"keep_failed"`
	LogLevel   string `toml:"log_level"`
	NoiseMode  string `toml:"noise_mode"`
	// Versions pins package versions and skips their registry lookup.
	Versions map[string]string `toml:"versions"`
}

// Defaults returns the config used when no file exists.
func Defaults() Config {
	return Config{
		RegistryURL:   registry.DefaultURL,
		StepTimeout:   Duration(runner.DefaultTimeout),
		LookupTimeout: Duration(registry.DefaultTimeout),
		LogLevel:      "warn",
		NoiseMode:     warnings.NoiseModeDefault,
	}
}

// Duration is a time.Duration written as a Go duration string ("10m").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
