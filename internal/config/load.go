package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/expofast/internal/messages"
)

// ErrConfigValidation wraps validation failures, as opposed to syntax or
// filesystem errors. Match with errors.Is.
var ErrConfigValidation = errors.New("config validation failed")

// PathEnv overrides the config file location.
const PathEnv = "EXPOFAST_CONFIG"

const defaultRelPath = "expofast/config.toml"

// DefaultPath returns the config path: $EXPOFAST_CONFIG, then
// $XDG_CONFIG_HOME/expofast/config.toml, then ~/.config/expofast/config.toml.
// Paths starting with ~ are expanded.
func DefaultPath(getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if p := getenv(PathEnv); p != "" {
		return expand(p)
	}
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return expand(filepath.Join(xdg, defaultRelPath))
	}
	return expand(filepath.Join("~", ".config", defaultRelPath))
}

func expand(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigHomeDirFailedFmt, err)
	}
	return expanded, nil
}

// Load reads and validates the config at path. A missing file yields Defaults
// and found=false.
func Load(path string) (cfg Config, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), false, nil
	}
	if err != nil {
		return Config{}, false, fmt.Errorf(messages.ConfigFailedReadFmt, path, err)
	}
	cfg, err = Parse(data, path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Parse decodes TOML data over Defaults and validates it. source names the
// data in error messages.
func Parse(data []byte, source string) (Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return Config{}, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return Config{}, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes data rejecting keys the Config struct does not declare.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
