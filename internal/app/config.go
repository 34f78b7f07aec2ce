package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/gridcalc/internal/config"
	"github.com/vk/gridcalc/internal/hcl"
	"github.com/vk/gridcalc/internal/tomlcfg"
)

// Config holds everything an App needs before it can start.
type Config struct {
	ConfigPaths []string // .hcl or .toml files, or directories of them

	LogFormat string
	LogLevel  string

	// Overrides come from command-line flags and win over files.
	Overrides config.Patch
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	return &cfg, nil
}

// loaderFor picks the configuration format. TOML is used when any path
// names a .toml file; HCL otherwise.
func loaderFor(paths []string) (config.Loader, error) {
	var hasTOML, hasHCL bool
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".toml":
			hasTOML = true
		case ".hcl":
			hasHCL = true
		}
	}
	if hasTOML && hasHCL {
		return nil, fmt.Errorf("configuration files must all be HCL or all TOML")
	}
	if hasTOML {
		return tomlcfg.NewLoader(), nil
	}
	return hcl.NewLoader(), nil
}
