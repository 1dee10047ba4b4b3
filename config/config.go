// Package config loads the optional lltypes configuration file.  The file is
// either TOML (lltypes.toml) or YAML (lltypes.yaml, lltypes.yml) and provides
// defaults for the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"llc/native"
	"llc/native/irlib"
	"llc/report"
)

// Version is the current lltypes version.
const Version = "0.1.0"

// FileNames lists the names a configuration file may have, in order of
// precedence.
var FileNames = []string{"lltypes.toml", "lltypes.yaml", "lltypes.yml"}

// Config is the resolved configuration.
type Config struct {
	// Path is the file the configuration was loaded from, if any.
	Path string

	Backend      string
	LogLevel     int
	LogLevelName string
	TargetTriple string
	ModuleName   string

	// Warnings are the problems found while loading that do not stop the
	// file from being used.
	Warnings []string
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Backend:      irlib.BackendName,
		LogLevel:     report.LogLevelVerbose,
		LogLevelName: "verbose",
		ModuleName:   "lltypes",
	}
}

// fileConfig is the configuration as it is encoded in a file.
type fileConfig struct {
	Backend      string `toml:"backend" yaml:"backend"`
	LogLevel     string `toml:"log-level" yaml:"log-level"`
	TargetTriple string `toml:"target-triple" yaml:"target-triple"`
	ModuleName   string `toml:"module-name" yaml:"module-name"`
	Version      string `toml:"lltypes-version" yaml:"lltypes-version"`
}

// Find searches dir and its parents for a configuration file.  It returns
// false if there is none.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}

		dir = parent
	}
}

// Load loads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file `%s`: %w", path, err)
	}

	fc := &fileConfig{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(buff, fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(buff, fc)
	default:
		return nil, fmt.Errorf("config file `%s` has unknown format `%s`", path, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("error parsing config file `%s`: %w", path, err)
	}

	cfg := Default()
	cfg.Path = path
	if err := cfg.apply(fc); err != nil {
		return nil, fmt.Errorf("invalid config file `%s`: %w", path, err)
	}

	return cfg, nil
}

// apply validates fc and moves the fields it sets over to cfg.
func (cfg *Config) apply(fc *fileConfig) error {
	if fc.Backend != "" {
		if err := ValidateBackend(fc.Backend); err != nil {
			return err
		}

		cfg.Backend = fc.Backend
	}

	if fc.LogLevel != "" {
		level, err := report.LogLevelFromName(fc.LogLevel)
		if err != nil {
			return err
		}

		cfg.LogLevel = level
		cfg.LogLevelName = strings.ToLower(fc.LogLevel)
	}

	if fc.ModuleName != "" {
		if strings.ContainsAny(fc.ModuleName, "'\n") {
			return errors.New("module name must not contain quotes or newlines")
		}

		cfg.ModuleName = fc.ModuleName
	}

	cfg.TargetTriple = fc.TargetTriple

	if fc.Version != "" && fc.Version != Version {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("config file was written for lltypes v%s, this is v%s", fc.Version, Version))
	}

	return nil
}

// ValidateBackend checks that a backend of the given name is registered.
func ValidateBackend(name string) error {
	for _, backend := range native.Backends() {
		if backend == name {
			return nil
		}
	}

	return fmt.Errorf("unknown backend `%s` (available: %s)", name, strings.Join(native.Backends(), ", "))
}
