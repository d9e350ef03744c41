package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBaseName is the config file looked for under the install root when
// no explicit path is given, tried with .json, .yaml and .yml extensions.
const DefaultBaseName = "cronguard"

// Loader reads coordinator config files.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile loads a config from a JSON or YAML file (decided by extension).
// Environment variable references (${VAR}, ${VAR:-default}) are expanded
// before parsing, and defaults are applied after.
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = ExpandEnvBytes(data)

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadAndValidate loads a config file and validates it.
func (l *Loader) LoadAndValidate(path string) (*Config, error) {
	cfg, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); errs.HasErrors() {
		return nil, fmt.Errorf("config validation failed for %s:\n%w", path, errs)
	}
	return cfg, nil
}

// FindDefault returns the default config path under root, trying the known
// extensions in order. An error means no candidate exists.
func FindDefault(root string) (string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		p := filepath.Join(root, DefaultBaseName+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s.{json,yaml,yml} found in %s", DefaultBaseName, root)
}
