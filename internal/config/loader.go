package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the variable holding the config file path.
const EnvConfigPath = "CONFIG_PATH"

const defaultConfigPath = "./config.yaml"

// Load reads configuration from the file named by CONFIG_PATH (fallback
// ./config.yaml) and the environment, then validates it. ENV wins over the
// file, the file over env-default tags. A missing fallback file means ENV
// and defaults only; a missing CONFIG_PATH file is an error.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return load(defaultConfigPath, false)
	}
	return load(path, true)
}

func load(path string, explicit bool) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := checkSections(path); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("config: %s=%s: %w", EnvConfigPath, path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate %s backend: %w", cfg.Storage.Backend, err)
	}
	return &cfg, nil
}

// checkSections rejects top-level YAML keys that name no Config section, so
// a misspelled section does not silently fall back to defaults.
func checkSections(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	known := Sections()
	var unknown []string
	for key := range raw {
		if !slices.Contains(known, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("unknown sections %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(known, ", "))
	}
	return nil
}

// Sections returns the top-level YAML keys of Config in declaration order.
func Sections() []string {
	t := reflect.TypeFor[Config]()
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if tag != "" && tag != "-" {
			names = append(names, tag)
		}
	}
	return names
}
