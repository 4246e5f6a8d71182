// Package config manages the environment store: a YAML file holding one or
// more named Kafka environments, of which at most one is active.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/cloudhut/kcli/kafka"
	"github.com/cloudhut/kcli/logging"
)

// EnvironmentConfig is one named cluster entry in the store.
type EnvironmentConfig struct {
	Active bool         `koanf:"active"`
	Kafka  kafka.Config `koanf:"kafka"`
}

func (e *EnvironmentConfig) SetDefaults() {
	e.Kafka.SetDefaults()
}

func (e *EnvironmentConfig) Validate() error {
	if err := e.Kafka.Validate(); err != nil {
		return fmt.Errorf("failed to validate kafka config: %w", err)
	}
	return nil
}

// Config is the full contents of the environment store plus ambient settings.
type Config struct {
	Environments map[string]EnvironmentConfig `koanf:"environments"`
	Logger       logging.Config               `koanf:"logger"`
}

func (c *Config) SetDefaults() {
	c.Logger.SetDefaults()
}

func (c *Config) Validate() error {
	activeCount := 0
	for name, environment := range c.Environments {
		if err := environment.Validate(); err != nil {
			return fmt.Errorf("failed to validate environment '%v': %w", name, err)
		}
		if environment.Active {
			activeCount++
		}
	}
	if activeCount > 1 {
		return fmt.Errorf("%v environments are marked active, at most one is allowed", activeCount)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("failed to validate logger config: %w", err)
	}

	return nil
}

// EnvironmentNames returns all configured environment names in sorted order.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Environment resolves the environment to use for a command invocation. An
// explicit name takes precedence; otherwise the active environment is used.
func (c *Config) Environment(name string) (EnvironmentConfig, error) {
	if name != "" {
		environment, exists := c.Environments[name]
		if !exists {
			return EnvironmentConfig{}, fmt.Errorf("environment '%v' is not configured", name)
		}
		return environment, nil
	}

	for _, environment := range c.Environments {
		if environment.Active {
			return environment, nil
		}
	}

	return EnvironmentConfig{}, fmt.Errorf("no environment is active, configure one with 'kcli config' " +
		"or select one with --environment")
}

// Upsert adds or replaces the named environment. The first environment ever
// stored becomes active automatically.
func (c *Config) Upsert(name string, environment EnvironmentConfig) {
	if c.Environments == nil {
		c.Environments = make(map[string]EnvironmentConfig)
	}
	if len(c.Environments) == 0 {
		environment.Active = true
	}
	if existing, exists := c.Environments[name]; exists {
		environment.Active = existing.Active
	}
	c.Environments[name] = environment
}

// Activate marks the named environment active and deactivates all others.
func (c *Config) Activate(name string) error {
	if _, exists := c.Environments[name]; !exists {
		return fmt.Errorf("environment '%v' is not configured", name)
	}

	for envName, environment := range c.Environments {
		environment.Active = envName == name
		c.Environments[envName] = environment
	}
	return nil
}

// DefaultFilepath returns the store location, ~/.config/kcli/config.yaml.
func DefaultFilepath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "kcli", "config.yaml"), nil
}

// Load reads the store from the given filepath and overlays KCLI_ prefixed
// environment variables. A missing file is not an error, it yields an empty
// store so that the config command can create it.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	var cfg Config
	cfg.SetDefaults()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}

	// Environment variables such as KCLI_LOGGER_LEVEL=debug override file
	// contents. Underscores become key separators to match the koanf paths.
	err := k.Load(env.ProviderWithValue("KCLI_", ".", func(s string, v string) (string, interface{}) {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "KCLI_")), "_", ".")
		if strings.Contains(v, ",") {
			return key, strings.Split(v, ",")
		}
		return key, v
	}), nil)
	if err != nil {
		return Config{}, err
	}

	err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc()),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return Config{}, err
	}

	for name, environment := range cfg.Environments {
		if environment.Kafka.ClientID == "" {
			environment.Kafka.ClientID = "kcli"
			cfg.Environments[name] = environment
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate config: %w", err)
	}

	return cfg, nil
}

// Save writes the store back to the given filepath, creating parent
// directories as needed. The file may hold credentials, hence 0600.
func Save(path string, cfg Config) error {
	out, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
