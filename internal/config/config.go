// Package config is the configuration collaborator. It holds the persisted
// mind state and runtime settings, loaded from a YAML file with environment
// overrides and written back on sleep. Config is not goroutine safe; the
// Mind gate serializes all access.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// MindState is the lifecycle state of the mind.
type MindState string

const (
	Sleeping MindState = "SLEEPING"
	Thinking MindState = "THINKING"
	Dreaming MindState = "DREAMING"
)

// Config holds all application configuration.
type Config struct {
	MindState  MindState `mapstructure:"mind_state" yaml:"mind_state"`
	DBPath     string    `mapstructure:"db_path" yaml:"db_path"`
	LogLevel   string    `mapstructure:"log_level" yaml:"log_level"`
	DwellLimit int       `mapstructure:"dwell_limit" yaml:"dwell_limit"`
	// TimeScopeHours limits visibility to entities modified within the
	// last N hours; 0 disables the aspect.
	TimeScopeHours int `mapstructure:"time_scope_hours" yaml:"time_scope_hours"`

	path string
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mindkeep", "config.yaml")
}

// DefaultDBPath returns the default database location.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mindkeep", "mind.db")
}

// Load reads configuration from the given path (DefaultPath when empty).
// Values can be overridden with MINDKEEP_* environment variables. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MINDKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mind_state", string(Sleeping))
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("log_level", "info")
	v.SetDefault("dwell_limit", 20)
	v.SetDefault("time_scope_hours", 0)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{path: path}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize maps unknown states to SLEEPING. DREAMING is process-local and
// never survives a restart, so a persisted DREAMING also becomes SLEEPING.
func (c *Config) normalize() {
	switch MindState(strings.ToUpper(string(c.MindState))) {
	case Thinking:
		c.MindState = Thinking
	default:
		c.MindState = Sleeping
	}
	if c.DwellLimit <= 0 {
		c.DwellLimit = 20
	}
}

// State returns the current mind state.
func (c *Config) State() MindState {
	return c.MindState
}

// SetState records a mind state transition.
func (c *Config) SetState(s MindState) {
	c.MindState = s
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	// DREAMING is never persisted
	out := *c
	if out.MindState == Dreaming {
		out.MindState = Sleeping
	}
	b, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
