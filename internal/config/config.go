// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for herdctl.
type Config struct {
	APIURL          string `mapstructure:"api_url" yaml:"api_url"`
	APIToken        string `mapstructure:"api_token" yaml:"api_token"`
	FarmID          string `mapstructure:"farm_id" yaml:"farm_id"`
	DataDir         string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel        string `mapstructure:"log_level" yaml:"log_level"`
	LogFile         string `mapstructure:"log_file" yaml:"log_file"`
	DebounceMs      int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	VerifyTimeoutMs int    `mapstructure:"verify_timeout_ms" yaml:"verify_timeout_ms"`
	NotifyMs        int    `mapstructure:"notify_ms" yaml:"notify_ms"`
}

// Debounce returns the quiet window applied to async uniqueness checks.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// VerifyTimeout returns the bounded wait for a single uniqueness check.
func (c *Config) VerifyTimeout() time.Duration {
	return time.Duration(c.VerifyTimeoutMs) * time.Millisecond
}

// NotifyDuration returns how long transient notices stay on screen.
func (c *Config) NotifyDuration() time.Duration {
	return time.Duration(c.NotifyMs) * time.Millisecond
}

// Defaults returns a config populated with the same defaults Load
// applies, for writing fresh config files.
func Defaults() *Config {
	return &Config{
		DataDir:         ".herdctl",
		LogLevel:        "info",
		DebounceMs:      400,
		VerifyTimeoutMs: 5000,
		NotifyMs:        4000,
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("herdctl")

	// Set defaults (api_url has no default - it's required)
	v.SetDefault("api_token", "")
	v.SetDefault("farm_id", "")
	v.SetDefault("data_dir", ".herdctl")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("debounce_ms", 400)
	v.SetDefault("verify_timeout_ms", 5000)
	v.SetDefault("notify_ms", 4000)

	// Setup ENV binding with HERDCTL_ prefix
	v.SetEnvPrefix("HERDCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better bool/int parsing
	bindings := map[string]string{
		"api_url":           "HERDCTL_API_URL",
		"api_token":         "HERDCTL_API_TOKEN",
		"farm_id":           "HERDCTL_FARM_ID",
		"data_dir":          "HERDCTL_DATA_DIR",
		"log_level":         "HERDCTL_LOG_LEVEL",
		"log_file":          "HERDCTL_LOG_FILE",
		"debounce_ms":       "HERDCTL_DEBOUNCE_MS",
		"verify_timeout_ms": "HERDCTL_VERIFY_TIMEOUT_MS",
		"notify_ms":         "HERDCTL_NOTIFY_MS",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/herdctl/herdctl.yml or $XDG_CONFIG_HOME/herdctl/herdctl.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "herdctl", "herdctl.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "herdctl", "herdctl.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./herdctl.yml in the current working directory.
func ProjectPath() string {
	return "herdctl.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	path := ProjectPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
