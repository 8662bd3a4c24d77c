// Package config provides configuration management for Kaizen.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the Kaizen application.
type Config struct {
	Storage       StorageConfig      `mapstructure:"storage"`
	Seed          SeedConfig         `mapstructure:"seed"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// StorageConfig selects the session repository. Both drivers keep the
// collection in memory for the lifetime of the process.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// SeedConfig controls the initial task collection.
type SeedConfig struct {
	// File is a TOML seed file. When empty the built-in dataset is used.
	File string `mapstructure:"file"`
	// Builtin loads the built-in dataset when no file is set.
	Builtin bool `mapstructure:"builtin"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorAccent       string `mapstructure:"color_accent"`
	ColorTitle        string `mapstructure:"color_title"`
	ColorTask         string `mapstructure:"color_task"`
	ColorDone         string `mapstructure:"color_done"`
	ColorInProgress   string `mapstructure:"color_in_progress"`
	ColorHelp         string `mapstructure:"color_help"`
	ColorError        string `mapstructure:"color_error"`
	ProgressGradStart string `mapstructure:"progress_gradient_start"`
	ProgressGradEnd   string `mapstructure:"progress_gradient_end"`
	IconApp           string `mapstructure:"icon_app"`
	IconTodo          string `mapstructure:"icon_todo"`
	IconInProgress    string `mapstructure:"icon_in_progress"`
	IconDone          string `mapstructure:"icon_done"`
	IconGoalReached   string `mapstructure:"icon_goal_reached"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorAccent:       "#7C6FE0",
		ColorTitle:        "#6B7280",
		ColorTask:         "#A0AEC0",
		ColorDone:         "#2ECC71",
		ColorInProgress:   "#F6AD55",
		ColorHelp:         "#95A5A6",
		ColorError:        "#E53E3E",
		ProgressGradStart: "#7C6FE0",
		ProgressGradEnd:   "#2ECC71",
		IconApp:           "✅",
		IconTodo:          "○",
		IconInProgress:    "◐",
		IconDone:          "●",
		IconGoalReached:   "🎉",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Seed: SeedConfig{
			Builtin: true,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file, creating it
// with defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path, creating it with defaults
// when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Seed.File = expandHome(cfg.Seed.File)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	return &cfg, nil
}

// Validate checks values viper cannot check for us.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q (want %s or %s)", c.Storage.Driver, DriverMemory, DriverSQLite)
	}
	return nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes the configuration to path.
func SaveTo(configPath string, cfg *Config) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("storage.driver", cfg.Storage.Driver)
	v.Set("seed.file", cfg.Seed.File)
	v.Set("seed.builtin", cfg.Seed.Builtin)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.development", cfg.Logging.Development)

	return v.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kaizen", "config.toml"), nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("seed.file", "")
	v.SetDefault("seed.builtin", true)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.sound", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.development", false)

	// Theme defaults
	defaults := DefaultThemeConfig()
	v.SetDefault("theme.color_accent", defaults.ColorAccent)
	v.SetDefault("theme.color_title", defaults.ColorTitle)
	v.SetDefault("theme.color_task", defaults.ColorTask)
	v.SetDefault("theme.color_done", defaults.ColorDone)
	v.SetDefault("theme.color_in_progress", defaults.ColorInProgress)
	v.SetDefault("theme.color_help", defaults.ColorHelp)
	v.SetDefault("theme.color_error", defaults.ColorError)
	v.SetDefault("theme.progress_gradient_start", defaults.ProgressGradStart)
	v.SetDefault("theme.progress_gradient_end", defaults.ProgressGradEnd)
	v.SetDefault("theme.icon_app", defaults.IconApp)
	v.SetDefault("theme.icon_todo", defaults.IconTodo)
	v.SetDefault("theme.icon_in_progress", defaults.IconInProgress)
	v.SetDefault("theme.icon_done", defaults.IconDone)
	v.SetDefault("theme.icon_goal_reached", defaults.IconGoalReached)
}
